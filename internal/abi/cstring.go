package abi

import (
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

// CString returns s as a NUL-terminated buffer. Text containing a NUL byte
// cannot be represented and yields an *errors.EncodingError.
func CString(field, s string) ([]byte, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, &errors.EncodingError{Field: field, Offset: i, Err: errors.ErrEmbeddedNUL}
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf, nil
}

// CStringPtr is CString returning a pointer to the first byte.
func CStringPtr(field, s string) (*byte, error) {
	buf, err := CString(field, s)
	if err != nil {
		return nil, err
	}
	return &buf[0], nil
}

// GoString copies the NUL-terminated string at p. A nil p decodes to "".
func GoString(p unsafe.Pointer) (string, error) {
	if p == nil {
		return "", nil
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return GoStringN(p, n)
}

// GoStringN copies n bytes at p and checks they are UTF-8.
func GoStringN(p unsafe.Pointer, n int) (string, error) {
	if p == nil || n == 0 {
		return "", nil
	}
	raw := unsafe.Slice((*byte)(p), n)
	if !utf8.Valid(raw) {
		off := 0
		for off < len(raw) {
			r, size := utf8.DecodeRune(raw[off:])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			off += size
		}
		return "", &errors.EncodingError{Offset: off, Err: errors.ErrInvalidUTF8}
	}
	return string(raw), nil
}

// FillCString writes s into buf starting at offset, truncated to leave room
// for a terminating NUL. It reports whether the rest of s fit completely.
// An empty buf cannot hold the terminator and reports false.
func FillCString(buf []byte, s string, offset int) bool {
	if len(buf) == 0 {
		return false
	}
	if offset >= len(s) {
		buf[0] = 0
		return true
	}
	rest := s[offset:]
	n := copy(buf[:len(buf)-1], rest)
	buf[n] = 0
	return n == len(rest)
}
