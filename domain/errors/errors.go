// Package errors provides the error types surfaced at the plugin/host boundary.
// All error types support error unwrapping via errors.As() and errors.Is().
//
// Three families exist: HostError propagates a non-OK host status to plugin
// code, EncodingError and NotRegisteredError are ordinary recoverable failures,
// and ContractViolation is only ever used as a panic value for conditions that
// mean the host or the build broke the documented call-order contract.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

var (
	// ErrNotRegistered matches any NotRegisteredError.
	ErrNotRegistered = stdErrors.New("resource not registered")

	// ErrContractViolation matches any ContractViolation.
	ErrContractViolation = stdErrors.New("host contract violation")
)

// HostError is a non-OK status returned by a host API function.
type HostError struct {
	Op   string
	Code entities.ErrorCode
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host %s failed: %s", e.Op, e.Code)
}

// Is matches another HostError with the same code, ignoring the operation.
func (e *HostError) Is(target error) bool {
	t, ok := target.(*HostError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf extracts the host status carried by err, if any.
func CodeOf(err error) (entities.ErrorCode, bool) {
	var he *HostError
	if stdErrors.As(err, &he) {
		return he.Code, true
	}
	return entities.OK, false
}

// EncodingError reports text that cannot cross the boundary: an embedded NUL on
// the way out, or invalid UTF-8 on the way in.
type EncodingError struct {
	Field  string
	Offset int
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cannot encode %s at byte %d: %v", e.Field, e.Offset, e.Err)
	}
	return fmt.Sprintf("cannot encode text at byte %d: %v", e.Offset, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

var (
	// ErrEmbeddedNUL is wrapped by EncodingError for strings containing a NUL byte.
	ErrEmbeddedNUL = stdErrors.New("embedded NUL byte")

	// ErrInvalidUTF8 is wrapped by EncodingError for host strings that are not UTF-8.
	ErrInvalidUTF8 = stdErrors.New("invalid UTF-8")
)

// NotRegisteredError is returned when the host asks to release a pointer the
// resource table never tracked.
type NotRegisteredError struct {
	Pointer uintptr
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("release of unregistered resource 0x%x", e.Pointer)
}

// Is reports ErrNotRegistered as a match.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// ContractViolation is the panic value for fatal protocol violations.
type ContractViolation struct {
	Rule   string
	Detail string
}

func (e *ContractViolation) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("contract violation (%s): %s", e.Rule, e.Detail)
	}
	return fmt.Sprintf("contract violation (%s)", e.Rule)
}

// Is reports ErrContractViolation as a match.
func (e *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

// Violation panics with a ContractViolation. It never returns.
func Violation(rule, format string, args ...any) {
	panic(&ContractViolation{Rule: rule, Detail: fmt.Sprintf(format, args...)})
}
