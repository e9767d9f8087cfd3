package abi

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	domainerrors "github.com/Dessix/mumble-plugin-go/domain/errors"
)

// freeRecorder stands in for the host's freeMemory.
type freeRecorder struct {
	ids    []entities.PluginID
	frees  []unsafe.Pointer
	status entities.ErrorCode
}

func (f *freeRecorder) releaser(id entities.PluginID) Releaser {
	return Releaser{ID: id, Free: func(pid entities.PluginID, p unsafe.Pointer) entities.ErrorCode {
		f.ids = append(f.ids, pid)
		f.frees = append(f.frees, p)
		return f.status
	}}
}

func hostBlock() unsafe.Pointer {
	buf := []byte("host\x00")
	return unsafe.Pointer(&buf[0])
}

func TestClassify(t *testing.T) {
	notFound := []entities.ErrorCode{entities.ErrUserNotFound, entities.ErrChannelNotFound}

	tests := []struct {
		name   string
		code   entities.ErrorCode
		absent []entities.ErrorCode
		want   Outcome
	}{
		{"ok", entities.OK, nil, OutcomeOK},
		{"ok even if listed absent", entities.OK, []entities.ErrorCode{entities.OK}, OutcomeOK},
		{"user not found is absent", entities.ErrUserNotFound, notFound, OutcomeAbsent},
		{"channel not found is absent", entities.ErrChannelNotFound, notFound, OutcomeAbsent},
		{"not found without absent set is err", entities.ErrUserNotFound, nil, OutcomeErr},
		{"audio not available is err", entities.ErrAudioNotAvailable, notFound, OutcomeErr},
		{"generic error", entities.ErrGeneric, notFound, OutcomeErr},
		{"unknown code", entities.ErrorCode(999), notFound, OutcomeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code, tt.absent...))
		})
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("log", entities.OK))

	err := Check("log", entities.ErrInvalidPluginID)
	require.Error(t, err)
	var he *domainerrors.HostError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "log", he.Op)
	assert.Equal(t, entities.ErrInvalidPluginID, he.Code)
}

func TestResource_ReleaseOnce(t *testing.T) {
	rec := &freeRecorder{}
	ptr := hostBlock()
	res := rec.releaser(42).Own(ptr)

	assert.Equal(t, ptr, res.Pointer())
	res.Release()
	res.Release()

	require.Len(t, rec.frees, 1)
	assert.Equal(t, ptr, rec.frees[0])
	assert.Equal(t, []entities.PluginID{42}, rec.ids)
	assert.True(t, res.Released())
	assert.Nil(t, res.Pointer())
}

func TestResource_ReleasedOnErrorPath(t *testing.T) {
	rec := &freeRecorder{}
	rel := rec.releaser(1)

	op := func(fail bool) error {
		res := rel.Own(hostBlock())
		defer res.Release()
		if fail {
			return errors.New("decode failed")
		}
		return nil
	}

	require.NoError(t, op(false))
	require.Error(t, op(true))
	assert.Len(t, rec.frees, 2)
}

func TestResource_Take(t *testing.T) {
	rec := &freeRecorder{}
	ptr := hostBlock()
	src := rec.releaser(1).Own(ptr)

	dst := src.Take()
	src.Release()
	assert.Empty(t, rec.frees, "source must not free after transfer")

	dst.Release()
	require.Len(t, rec.frees, 1)
	assert.Equal(t, ptr, rec.frees[0])
}

func TestResource_NilPointerReleasesNothing(t *testing.T) {
	rec := &freeRecorder{}
	res := rec.releaser(1).Own(nil)
	res.Release()
	assert.Empty(t, rec.frees)

	var none *Resource
	assert.NotPanics(t, none.Release)
	assert.True(t, none.Released())
	assert.Nil(t, none.Take())
}

func TestResource_FreeFailureIsFatal(t *testing.T) {
	rec := &freeRecorder{status: entities.ErrPointerNotFound}
	res := rec.releaser(1).Own(hostBlock())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		cv, ok := r.(*domainerrors.ContractViolation)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, "free-memory", cv.Rule)
		assert.Contains(t, cv.Detail, "EC_POINTER_NOT_FOUND")
	}()
	res.Release()
}

func TestResource_String(t *testing.T) {
	rec := &freeRecorder{}
	res := rec.releaser(1).Own(hostBlock())
	defer res.Release()

	s, err := res.String()
	require.NoError(t, err)
	assert.Equal(t, "host", s)
}

func TestCopySlice(t *testing.T) {
	rec := &freeRecorder{}
	users := []entities.UserID{3, 5, 8}
	res := rec.releaser(1).Own(unsafe.Pointer(&users[0]))

	got := CopySlice[entities.UserID](res, uintptr(len(users)))
	res.Release()

	assert.Equal(t, []entities.UserID{3, 5, 8}, got)
	users[0] = 99
	assert.Equal(t, entities.UserID(3), got[0], "copy must not alias host memory")

	empty := CopySlice[entities.UserID](rec.releaser(1).Own(nil), 0)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSlot_Value(t *testing.T) {
	s := NewSlot[entities.UserID]()
	assert.Equal(t, SlotUninitialized, s.State())

	*s.Addr() = 17
	assert.Equal(t, entities.UserID(17), s.Value())
	assert.Equal(t, SlotCommittedBorrowed, s.State())

	assert.Panics(t, func() { s.Value() }, "second commitment must panic")
}

func TestSlot_CommitOwned(t *testing.T) {
	rec := &freeRecorder{}
	s := NewPointerSlot(rec.releaser(9))
	ptr := hostBlock()

	*s.Addr() = ptr
	res := CommitOwned(s)
	assert.Equal(t, SlotCommittedOwned, s.State())
	assert.Equal(t, ptr, res.Pointer())

	s.Release()
	s.Release()
	require.Len(t, rec.frees, 1)
	assert.Equal(t, ptr, rec.frees[0])
}

func TestSlot_AddrDropsCommittedResource(t *testing.T) {
	rec := &freeRecorder{}
	s := NewPointerSlot(rec.releaser(9))

	first := hostBlock()
	*s.Addr() = first
	res := CommitOwned(s)
	assert.Empty(t, rec.frees)

	// Reusing the slot (retry path) must release the first pointer before
	// handing out the cell again.
	cell := s.Addr()
	require.Len(t, rec.frees, 1)
	assert.Equal(t, first, rec.frees[0])
	assert.True(t, res.Released(), "old resource must not be usable after Addr")
	assert.Nil(t, *cell)
	assert.Equal(t, SlotUninitialized, s.State())

	second := hostBlock()
	*cell = second
	CommitOwned(s)
	s.Release()

	require.Len(t, rec.frees, 2)
	assert.Equal(t, second, rec.frees[1])
}

// The host writes through the cell address, so cgo requires the memory behind
// it to hold no Go pointers. The cell must not live inside the Slot, which
// carries the releaser's func value.
func TestSlot_CellOutsideSlot(t *testing.T) {
	rec := &freeRecorder{}
	for _, s := range []*Slot[unsafe.Pointer]{NewPointerSlot(rec.releaser(9)), NewSlot[unsafe.Pointer]()} {
		cell := uintptr(unsafe.Pointer(s.Addr()))
		start := uintptr(unsafe.Pointer(s))
		end := start + unsafe.Sizeof(*s)
		assert.False(t, cell >= start && cell < end, "cell shares the slot's allocation")
		assert.Equal(t, cell, uintptr(unsafe.Pointer(s.Addr())))
	}
}

func TestSlot_TakeOutlivesSlot(t *testing.T) {
	rec := &freeRecorder{}
	s := NewPointerSlot(rec.releaser(9))
	*s.Addr() = hostBlock()

	kept := CommitOwned(s).Take()
	s.Release()
	assert.Empty(t, rec.frees)

	kept.Release()
	assert.Len(t, rec.frees, 1)
}

func TestCString(t *testing.T) {
	buf, err := CString("name", "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice\x00"), buf)

	buf, err = CString("name", "")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, buf)

	_, err = CString("name", "al\x00ice")
	require.Error(t, err)
	var encErr *domainerrors.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "name", encErr.Field)
	assert.Equal(t, 2, encErr.Offset)
	assert.ErrorIs(t, err, domainerrors.ErrEmbeddedNUL)
}

func TestGoString(t *testing.T) {
	s, err := GoString(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	buf := []byte("Grüße\x00trailing")
	s, err = GoString(unsafe.Pointer(&buf[0]))
	require.NoError(t, err)
	assert.Equal(t, "Grüße", s)

	bad := []byte{'o', 'k', 0xff, 0}
	_, err = GoString(unsafe.Pointer(&bad[0]))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUTF8)
	var encErr *domainerrors.EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 2, encErr.Offset)
}

func TestFillCString(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		s        string
		offset   int
		want     string
		complete bool
	}{
		{"fits", 8, "abc", 0, "abc", true},
		{"exact fit", 4, "abc", 0, "abc", true},
		{"truncated", 3, "abcdef", 0, "ab", false},
		{"offset continues", 3, "abcdef", 4, "ef", true},
		{"offset past end", 4, "abc", 3, "", true},
		{"empty string", 2, "", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			for i := range buf {
				buf[i] = 'x'
			}
			complete := FillCString(buf, tt.s, tt.offset)
			assert.Equal(t, tt.complete, complete)
			got, err := GoString(unsafe.Pointer(&buf[0]))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, FillCString(nil, "abc", 0))
}

func TestTable_Missing(t *testing.T) {
	var tbl Table
	missing := tbl.Missing()
	assert.Contains(t, missing, "FreeMemory")
	assert.Contains(t, missing, "PlaySample")

	tbl.Log = func(entities.PluginID, *byte) entities.ErrorCode { return entities.OK }
	assert.NotContains(t, tbl.Missing(), "Log")
}
