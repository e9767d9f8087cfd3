// Package resource keeps Go values alive while the host holds raw pointers
// into them. Values are registered under the address the host will later hand
// back to releaseResource, pinned so the pointer stays valid after the call
// that produced it returns.
package resource

import (
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

type entry struct {
	value  any
	pinner runtime.Pinner
}

// Table maps pointer identity to an owned value. At most one entry exists per
// pointer at any time.
type Table struct {
	mu      sync.Mutex
	entries map[uintptr]*entry
	logger  *slog.Logger
}

// NewTable creates an empty table. A nil logger uses slog.Default.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		entries: make(map[uintptr]*entry),
		logger:  logger,
	}
}

// Register moves value into the table and returns the pointer addr derives
// from its final storage location. Registering a pointer that is already
// tracked means two live values share an address and panics.
func Register[T any](t *Table, value T, addr func(*T) unsafe.Pointer) unsafe.Pointer {
	boxed := &value
	ptr := addr(boxed)
	if ptr == nil {
		panic("resource: addr returned nil pointer")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := uintptr(ptr)
	if _, exists := t.entries[key]; exists {
		errors.Violation("resource-alias", "pointer %p is already registered", ptr)
	}
	e := &entry{value: boxed}
	e.pinner.Pin(ptr)
	t.entries[key] = e
	return ptr
}

// Release removes the entry for ptr and returns the value it owned (as the
// *T that Register boxed). Releasing a pointer the table does not track is
// logged and reported as *errors.NotRegisteredError; the host may probe
// resources this process never handed out.
func (t *Table) Release(ptr unsafe.Pointer) (any, error) {
	t.mu.Lock()
	e, ok := t.entries[uintptr(ptr)]
	if ok {
		delete(t.entries, uintptr(ptr))
	}
	t.mu.Unlock()

	if !ok {
		t.logger.Warn("resource: release of unregistered resource", "pointer", uintptr(ptr))
		return nil, &errors.NotRegisteredError{Pointer: uintptr(ptr)}
	}
	e.pinner.Unpin()
	return e.value, nil
}

// Len returns the number of tracked resources.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Close releases every tracked resource.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.entries {
		e.pinner.Unpin()
		delete(t.entries, key)
	}
}

// CString registers s as a NUL-terminated buffer and returns a pointer to its
// first byte along with the string length (without the terminator).
func CString(t *Table, s string) (unsafe.Pointer, int) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	ptr := Register(t, buf, func(b *[]byte) unsafe.Pointer {
		return unsafe.Pointer(&(*b)[0])
	})
	return ptr, len(s)
}
