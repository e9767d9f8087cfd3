package abi

import (
	"unsafe"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
	"github.com/Dessix/mumble-plugin-go/domain/errors"
)

// Releaser frees host-allocated memory on behalf of one plugin identity.
type Releaser struct {
	ID   entities.PluginID
	Free func(entities.PluginID, unsafe.Pointer) entities.ErrorCode
}

// NewReleaser binds the table's free function to id.
func NewReleaser(id entities.PluginID, t *Table) Releaser {
	return Releaser{ID: id, Free: t.FreeMemory}
}

// Own wraps ptr in a Resource released through r. A nil ptr yields a Resource
// that releases nothing.
func (r Releaser) Own(ptr unsafe.Pointer) *Resource {
	return &Resource{ptr: ptr, rel: r}
}

// Resource owns one block of host-allocated memory and hands it back to the
// host exactly once. Owners call Release, typically deferred; Release clears
// the pointer so repeated calls do nothing.
type Resource struct {
	ptr unsafe.Pointer
	rel Releaser
}

// Pointer exposes the raw pointer without transferring ownership.
func (r *Resource) Pointer() unsafe.Pointer {
	if r == nil {
		return nil
	}
	return r.ptr
}

// Released reports whether the resource no longer owns memory.
func (r *Resource) Released() bool {
	return r == nil || r.ptr == nil
}

// Take moves ownership into a new Resource and leaves r empty. Taking from a
// nil Resource yields nil.
func (r *Resource) Take() *Resource {
	if r == nil {
		return nil
	}
	moved := &Resource{ptr: r.ptr, rel: r.rel}
	r.ptr = nil
	return moved
}

// Release frees the memory through the host. The host guarantees freeing a
// pointer it handed out succeeds, so any other status means the ABI does not
// match and panics.
func (r *Resource) Release() {
	if r == nil || r.ptr == nil {
		return
	}
	ptr := r.ptr
	r.ptr = nil
	if status := r.rel.Free(r.rel.ID, ptr); status != entities.OK {
		errors.Violation("free-memory", "host freeMemory(%p) returned %s", ptr, status)
	}
}

// String decodes the owned memory as a NUL-terminated UTF-8 string.
func (r *Resource) String() (string, error) {
	return GoString(r.Pointer())
}

// CopySlice copies n elements of T out of the owned memory.
func CopySlice[T any](r *Resource, n uintptr) []T {
	ptr := r.Pointer()
	if ptr == nil || n == 0 {
		return []T{}
	}
	out := make([]T, n)
	copy(out, unsafe.Slice((*T)(ptr), n))
	return out
}
