package abi

import (
	"fmt"
	"unsafe"
)

// SlotState is the commitment state of a Slot.
type SlotState uint8

const (
	SlotUninitialized SlotState = iota
	SlotCommittedOwned
	SlotCommittedBorrowed
)

func (s SlotState) String() string {
	switch s {
	case SlotUninitialized:
		return "uninitialized"
	case SlotCommittedOwned:
		return "committed_owned"
	case SlotCommittedBorrowed:
		return "committed_borrowed"
	default:
		return fmt.Sprintf("SlotState(%d)", uint8(s))
	}
}

// Slot is an out-parameter cell the host writes into. After the host call the
// caller commits the cell exactly once: as a plain value with Value, or, for
// pointer cells, as a tracked Resource with CommitOwned.
//
// The cell is a separate allocation so the address handed to the host points
// at memory holding no Go pointers, as cgo requires.
type Slot[T any] struct {
	cell  *T
	state SlotState
	owned *Resource
	rel   Releaser
}

// NewSlot returns an uninitialized value slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{cell: new(T)}
}

// NewPointerSlot returns an uninitialized pointer slot whose committed pointer
// is released through rel.
func NewPointerSlot(rel Releaser) *Slot[unsafe.Pointer] {
	return &Slot[unsafe.Pointer]{cell: new(unsafe.Pointer), rel: rel}
}

// State returns the current commitment state.
func (s *Slot[T]) State() SlotState {
	return s.state
}

// Addr returns the raw cell for the host to write into. Any resource committed
// from an earlier write is released first and the slot is reset, so a slot
// reused on a retry path never leaks the previous pointer.
func (s *Slot[T]) Addr() *T {
	if s.owned != nil {
		s.owned.Release()
		s.owned = nil
	}
	var zero T
	*s.cell = zero
	s.state = SlotUninitialized
	return s.cell
}

// Value commits the cell as a plain value and returns it.
func (s *Slot[T]) Value() T {
	s.commit(SlotCommittedBorrowed)
	return *s.cell
}

// Release frees any committed resource. It is safe on every state.
func (s *Slot[T]) Release() {
	if s.owned != nil {
		s.owned.Release()
		s.owned = nil
	}
}

func (s *Slot[T]) commit(to SlotState) {
	if s.state != SlotUninitialized {
		panic(fmt.Sprintf("abi: slot committed twice (state %s)", s.state))
	}
	s.state = to
}

// CommitOwned commits a pointer cell as host-owned memory and returns the
// Resource tracking it. The slot keeps a reference so Addr and Release can
// drop it; callers that want to keep the memory past the slot call Take.
func CommitOwned(s *Slot[unsafe.Pointer]) *Resource {
	s.commit(SlotCommittedOwned)
	s.owned = s.rel.Own(*s.cell)
	return s.owned
}
