package entities

// Optional carries a value that the host may leave out. The zero value is empty.
type Optional[T any] struct {
	value T
	valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid reports whether a value is present.
func (o Optional[T]) Valid() bool {
	return o.valid
}

// OrElse returns the value, or fallback when empty.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.valid {
		return fallback
	}
	return o.value
}
