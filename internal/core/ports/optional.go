package ports

// Opt is a tri-state field for partial updates: absent (the zero value),
// explicitly null, or set to a concrete value. Clearing a stored value is
// therefore an intentional, representable action rather than a side effect
// of passing an empty value.
type Opt[T any] struct {
	present bool
	null    bool
	value   T
}

// Some returns an Opt carrying a concrete value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{present: true, value: v}
}

// Null returns an Opt that explicitly clears the stored value.
func Null[T any]() Opt[T] {
	return Opt[T]{present: true, null: true}
}

// Present reports whether the field was supplied at all (value or null).
func (o Opt[T]) Present() bool {
	return o.present
}

// IsNull reports whether the field was supplied as an explicit null.
func (o Opt[T]) IsNull() bool {
	return o.present && o.null
}

// Value returns the concrete value and whether one was supplied.
func (o Opt[T]) Value() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}
