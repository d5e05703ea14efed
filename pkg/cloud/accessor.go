package cloud

// Accessor computes a per-word value from the word and its index in the input.
type Accessor[T any] func(w Word, i int) T

// Field is a per-word configuration value: unset, a constant, or an Accessor.
// The zero Field is unset.
type Field[T any] struct {
	set   bool
	value T
	fn    Accessor[T]
}

// Const returns a Field that yields v for every word.
func Const[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Func returns a Field backed by fn. A nil fn yields an unset Field.
func Func[T any](fn Accessor[T]) Field[T] {
	if fn == nil {
		return Field[T]{}
	}
	return Field[T]{set: true, fn: fn}
}

// IsSet reports whether the field carries a constant or an accessor.
func (f Field[T]) IsSet() bool { return f.set }

// IsFunc reports whether the field is backed by an accessor.
func (f Field[T]) IsFunc() bool { return f.fn != nil }

// Constant returns the constant value and true, or the zero value and false
// when the field is unset or backed by an accessor.
func (f Field[T]) Constant() (T, bool) {
	if !f.set || f.fn != nil {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Eval returns the field's value for words[i]. Unset fields yield the zero value.
func (f Field[T]) Eval(w Word, i int) T {
	if f.fn != nil {
		return f.fn(w, i)
	}
	return f.value
}

// Or returns f when it is set and def otherwise.
func (f Field[T]) Or(def Field[T]) Field[T] {
	if f.set {
		return f
	}
	return def
}

// Accessor returns the field as a function. Constants are wrapped; an unset
// field returns nil.
func (f Field[T]) Accessor() Accessor[T] {
	switch {
	case !f.set:
		return nil
	case f.fn != nil:
		return f.fn
	}
	v := f.value
	return func(Word, int) T { return v }
}
