package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resolved is the transferable form of a Field: either a constant or one value
// per word, positionally aligned with the word list.
type Resolved[T any] struct {
	constant T
	values   []T
	perWord  bool
}

// ResolvedConst returns a constant Resolved value.
func ResolvedConst[T any](v T) *Resolved[T] {
	return &Resolved[T]{constant: v}
}

// ResolvedValues returns a per-word Resolved value.
func ResolvedValues[T any](values []T) *Resolved[T] {
	if values == nil {
		values = []T{}
	}
	return &Resolved[T]{values: values, perWord: true}
}

// Resolve evaluates f for every word in index order. Constants pass through
// unchanged and an unset field resolves to nil. A panicking accessor propagates.
func Resolve[T any](words []Word, f Field[T]) *Resolved[T] {
	if !f.IsSet() {
		return nil
	}
	if v, ok := f.Constant(); ok {
		return ResolvedConst(v)
	}
	values := make([]T, len(words))
	for i, w := range words {
		values[i] = f.Eval(w, i)
	}
	return ResolvedValues(values)
}

// IsPerWord reports whether r holds one value per word.
func (r *Resolved[T]) IsPerWord() bool { return r != nil && r.perWord }

// Values returns the per-word values, or nil for a constant.
func (r *Resolved[T]) Values() []T {
	if r == nil {
		return nil
	}
	return r.values
}

// Constant returns the constant and true, or false for per-word values.
func (r *Resolved[T]) Constant() (T, bool) {
	if r == nil || r.perWord {
		var zero T
		return zero, false
	}
	return r.constant, true
}

// Check verifies that per-word values line up with a list of n words.
func (r *Resolved[T]) Check(n int) error {
	if r.IsPerWord() && len(r.values) != n {
		return fmt.Errorf("resolved field has %d values for %d words", len(r.values), n)
	}
	return nil
}

// Field rebuilds a Field from r. Per-word values become an index lookup; an
// index outside the array yields the zero value. A nil r yields an unset Field.
func (r *Resolved[T]) Field() Field[T] {
	if r == nil {
		return Field[T]{}
	}
	if !r.perWord {
		return Const(r.constant)
	}
	values := r.values
	return Func(func(_ Word, i int) T {
		if i < 0 || i >= len(values) {
			var zero T
			return zero
		}
		return values[i]
	})
}

// MarshalJSON encodes a constant as a JSON scalar and per-word values as an array.
func (r Resolved[T]) MarshalJSON() ([]byte, error) {
	if r.perWord {
		if r.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.values)
	}
	return json.Marshal(r.constant)
}

// UnmarshalJSON accepts either a JSON array (per-word) or any other JSON value (constant).
func (r *Resolved[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []T
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*r = *ResolvedValues(values)
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*r = Resolved[T]{constant: v}
	return nil
}
