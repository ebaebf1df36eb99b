// Package patch provides a tri-state JSON field for partial updates.
//
// A Field distinguishes a key that was absent from the request body, a key
// that was sent as null, and a key that carried a value. Nullable columns
// such as a category's parent or a transaction's notes need all three: absent
// leaves the column alone, null clears it, and a value replaces it.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it was present and whether it
// was null. The zero value is an absent field.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a present, non-null field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a present field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called by encoding/json when the key is present,
// including for a literal null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON renders absent and null fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// HasValue reports whether the field carried a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Ptr converts a present field into the pointer form stored on models:
// nil for null, &Value otherwise. It must only be called when Set is true.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Column returns the value to write to a nullable column: nil for null,
// Value otherwise.
func (f Field[T]) Column() any {
	if f.Null {
		return nil
	}
	return f.Value
}
