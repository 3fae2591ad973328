package standup

import (
	"bytes"
	"encoding/json"
)

// Field is one member of a partial update. It keeps three states apart:
// the key was absent (Set=false), the key was null (Set && Null), or the key
// carried a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carried a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// IsZero lets `omitzero` drop absent fields when a patch is encoded.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// UnmarshalJSON only runs for keys that appear in the document, which is
// what marks the field as set.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}

	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
