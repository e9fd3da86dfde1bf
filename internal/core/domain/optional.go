package domain

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a field absent from a payload from one that was
// sent. A field sent as JSON null is present with Null set.
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// UnmarshalJSON is only invoked for keys that appear in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil for absent or null values and a pointer to the value otherwise.
func (o Optional[T]) Ptr() *T {
	if !o.Present || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
