// Package patch provides the sparse field types that patch structs are built
// from, and the reflection helpers that list a patch struct's fields.
//
// A patch struct is a plain struct whose exported fields are Value[T] or
// Nullable[T] with a json tag. Absent keys decode to unset fields, so an
// empty object is a valid no-op patch.
package patch

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// jsonNull is the literal encoding/json passes to UnmarshalJSON for null.
var jsonNull = []byte("null")

// Value is an optional patch field for a record field that is always present.
//
// An absent key leaves the target unchanged. A present key sets it. An
// explicit null is treated the same as absence because the target field has
// no empty state to clear to.
type Value[T any] struct {
	set bool
	v   T
}

// Set returns a Value carrying v.
func Set[T any](v T) Value[T] {
	return Value[T]{set: true, v: v}
}

// IsSet reports whether the patch carries a value for this field.
func (p Value[T]) IsSet() bool { return p.set }

// Get returns the carried value and whether it is set.
func (p Value[T]) Get() (T, bool) { return p.v, p.set }

// IsZero reports whether the field is absent. Used by the omitzero tag option.
func (p Value[T]) IsZero() bool { return !p.set }

// ApplyTo overwrites *dst when the field is set.
func (p Value[T]) ApplyTo(dst *T) {
	if p.set {
		*dst = p.v
	}
}

// MarshalJSON implements json.Marshaler.
func (p Value[T]) MarshalJSON() ([]byte, error) {
	if !p.set {
		return jsonNull, nil
	}
	return json.Marshal(p.v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*p = Value[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Value[T]{set: true, v: v}
	return nil
}

// ElemType returns the type of the carried value.
func (Value[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// Nullable is an option-of-option patch field for a record field that may be
// empty.
//
//   - absent key: unchanged
//   - null: cleared
//   - value: set
type Nullable[T any] struct {
	set   bool
	valid bool
	v     T
}

// SetNull returns a Nullable that sets its value.
func SetNull[T any](v T) Nullable[T] {
	return Nullable[T]{set: true, valid: true, v: v}
}

// Clear returns a Nullable that clears its target.
func Clear[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

// IsSet reports whether the key was present, either as a value or as null.
func (p Nullable[T]) IsSet() bool { return p.set }

// IsNull reports whether the key was present with an explicit null.
func (p Nullable[T]) IsNull() bool { return p.set && !p.valid }

// Get returns the carried value; ok is false when absent or null.
func (p Nullable[T]) Get() (v T, ok bool) { return p.v, p.set && p.valid }

// IsZero reports whether the field is absent. Used by the omitzero tag option.
func (p Nullable[T]) IsZero() bool { return !p.set }

// ApplyTo updates an optional pointer field.
func (p Nullable[T]) ApplyTo(dst **T) {
	if !p.set {
		return
	}
	if !p.valid {
		*dst = nil
		return
	}
	v := p.v
	*dst = &v
}

// MarshalJSON implements json.Marshaler.
func (p Nullable[T]) MarshalJSON() ([]byte, error) {
	if !p.set || !p.valid {
		return jsonNull, nil
	}
	return json.Marshal(p.v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*p = Nullable[T]{set: true}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Nullable[T]{set: true, valid: true, v: v}
	return nil
}

// ElemType returns the type of the carried value.
func (Nullable[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// Clearable marks the field as option-of-option.
func (Nullable[T]) Clearable() bool { return true }

// ApplySlice updates an optional slice field: null clears it to nil.
func ApplySlice[E any](p Nullable[[]E], dst *[]E) {
	if !p.set {
		return
	}
	if !p.valid {
		*dst = nil
		return
	}
	*dst = p.v
}
