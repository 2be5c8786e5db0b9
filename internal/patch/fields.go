package patch

import (
	"reflect"
	"strings"
)

// Field describes one patchable field of a patch struct.
type Field struct {
	// Name is the wire name taken from the json tag.
	Name string

	// Type is the type of the value the field carries.
	Type reflect.Type

	// Nullable is true for option-of-option fields.
	Nullable bool
}

// field is implemented by Value and Nullable.
type field interface {
	ElemType() reflect.Type
}

// nullable is implemented by Nullable only.
type nullable interface {
	Clearable() bool
}

var (
	fieldType    = reflect.TypeFor[field]()
	nullableType = reflect.TypeFor[nullable]()
)

// Fields lists the patchable fields of patch struct type t in declaration order.
//
// Only exported fields of type Value or Nullable with a json name are
// returned. Identifier fields never appear in a patch struct, so they are
// never returned.
func Fields(t reflect.Type) []Field {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() || !sf.Type.Implements(fieldType) {
			continue
		}
		name := JSONName(sf)
		if name == "" {
			continue
		}
		elem := reflect.Zero(sf.Type).Interface().(field).ElemType()
		fields = append(fields, Field{
			Name:     name,
			Type:     elem,
			Nullable: sf.Type.Implements(nullableType),
		})
	}
	return fields
}

// Names returns the wire names of the patchable fields of t.
func Names(t reflect.Type) []string {
	fields := Fields(t)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// JSONName returns the wire name of a struct field, or "" if it is skipped.
func JSONName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}
