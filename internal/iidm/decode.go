package iidm

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// DecodeNetwork reads one JSON network document.
//
// Unknown fields are ignored, matching how exported IIDM documents carry
// extensions the catalog does not model. A document without an identifier or
// case date, or with trailing data after the network object, is rejected.
//
// Required list fields the document leaves out are decoded as empty lists, so
// every registered record serializes to a shape its own patch accepts.
func DecodeNetwork(r io.Reader) (*Network, error) {
	dec := json.NewDecoder(r)
	var n Network
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after network object", ErrInvalidNetwork)
	}
	if n.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidNetwork)
	}
	if n.CaseDate.IsZero() {
		return nil, fmt.Errorf("%w: missing caseDate", ErrInvalidNetwork)
	}
	fillEmptyLists(reflect.ValueOf(&n).Elem())
	return &n, nil
}

// fillEmptyLists replaces nil slices in fields without omitempty by empty
// slices, walking nested structs, pointers and slices.
func fillEmptyLists(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			fillEmptyLists(v.Elem())
		}
	case reflect.Slice:
		for i := range v.Len() {
			fillEmptyLists(v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			f := v.Field(i)
			if f.Kind() == reflect.Slice && f.IsNil() && !strings.Contains(sf.Tag.Get("json"), ",omitempty") {
				f.Set(reflect.MakeSlice(f.Type(), 0, 0))
			}
			fillEmptyLists(f)
		}
	}
}
