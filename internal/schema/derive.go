package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/gridstore-core/internal/patch"
)

// Enum is implemented by closed string enumerations.
// Values returns every accepted wire value.
type Enum interface {
	Values() []string
}

var (
	enumType = reflect.TypeFor[Enum]()
	timeType = reflect.TypeFor[time.Time]()
)

// patchDefinition is the CUE definition name of the top-level patch shape.
const patchDefinition = "Patch"

// deriver walks Go types once and emits both a CUE source and a JSON-schema
// document. Nested struct types become named definitions shared by both.
type deriver struct {
	order []reflect.Type
	seen  map[reflect.Type]bool
}

func newDeriver() *deriver {
	return &deriver{seen: make(map[reflect.Type]bool)}
}

// fieldSpec is one property of a struct or patch definition.
type fieldSpec struct {
	name     string
	t        reflect.Type
	optional bool
	nullable bool
}

// recordFields lists the wire fields of a record struct.
// Pointer fields and fields tagged omitempty are optional on input.
func recordFields(t reflect.Type) []fieldSpec {
	specs := make([]fieldSpec, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := patch.JSONName(sf)
		if name == "" {
			continue
		}
		ft := sf.Type
		spec := fieldSpec{name: name, t: ft}
		if ft.Kind() == reflect.Pointer {
			spec.t = ft.Elem()
			spec.optional = true
			spec.nullable = true
		}
		if strings.Contains(sf.Tag.Get("json"), ",omitempty") {
			spec.optional = true
		}
		specs = append(specs, spec)
	}
	return specs
}

// patchFields lists a patch struct's fields. Every field is optional and
// every field accepts null.
func patchFields(t reflect.Type) []fieldSpec {
	fields := patch.Fields(t)
	specs := make([]fieldSpec, len(fields))
	for i, f := range fields {
		specs[i] = fieldSpec{name: f.Name, t: f.Type, optional: true, nullable: true}
	}
	return specs
}

// cueExpr returns the CUE constraint for a Go type, registering struct
// definitions as they are discovered.
func (d *deriver) cueExpr(t reflect.Type) string {
	if t == timeType {
		return "string"
	}
	if t.Implements(enumType) {
		values := reflect.Zero(t).Interface().(Enum).Values()
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = strconv.Quote(v)
		}
		return strings.Join(quoted, " | ")
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("int%d", t.Bits())
	case reflect.Int:
		return "int"
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("uint%d", t.Bits())
	case reflect.Uint:
		return "uint"
	case reflect.Slice:
		return "[..." + d.cueExpr(t.Elem()) + "]"
	case reflect.Pointer:
		return "null | " + d.cueExpr(t.Elem())
	case reflect.Struct:
		d.visit(t)
		return "#" + t.Name()
	default:
		return "_"
	}
}

func (d *deriver) visit(t reflect.Type) {
	if d.seen[t] {
		return
	}
	d.seen[t] = true
	d.order = append(d.order, t)
}

// writeDefinition emits one closed CUE definition. Fields that are not
// optional carry the required marker, so an absent list or object fails
// even though its type alone would already be complete.
func (d *deriver) writeDefinition(b *strings.Builder, name string, specs []fieldSpec) {
	fmt.Fprintf(b, "#%s: {\n", name)
	for _, s := range specs {
		marker := "!"
		if s.optional {
			marker = "?"
		}
		expr := d.cueExpr(s.t)
		if s.nullable {
			expr = "null | " + expr
		}
		fmt.Fprintf(b, "\t%s%s: %s\n", strconv.Quote(s.name), marker, expr)
	}
	b.WriteString("}\n")
}

// cueSource renders the CUE source for a patch type and every struct it reaches.
func cueSource(patchType reflect.Type) string {
	d := newDeriver()
	var b strings.Builder
	d.writeDefinition(&b, patchDefinition, patchFields(patchType))
	// order grows while definitions are written
	for i := 0; i < len(d.order); i++ {
		t := d.order[i]
		d.writeDefinition(&b, t.Name(), recordFields(t))
	}
	return b.String()
}

// jsonSchema renders a JSON-schema document for a patch type.
func jsonSchema(kind string, patchType reflect.Type) map[string]any {
	d := newDeriver()
	doc := d.objectSchema(patchFields(patchType))
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	doc["title"] = kind + "Patch"

	defs := make(map[string]any)
	for i := 0; i < len(d.order); i++ {
		t := d.order[i]
		defs[t.Name()] = d.objectSchema(recordFields(t))
	}
	if len(defs) > 0 {
		doc["$defs"] = defs
	}
	return doc
}

func (d *deriver) objectSchema(specs []fieldSpec) map[string]any {
	props := make(map[string]any, len(specs))
	var required []string
	for _, s := range specs {
		prop := d.typeSchema(s.t)
		if s.nullable {
			prop = map[string]any{"anyOf": []any{prop, map[string]any{"type": "null"}}}
		}
		props[s.name] = prop
		if !s.optional {
			required = append(required, s.name)
		}
	}
	obj := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		sort.Strings(required)
		obj["required"] = required
	}
	return obj
}

func (d *deriver) typeSchema(t reflect.Type) map[string]any {
	if t == timeType {
		return map[string]any{"type": "string", "format": "date-time"}
	}
	if t.Implements(enumType) {
		return map[string]any{"type": "string", "enum": reflect.Zero(t).Interface().(Enum).Values()}
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer", "format": fmt.Sprintf("int%d", t.Bits())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer", "minimum": 0}
	case reflect.Slice:
		return map[string]any{"type": "array", "items": d.typeSchema(t.Elem())}
	case reflect.Pointer:
		return map[string]any{"anyOf": []any{d.typeSchema(t.Elem()), map[string]any{"type": "null"}}}
	case reflect.Struct:
		d.visit(t)
		return map[string]any{"$ref": "#/$defs/" + t.Name()}
	default:
		return map[string]any{}
	}
}
