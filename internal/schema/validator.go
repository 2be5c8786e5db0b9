package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/nerrad567/gridstore-core/internal/patch"
)

// Validator is the gateway between untrusted JSON and one kind's patch type.
//
// The allowed field set, the JSON-schema document and the CUE definition are
// all derived from the patch struct when the validator is built.
//
// Thread Safety:
//   - All methods are safe for concurrent use. CUE evaluation is serialised
//     because a cue.Context must not be used from several goroutines at once.
type Validator struct {
	kind      string
	patchType reflect.Type
	names     []string
	allowed   map[string]struct{}
	document  map[string]any
	source    string

	mu  sync.Mutex
	ctx *cue.Context
	def cue.Value
}

// New builds a validator for a patch struct type.
//
// Parameters:
//   - kind: Record kind name, used in errors and the schema title
//   - patchType: The patch struct type (Value/Nullable fields with json tags)
//
// Returns:
//   - *Validator: Ready for use
//   - error: If the derived CUE definition does not compile
func New(kind string, patchType reflect.Type) (*Validator, error) {
	for patchType.Kind() == reflect.Pointer {
		patchType = patchType.Elem()
	}
	if patchType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s patch type %s is not a struct", kind, patchType)
	}

	names := patch.Names(patchType)
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}

	source := cueSource(patchType)
	ctx := cuecontext.New()
	compiled := ctx.CompileString(source, cue.Filename(kind+".cue"))
	if err := compiled.Err(); err != nil {
		return nil, fmt.Errorf("schema: compiling %s definition: %w", kind, err)
	}
	def := compiled.LookupPath(cue.ParsePath("#" + patchDefinition))
	if !def.Exists() {
		return nil, fmt.Errorf("schema: %s definition has no #%s", kind, patchDefinition)
	}

	return &Validator{
		kind:      kind,
		patchType: patchType,
		names:     names,
		allowed:   allowed,
		document:  jsonSchema(kind, patchType),
		source:    source,
		ctx:       ctx,
		def:       def,
	}, nil
}

// For builds a validator for patch type P.
func For[P any](kind string) (*Validator, error) {
	return New(kind, reflect.TypeFor[P]())
}

// Kind returns the record kind name.
func (v *Validator) Kind() string { return v.kind }

// AllowedFields returns the patchable field names in declaration order.
func (v *Validator) AllowedFields() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// JSONSchema returns the JSON-schema document describing the patch shape.
// The returned map is shared; callers must not modify it.
func (v *Validator) JSONSchema() map[string]any { return v.document }

// CUE returns the CUE source the validator checks payloads against.
func (v *Validator) CUE() string { return v.source }

// Check runs every gateway step, decoding into a scratch patch value so that
// a payload Check accepts is one Decode accepts.
//
// The steps run in order and the first failure wins:
//  1. parse (ErrMalformedInput)
//  2. top-level object (ErrNotAnObject)
//  3. closed field set (ErrUnexpectedField, first unknown key in document order)
//  4. full shape against the CUE definition (ErrSchemaViolation)
//  5. typed decode, e.g. numeric overflow (ErrSchemaViolation)
func (v *Validator) Check(raw []byte) error {
	return v.check(raw, reflect.New(v.patchType).Interface())
}

// check runs the gateway steps and decodes raw into dst.
func (v *Validator) check(raw []byte, dst any) error {
	if !json.Valid(raw) {
		var scratch any
		detail := "empty input"
		if err := json.Unmarshal(raw, &scratch); err != nil {
			detail = err.Error()
		}
		return v.fail(ErrMalformedInput, "", detail)
	}

	keys, ok := topLevelKeys(raw)
	if !ok {
		return v.fail(ErrNotAnObject, "", "")
	}
	for _, k := range keys {
		if _, allowed := v.allowed[k]; !allowed {
			return v.fail(ErrUnexpectedField, k, "")
		}
	}

	if detail := v.evaluate(raw); detail != "" {
		return v.fail(ErrSchemaViolation, "", detail)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return v.fail(ErrSchemaViolation, "", err.Error())
	}
	return nil
}

// evaluate unifies the payload with the patch definition and returns a
// violation description, or "" when the payload conforms.
func (v *Validator) evaluate(raw []byte) string {
	expr, err := cuejson.Extract(v.kind+".json", raw)
	if err != nil {
		return err.Error()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	data := v.ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return describe(err)
	}
	if err := v.def.Unify(data).Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return describe(err)
	}
	return ""
}

func (v *Validator) fail(reason error, field, detail string) error {
	return &ValidationError{Kind: v.kind, Reason: reason, Field: field, Detail: detail}
}

// Decode runs Check and then decodes the payload into a P.
func Decode[P any](v *Validator, raw []byte) (P, error) {
	var p P
	if reflect.TypeFor[P]() != v.patchType {
		return p, fmt.Errorf("schema: validator for %s decodes %s, not %s", v.kind, v.patchType, reflect.TypeFor[P]())
	}
	if err := v.check(raw, &p); err != nil {
		var zero P
		return zero, err
	}
	return p, nil
}

// topLevelKeys returns the keys of a JSON object in document order.
// ok is false when the value is not an object.
func topLevelKeys(raw []byte) (keys []string, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		return nil, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys, true
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys, true
		}
	}
	return keys, true
}

// describe flattens CUE errors into a single line per problem.
func describe(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return strings.TrimSpace(err.Error())
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if path := strings.Join(e.Path(), "."); path != "" && !strings.HasPrefix(msg, path) {
			msg = path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
