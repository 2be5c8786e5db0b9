// Package schema validates untrusted JSON patches against a record kind's
// patch shape before anything is mutated.
//
// The shape is derived mechanically from Go struct definitions:
//
//	patch struct ──► allowed field names  (closed-world key check)
//	             ──► CUE definition       (types, nested shapes, enums)
//	             ──► JSON-schema document (published to clients)
//
// Nested record structs become shared definitions. Within a nested record,
// pointer fields and fields tagged omitempty are optional; everything else is
// required.
//
// # Usage
//
//	v, err := schema.For[iidm.LinePatch]("Line")
//	p, err := schema.Decode[iidm.LinePatch](v, raw)
//	if errors.Is(err, schema.ErrUnexpectedField) {
//	    // reject
//	}
package schema
