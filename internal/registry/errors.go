package registry

import "errors"

// Engine errors.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, registry.ErrEntityNotFound) {
//	    // respond 404
//	}
var (
	// ErrEntityNotFound is returned when an update targets an identifier with no record.
	ErrEntityNotFound = errors.New("registry: entity not found")

	// ErrComponentTypeMismatch is returned when the stored record is of a different kind
	// than the update requested.
	ErrComponentTypeMismatch = errors.New("registry: component type mismatch")

	// ErrDispatchNotFound is returned when no handler is registered for a kind name.
	ErrDispatchNotFound = errors.New("registry: kind not found")

	// ErrInternal is returned when a kind is not wired correctly (missing queue,
	// mismatched queue type). It signals a startup defect, not bad input.
	ErrInternal = errors.New("registry: internal error")

	// ErrDuplicateKind is returned when a kind is declared twice in a catalog.
	ErrDuplicateKind = errors.New("registry: duplicate kind")

	// ErrNotIdentifiable is returned when Register is given a value without its own identifier.
	ErrNotIdentifiable = errors.New("registry: value is not identifiable")

	// ErrEmptyID is returned when a record is registered without an identifier.
	ErrEmptyID = errors.New("registry: empty identifier")
)
