package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/nerrad567/gridstore-core/internal/schema"
)

// kindSpec is everything the engine needs to know about one declared kind.
// The closures capture the kind's concrete record and patch types.
type kindSpec struct {
	name         string
	recordType   reflect.Type
	identifiable bool
	validator    *schema.Validator
	newQueue     func() queue
	newHandler   func(e *Engine) Handler
}

// Catalog is the closed set of record kinds an engine is built from.
// It is filled once at startup with Declare and then handed to NewEngine.
type Catalog struct {
	kinds map[string]*kindSpec
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{kinds: make(map[string]*kindSpec)}
}

// Declare adds record type T, patched by P, to the catalog under kind.
//
// The zero T must report kind from its Kind method, and P must be a patch
// struct the schema package can derive a validator from.
func Declare[T, P any, PT Patchable[T, P]](c *Catalog, kind string) error {
	if kind == "" {
		return fmt.Errorf("%w: empty kind name", ErrInternal)
	}
	if _, exists := c.kinds[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}

	var zero T
	rec, ok := any(zero).(Record)
	if !ok {
		return fmt.Errorf("%w: %T does not implement Record by value", ErrInternal, zero)
	}
	if rec.RecordKind() != kind {
		return fmt.Errorf("%w: %T reports kind %q, declared as %q", ErrInternal, zero, rec.RecordKind(), kind)
	}
	_, identifiable := any(zero).(Identifiable)

	v, err := schema.For[P](kind)
	if err != nil {
		return fmt.Errorf("declaring %s: %w", kind, err)
	}

	c.kinds[kind] = &kindSpec{
		name:         kind,
		recordType:   reflect.TypeFor[T](),
		identifiable: identifiable,
		validator:    v,
		newQueue: func() queue {
			return newKindQueue[T, P, PT](kind)
		},
		newHandler: func(e *Engine) Handler {
			return func(ctx context.Context, id string, raw []byte) (Change, error) {
				p, err := schema.Decode[P](v, raw)
				if err != nil {
					return Change{}, err
				}
				return submitUpdate[T, P, PT](e, kind, id, p)
			}
		},
	}
	c.order = append(c.order, kind)
	return nil
}

// Kinds returns the declared kind names in declaration order.
func (c *Catalog) Kinds() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of declared kinds.
func (c *Catalog) Len() int { return len(c.order) }
