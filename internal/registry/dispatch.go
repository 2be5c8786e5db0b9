package registry

import (
	"context"
	"fmt"
)

// Handler validates a raw patch for one concrete kind and runs it through the
// scheduler. It is built per kind by Declare and knows that kind's types.
type Handler func(ctx context.Context, id string, raw []byte) (Change, error)

// Dispatcher routes a kind name to its typed handler.
// It is filled once when the engine is built and read-only afterwards.
type Dispatcher struct {
	handlers map[string]Handler
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// register associates a kind name with its handler.
func (d *Dispatcher) register(kind string, h Handler) error {
	if _, exists := d.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	d.handlers[kind] = h
	return nil
}

// Dispatch looks up the handler for kind and invokes it.
// An unknown kind returns ErrDispatchNotFound.
func (d *Dispatcher) Dispatch(ctx context.Context, kind, id string, raw []byte) (Change, error) {
	h, ok := d.handlers[kind]
	if !ok {
		return Change{}, fmt.Errorf("%w: %s", ErrDispatchNotFound, kind)
	}
	return h(ctx, id, raw)
}

// Has reports whether kind has a handler.
func (d *Dispatcher) Has(kind string) bool {
	_, ok := d.handlers[kind]
	return ok
}
