package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gridstore-core/internal/fanout"
	"github.com/nerrad567/gridstore-core/internal/schema"
)

// sinkTimeout bounds how long sinks may take for one update.
const sinkTimeout = 5 * time.Second

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Engine is the entity registry and typed update dispatcher.
//
// One RWMutex guards the store and the scheduler together. Every mutation
// holds the write lock for one full scheduler pass; Find holds the read lock.
// Fan-out and sinks run after the write lock is released.
//
// Records handed out by Find are copies of the stored value. Patches replace
// fields wholesale and never write through nested slices or pointers, so the
// copies stay valid after later updates. Callers must not modify them.
type Engine struct {
	mu    sync.RWMutex
	store *Store
	sched *Scheduler

	kinds    map[string]*kindSpec
	order    []string
	dispatch *Dispatcher
	hub      *fanout.Hub

	sinkMu   sync.RWMutex
	sinks    []Sink
	logger   Logger
	observer Observer
	now      func() time.Time
}

// NewEngine builds an engine from a catalog. Every declared kind gets its
// queue and dispatch handler here; the set is fixed afterwards.
//
// A nil hub is replaced by one with default settings.
func NewEngine(c *Catalog, hub *fanout.Hub) (*Engine, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInternal)
	}
	if hub == nil {
		hub = fanout.NewHub(fanout.Config{})
	}

	e := &Engine{
		store:    NewStore(),
		sched:    newScheduler(),
		kinds:    make(map[string]*kindSpec, c.Len()),
		order:    c.Kinds(),
		dispatch: newDispatcher(),
		hub:      hub,
		logger:   noopLogger{},
		now:      time.Now,
	}
	for _, name := range e.order {
		spec := c.kinds[name]
		e.kinds[name] = spec
		e.sched.add(spec.newQueue())
		if err := e.dispatch.register(name, spec.newHandler(e)); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// SetObserver sets the metrics observer for the engine.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// AddSink attaches a sink that receives every applied update.
func (e *Engine) AddSink(s Sink) {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	e.sinks = append(e.sinks, s)
}

// Hub returns the fan-out hub snapshots are published to.
func (e *Engine) Hub() *fanout.Hub { return e.hub }

// Register stores root and every record nested in it, in one scheduler pass.
// Identifiers already present are overwritten in place.
//
// Returns:
//   - []string: The identifiers registered, grouped by kind in declaration order
//   - error: ErrNotIdentifiable, ErrEmptyID or ErrInternal; the store is unchanged on error
func (e *Engine) Register(ctx context.Context, root Identifiable) ([]string, error) {
	if isNil(root) {
		return nil, ErrNotIdentifiable
	}
	start := e.now()

	e.mu.Lock()
	r := &registrar{sched: e.sched}
	root.RegisterInto(r)
	if r.err != nil {
		e.sched.discard()
		e.mu.Unlock()
		e.logger.Error("registration rejected", "kind", root.RecordKind(), "id", root.Identifier(), "error", r.err)
		return nil, r.err
	}
	out := e.sched.Run(e.store)
	size := e.store.Len()
	e.mu.Unlock()

	ids := make([]string, 0, len(out.Changes))
	for _, c := range out.Changes {
		ids = append(ids, c.ID)
	}

	if e.observer != nil {
		e.observer.RegisterObserved(len(ids), time.Since(start))
		e.observer.RecordCount(size)
	}
	e.logger.Info("records registered",
		"kind", root.RecordKind(),
		"id", root.Identifier(),
		"count", len(ids),
		"request_id", RequestIDFromContext(ctx),
	)
	return ids, nil
}

// RegisterAs stores a single value under an explicit identifier. It is the
// only way to register values that carry no identifier of their own.
// Nested records are not walked.
func (e *Engine) RegisterAs(ctx context.Context, kind, id string, value Record) error {
	if id == "" {
		return fmt.Errorf("%w: %s", ErrEmptyID, kind)
	}
	if value == nil {
		return fmt.Errorf("%w: nil %s value", ErrInternal, kind)
	}
	if value.RecordKind() != kind {
		return fmt.Errorf("%w: value of kind %s registered as %s", ErrComponentTypeMismatch, value.RecordKind(), kind)
	}
	if _, ok := e.kinds[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrDispatchNotFound, kind)
	}

	e.mu.Lock()
	r := &registrar{sched: e.sched}
	r.Enqueue(id, value)
	if r.err != nil {
		e.sched.discard()
		e.mu.Unlock()
		return r.err
	}
	e.sched.Run(e.store)
	size := e.store.Len()
	e.mu.Unlock()

	if e.observer != nil {
		e.observer.RecordCount(size)
	}
	e.logger.Debug("record registered", "kind", kind, "id", id, "request_id", RequestIDFromContext(ctx))
	return nil
}

// Update validates raw against kind's patch schema and applies it to the
// record id. On success the new snapshot is published and sinks are notified.
//
// Errors:
//   - *schema.ValidationError (errors.Is with schema.Err*): payload rejected, nothing changed
//   - ErrDispatchNotFound: unknown kind
//   - ErrEntityNotFound: no record with that identifier
//   - ErrComponentTypeMismatch: the record is of another kind
//   - ErrInternal: wiring defect
func (e *Engine) Update(ctx context.Context, kind, id string, raw []byte) (*Update, error) {
	start := e.now()

	change, err := e.dispatch.Dispatch(ctx, kind, id, raw)
	if err != nil {
		outcome := outcomeOf(err)
		e.observeUpdate(kind, outcome, start)
		if outcome == OutcomeInternal {
			e.logger.Error("update failed", "kind", kind, "id", id, "error", err)
		} else {
			e.logger.Debug("update rejected", "kind", kind, "id", id, "outcome", outcome, "error", err)
		}
		return nil, err
	}

	u, err := e.describe(ctx, change, raw)
	if err != nil {
		e.observeUpdate(kind, OutcomeInternal, start)
		e.logger.Error("describing update", "kind", kind, "id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	e.hub.Publish(kind, id, u.Snapshot)
	e.notify(ctx, *u)
	e.observeUpdate(kind, OutcomeApplied, start)

	e.logger.Debug("component updated", "kind", kind, "id", id, "changed", u.Changed())
	return u, nil
}

// submitUpdate runs one typed update intent through a scheduler pass under
// the write lock.
func submitUpdate[T, P any, PT Patchable[T, P]](e *Engine, kind, id string, p P) (Change, error) {
	e.mu.Lock()
	if err := enqueueUpdate[T, P, PT](e.sched, kind, id, p); err != nil {
		e.mu.Unlock()
		return Change{}, err
	}
	out := e.sched.Run(e.store)
	e.mu.Unlock()

	if f, ok := out.failureFor(kind, id); ok {
		return Change{}, f.Err()
	}
	c, ok := out.changeFor(kind, id)
	if !ok {
		return Change{}, fmt.Errorf("%w: update of %s %q produced no outcome", ErrInternal, kind, id)
	}
	return c, nil
}

// describe serializes the before/after snapshots and computes their diff.
func (e *Engine) describe(ctx context.Context, c Change, raw []byte) (*Update, error) {
	after, err := json.Marshal(c.After)
	if err != nil {
		return nil, fmt.Errorf("encoding %s snapshot: %w", c.Kind, err)
	}
	before, err := json.Marshal(c.Before)
	if err != nil {
		return nil, fmt.Errorf("encoding previous %s snapshot: %w", c.Kind, err)
	}
	diff, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, fmt.Errorf("diffing %s snapshots: %w", c.Kind, err)
	}

	return &Update{
		Kind:      c.Kind,
		ID:        c.ID,
		Patch:     json.RawMessage(raw),
		Diff:      diff,
		Snapshot:  after,
		RequestID: RequestIDFromContext(ctx),
		AppliedAt: e.now().UTC(),
	}, nil
}

// notify hands u to every sink concurrently and waits for them.
func (e *Engine) notify(ctx context.Context, u Update) {
	e.sinkMu.RLock()
	sinks := make([]Sink, len(e.sinks))
	copy(sinks, e.sinks)
	e.sinkMu.RUnlock()
	if len(sinks) == 0 {
		return
	}

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range sinks {
		g.Go(func() error {
			if err := s.Apply(sinkCtx, u); err != nil {
				e.logger.Warn("sink failed", "sink", s.Name(), "kind", u.Kind, "id", u.ID, "error", err)
				return fmt.Errorf("sink %s: %w", s.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Debug("update delivered with sink errors", "kind", u.Kind, "id", u.ID, "first_error", err)
	}
}

func (e *Engine) observeUpdate(kind, outcome string, start time.Time) {
	if e.observer == nil {
		return
	}
	e.observer.UpdateObserved(kind, outcome, time.Since(start))
	if outcome == OutcomeApplied {
		e.mu.RLock()
		n := e.store.Len()
		e.mu.RUnlock()
		e.observer.RecordCount(n)
	}
}

// outcomeOf maps an update error to its observer label.
func outcomeOf(err error) string {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		return OutcomeInvalid
	case errors.Is(err, ErrDispatchNotFound):
		return OutcomeUnknownKind
	case errors.Is(err, ErrEntityNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrComponentTypeMismatch):
		return OutcomeTypeMismatch
	default:
		return OutcomeInternal
	}
}

// Find returns a copy of the record stored under id.
func (e *Engine) Find(id string) (Record, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	slot, ok := e.store.Find(id)
	if !ok {
		return nil, false
	}
	return slot.Value(), true
}

// Snapshot returns the kind and JSON encoding of the record stored under id.
func (e *Engine) Snapshot(id string) (kind string, data []byte, err error) {
	rec, ok := e.Find(id)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrEntityNotFound, id)
	}
	data, err = json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encoding %s %q: %w", rec.RecordKind(), id, err)
	}
	return rec.RecordKind(), data, nil
}

// Len returns the number of stored records.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Len()
}

// IDs returns every stored identifier, sorted.
func (e *Engine) IDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.IDs()
}

// CountByKind returns the number of stored records per kind.
func (e *Engine) CountByKind() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.CountByKind()
}

// Subscribe attaches a subscriber to the snapshots of (kind, id).
// The record does not need to exist yet.
func (e *Engine) Subscribe(kind, id string) (*fanout.Subscription, error) {
	if _, ok := e.kinds[kind]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrDispatchNotFound, kind)
	}
	return e.hub.Subscribe(kind, id), nil
}

// KindInfo describes one declared kind.
type KindInfo struct {
	Name          string   `json:"name"`
	Identifiable  bool     `json:"identifiable"`
	AllowedFields []string `json:"allowed_fields"`
}

// Kinds returns every declared kind, sorted by name.
func (e *Engine) Kinds() []KindInfo {
	out := make([]KindInfo, 0, len(e.kinds))
	for _, name := range e.order {
		spec := e.kinds[name]
		out = append(out, KindInfo{
			Name:          name,
			Identifiable:  spec.identifiable,
			AllowedFields: spec.validator.AllowedFields(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Schema returns the JSON-schema document of kind's patch shape.
func (e *Engine) Schema(kind string) (map[string]any, error) {
	spec, ok := e.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDispatchNotFound, kind)
	}
	return spec.validator.JSONSchema(), nil
}

// Validate checks raw against kind's patch schema without applying it.
func (e *Engine) Validate(kind string, raw []byte) error {
	spec, ok := e.kinds[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDispatchNotFound, kind)
	}
	return spec.validator.Check(raw)
}

// isNil reports whether v is nil or a typed nil pointer, map, slice or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
