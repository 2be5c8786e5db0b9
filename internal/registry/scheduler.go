package registry

import (
	"fmt"
)

// Op identifies what an intent did to the store.
type Op string

// Intent operations.
const (
	OpRegister Op = "register"
	OpUpdate   Op = "update"
)

// Change is one intent that the scheduler applied.
// Before is nil when a register intent created a new slot.
type Change struct {
	Op     Op
	Kind   string
	ID     string
	Before Record
	After  Record
}

// FailureKind classifies why an intent could not be applied.
type FailureKind int

// Failure kinds raised by the scheduler.
const (
	FailureEntityNotFound FailureKind = iota + 1
	FailureComponentTypeMismatch
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureEntityNotFound:
		return "EntityNotFound"
	case FailureComponentTypeMismatch:
		return "ComponentTypeMismatch"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is raised by a scheduler pass for an intent that missed.
// It is handed to the invoking call once and not retained.
type Failure struct {
	ID     string
	Reason FailureKind
	Kind   string

	// Found is the kind actually stored, for FailureComponentTypeMismatch.
	Found string
}

// Err converts the failure to an error wrapping the matching sentinel.
func (f Failure) Err() error {
	switch f.Reason {
	case FailureEntityNotFound:
		return fmt.Errorf("%w: %s %q", ErrEntityNotFound, f.Kind, f.ID)
	case FailureComponentTypeMismatch:
		return fmt.Errorf("%w: %q is a %s, not a %s", ErrComponentTypeMismatch, f.ID, f.Found, f.Kind)
	default:
		return fmt.Errorf("%w: unknown failure %s for %q", ErrInternal, f.Reason, f.ID)
	}
}

// Outcome collects what one scheduler pass did.
type Outcome struct {
	Changes  []Change
	Failures []Failure
}

// failureFor returns the failure raised for (kind, id), if any.
func (o Outcome) failureFor(kind, id string) (Failure, bool) {
	for _, f := range o.Failures {
		if f.Kind == kind && f.ID == id {
			return f, true
		}
	}
	return Failure{}, false
}

// changeFor returns the last change applied to (kind, id), if any.
func (o Outcome) changeFor(kind, id string) (Change, bool) {
	for i := len(o.Changes) - 1; i >= 0; i-- {
		c := o.Changes[i]
		if c.Kind == kind && c.ID == id {
			return c, true
		}
	}
	return Change{}, false
}

type registerIntent[T any] struct {
	id    string
	value T
}

type updateIntent[P any] struct {
	id    string
	patch P
}

// queue is the type-erased view of one kind's intent queue.
type queue interface {
	kind() string
	pushRecord(id string, value Record) bool
	pending() int
	drain(store *Store, out *Outcome)
	discard()
}

// kindQueue holds the pending register and update intents of one kind.
type kindQueue[T, P any, PT Patchable[T, P]] struct {
	name      string
	registers []registerIntent[T]
	updates   []updateIntent[P]
}

func newKindQueue[T, P any, PT Patchable[T, P]](name string) *kindQueue[T, P, PT] {
	return &kindQueue[T, P, PT]{name: name}
}

func (q *kindQueue[T, P, PT]) kind() string { return q.name }

// pushRecord accepts either a T or a non-nil *T.
func (q *kindQueue[T, P, PT]) pushRecord(id string, value Record) bool {
	if v, ok := value.(T); ok {
		q.registers = append(q.registers, registerIntent[T]{id: id, value: v})
		return true
	}
	if p, ok := value.(PT); ok && p != nil {
		q.registers = append(q.registers, registerIntent[T]{id: id, value: *p})
		return true
	}
	return false
}

func (q *kindQueue[T, P, PT]) pushUpdate(id string, p P) {
	q.updates = append(q.updates, updateIntent[P]{id: id, patch: p})
}

func (q *kindQueue[T, P, PT]) pending() int {
	return len(q.registers) + len(q.updates)
}

// drain applies registers before updates so a call that does both sees its
// own registrations.
func (q *kindQueue[T, P, PT]) drain(store *Store, out *Outcome) {
	for _, in := range q.registers {
		var before Record
		if slot, ok := store.Find(in.id); ok {
			before = slot.Value()
		}
		after := asRecord(in.value)
		store.Upsert(in.id, after)
		out.Changes = append(out.Changes, Change{Op: OpRegister, Kind: q.name, ID: in.id, Before: before, After: after})
	}

	for _, in := range q.updates {
		slot, ok := store.Find(in.id)
		if !ok {
			out.Failures = append(out.Failures, Failure{ID: in.id, Reason: FailureEntityNotFound, Kind: q.name})
			continue
		}
		current, ok := slot.Value().(T)
		if !ok {
			out.Failures = append(out.Failures, Failure{
				ID:     in.id,
				Reason: FailureComponentTypeMismatch,
				Kind:   q.name,
				Found:  slot.Value().RecordKind(),
			})
			continue
		}
		next := current
		PT(&next).ApplyPatch(in.patch)
		after := asRecord(next)
		store.Upsert(in.id, after)
		out.Changes = append(out.Changes, Change{Op: OpUpdate, Kind: q.name, ID: in.id, Before: asRecord(current), After: after})
	}

	q.discard()
}

func (q *kindQueue[T, P, PT]) discard() {
	q.registers = nil
	q.updates = nil
}

// asRecord converts a declared value to a Record. Declare has already
// checked that T implements Record.
func asRecord[T any](v T) Record {
	return any(v).(Record) //nolint:forcetypeassert // checked in Declare
}

// Scheduler owns one queue per declared kind and drains them all in one pass.
//
// Scheduler is not safe for concurrent use; the Engine guards it with the
// same lock as the Store.
type Scheduler struct {
	queues map[string]queue
	order  []string
}

func newScheduler() *Scheduler {
	return &Scheduler{queues: make(map[string]queue)}
}

func (s *Scheduler) add(q queue) {
	s.queues[q.kind()] = q
	s.order = append(s.order, q.kind())
}

// queueFor returns the queue of a kind. A missing queue is a wiring defect.
func (s *Scheduler) queueFor(kind string) (queue, error) {
	q, ok := s.queues[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no queue for kind %s", ErrInternal, kind)
	}
	return q, nil
}

// enqueueUpdate adds an update intent to the typed queue of kind.
func enqueueUpdate[T, P any, PT Patchable[T, P]](s *Scheduler, kind, id string, p P) error {
	q, err := s.queueFor(kind)
	if err != nil {
		return err
	}
	typed, ok := q.(*kindQueue[T, P, PT])
	if !ok {
		return fmt.Errorf("%w: queue for kind %s has type %T", ErrInternal, kind, q)
	}
	typed.pushUpdate(id, p)
	return nil
}

// Pending returns the number of intents waiting across all queues.
func (s *Scheduler) Pending() int {
	n := 0
	for _, q := range s.queues {
		n += q.pending()
	}
	return n
}

// Run drains every queue to completion, in declaration order.
func (s *Scheduler) Run(store *Store) Outcome {
	var out Outcome
	for _, kind := range s.order {
		s.queues[kind].drain(store, &out)
	}
	return out
}

// discard drops every pending intent without applying it.
func (s *Scheduler) discard() {
	for _, q := range s.queues {
		q.discard()
	}
}

// registrar routes register intents from a RegisterInto walk to the kind queues.
// The first wiring error stops further intents from being queued.
type registrar struct {
	sched *Scheduler
	count int
	err   error
}

func (r *registrar) Enqueue(id string, value Record) {
	if r.err != nil {
		return
	}
	if value == nil {
		r.err = fmt.Errorf("%w: nil record for %q", ErrInternal, id)
		return
	}
	if id == "" {
		r.err = fmt.Errorf("%w: %s", ErrEmptyID, value.RecordKind())
		return
	}
	q, err := r.sched.queueFor(value.RecordKind())
	if err != nil {
		r.err = err
		return
	}
	if !q.pushRecord(id, value) {
		r.err = fmt.Errorf("%w: queue for kind %s rejected %T", ErrInternal, value.RecordKind(), value)
		return
	}
	r.count++
}
