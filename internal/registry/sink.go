package registry

import (
	"context"
	"encoding/json"
	"time"
)

// Update describes one applied update. It is built after the write lock is
// released and handed to the fan-out hub and to every sink.
type Update struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`

	// Patch is the payload as submitted.
	Patch json.RawMessage `json:"patch"`

	// Diff is the RFC 7386 merge patch that turns the previous snapshot into
	// the new one. It is {} when the update changed nothing.
	Diff json.RawMessage `json:"diff"`

	// Snapshot is the record after the update.
	Snapshot json.RawMessage `json:"snapshot"`

	RequestID string    `json:"request_id,omitempty"`
	AppliedAt time.Time `json:"applied_at"`
}

// Changed reports whether the update altered the record.
func (u Update) Changed() bool {
	return len(u.Diff) > 0 && string(u.Diff) != "{}"
}

// Sink receives applied updates. Sinks run concurrently with each other;
// a sink error is logged and never fails the update that triggered it.
type Sink interface {
	Name() string
	Apply(ctx context.Context, u Update) error
}

// Observer receives engine measurements. It is satisfied by the metrics package.
type Observer interface {
	UpdateObserved(kind, outcome string, elapsed time.Duration)
	RegisterObserved(records int, elapsed time.Duration)
	RecordCount(n int)
}

// Update outcome labels passed to Observer.UpdateObserved.
const (
	OutcomeApplied      = "applied"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeTypeMismatch = "type_mismatch"
	OutcomeUnknownKind  = "unknown_kind"
	OutcomeInternal     = "internal"
)

type requestIDKey struct{}

// ContextWithRequestID returns a context carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
