// Package journal records applied component updates in SQLite.
//
// The journal is an audit trail. The record store is never rebuilt from it.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gridstore-core/internal/registry"
)

// History page sizes.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrEmptyComponentID is returned when an entry or query names no component.
var ErrEmptyComponentID = errors.New("journal: empty component id")

// Entry is one applied update.
type Entry struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	ComponentID string          `json:"component_id"`
	Patch       json.RawMessage `json:"patch"`
	Diff        json.RawMessage `json:"diff"`
	RequestID   string          `json:"request_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Logger defines the logging interface used by the Journal.
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

// Journal reads and writes the update_journal table.
// It implements registry.Sink.
type Journal struct {
	db     *sql.DB
	logger Logger
	now    func() time.Time
}

// New creates a journal on a migrated database.
func New(db *sql.DB) *Journal {
	return &Journal{
		db:     db,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the journal.
func (j *Journal) SetLogger(logger Logger) {
	j.logger = logger
}

// Name implements registry.Sink.
func (j *Journal) Name() string { return "journal" }

// Apply implements registry.Sink by appending the update.
func (j *Journal) Apply(ctx context.Context, u registry.Update) error {
	return j.Append(ctx, &Entry{
		Kind:        u.Kind,
		ComponentID: u.ID,
		Patch:       u.Patch,
		Diff:        u.Diff,
		RequestID:   u.RequestID,
		CreatedAt:   u.AppliedAt,
	})
}

// Append inserts an entry. The ID and CreatedAt are generated if empty.
func (j *Journal) Append(ctx context.Context, e *Entry) error {
	if e.ComponentID == "" {
		return ErrEmptyComponentID
	}
	if e.ID == "" {
		e.ID = "upd-" + uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO update_journal (id, kind, component_id, patch, diff, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.ComponentID,
		rawOrEmpty(e.Patch), rawOrEmpty(e.Diff),
		nullableString(e.RequestID),
		e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// History returns the entries of one component, newest first.
// A limit of 0 or less means DefaultHistoryLimit; larger limits are capped
// at MaxHistoryLimit.
func (j *Journal) History(ctx context.Context, componentID string, limit int) ([]Entry, error) {
	if componentID == "" {
		return nil, ErrEmptyComponentID
	}
	limit = ClampLimit(limit)

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, component_id, patch, diff, request_id, created_at
		 FROM update_journal
		 WHERE component_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		componentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var patch, diff, createdAt string
		var requestID sql.NullString

		if err := rows.Scan(&e.ID, &e.Kind, &e.ComponentID, &patch, &diff, &requestID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Patch = json.RawMessage(patch)
		e.Diff = json.RawMessage(diff)
		if requestID.Valid {
			e.RequestID = requestID.String
		}
		e.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing journal timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return entries, nil
}

// Prune deletes entries created before cutoff and reports how many went.
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		"DELETE FROM update_journal WHERE created_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	return n, nil
}

// RunRetention prunes entries older than keep every interval until ctx is
// cancelled. A non-positive keep or interval returns immediately.
func (j *Journal) RunRetention(ctx context.Context, keep, interval time.Duration) {
	if keep <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := j.Prune(ctx, j.now().Add(-keep))
			if err != nil {
				if ctx.Err() == nil {
					j.logger.Error("journal retention failed", "error", err)
				}
				continue
			}
			if n > 0 {
				j.logger.Info("journal pruned", "entries", n)
			}
		}
	}
}

// ClampLimit applies the history page size rules.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// nullableString returns nil for empty strings.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rawOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
