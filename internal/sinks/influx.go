package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gridstore-core/internal/registry"
)

// PointWriter is the writing side of *influxdb.Client.
type PointWriter interface {
	WriteComponentUpdate(kind, id string, fields map[string]any, at time.Time)
}

// InfluxSink writes the scalar fields of each update's diff.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink creates a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Name implements registry.Sink.
func (s *InfluxSink) Name() string { return "influxdb" }

// Apply implements registry.Sink. Updates that changed nothing, or changed
// only strings, arrays or cleared fields, write no point.
func (s *InfluxSink) Apply(_ context.Context, u registry.Update) error {
	if !u.Changed() {
		return nil
	}
	var diff map[string]any
	if err := json.Unmarshal(u.Diff, &diff); err != nil {
		return fmt.Errorf("decoding diff of %s %q: %w", u.Kind, u.ID, err)
	}

	fields := make(map[string]any)
	flattenScalars("", diff, fields)
	s.w.WriteComponentUpdate(u.Kind, u.ID, fields, u.AppliedAt)
	return nil
}

// flattenScalars copies numbers and booleans from a decoded diff into out.
// Nested objects contribute dotted keys: currentLimits1.permanentLimit.
func flattenScalars(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case float64, bool:
			out[key] = v
		case map[string]any:
			flattenScalars(key, v, out)
		}
	}
}
