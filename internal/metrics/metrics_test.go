package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nerrad567/gridstore-core/internal/fanout"
	"github.com/nerrad567/gridstore-core/internal/registry"
)

var (
	_ registry.Observer = (*Metrics)(nil)
	_ fanout.Observer   = (*Metrics)(nil)
)

func TestMetrics_RegistryObserver(t *testing.T) {
	m := New()

	m.UpdateObserved("Line", registry.OutcomeApplied, time.Millisecond)
	m.UpdateObserved("Line", registry.OutcomeApplied, time.Millisecond)
	m.UpdateObserved("Line", registry.OutcomeNotFound, time.Millisecond)
	m.RegisterObserved(27, 10*time.Millisecond)
	m.RecordCount(27)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"applied", testutil.ToFloat64(m.updates.WithLabelValues("Line", registry.OutcomeApplied)), 2},
		{"not found", testutil.ToFloat64(m.updates.WithLabelValues("Line", registry.OutcomeNotFound)), 1},
		{"registered", testutil.ToFloat64(m.registered), 27},
		{"records", testutil.ToFloat64(m.records), 27},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetrics_FanoutObserver(t *testing.T) {
	m := New()

	m.SnapshotPublished("Line", 3)
	m.SnapshotPublished("Line", 0)
	m.SnapshotDropped("Line")
	m.SubscribersChanged(2)
	m.SubscribersChanged(-1)

	if got := testutil.ToFloat64(m.delivered.WithLabelValues("Line")); got != 3 {
		t.Errorf("delivered = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.dropped.WithLabelValues("Line")); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.subscribers); got != 1 {
		t.Errorf("subscribers = %v, want 1", got)
	}
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := New()

	m.ObserveHTTP("/api/iidm/update/{kind}", http.MethodPost, http.StatusOK, time.Millisecond)
	m.ObserveHTTP("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/iidm/update/{kind}", "POST", "200")); got != 1 {
		t.Errorf("update requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordCount(5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"gridstore_registry_records 5", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestNew_Independent(t *testing.T) {
	a, b := New(), New()
	a.RecordCount(1)

	if got := testutil.ToFloat64(b.records); got != 0 {
		t.Errorf("second instance records = %v, want 0", got)
	}
}
