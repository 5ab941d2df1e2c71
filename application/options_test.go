package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/toolcache/domain/tool"
	"github.com/felixgeelhaar/toolcache/infrastructure/storage/memory"
	"github.com/felixgeelhaar/toolcache/infrastructure/telemetry"
)

// fakeMetrics implements telemetry.Metrics and records invocations.
type fakeMetrics struct {
	loads         int
	invalidations int
	failures      []string
}

func (f *fakeMetrics) RecordLoad(_ context.Context, _ string, _ int, _ time.Duration) {
	f.loads++
}

func (f *fakeMetrics) RecordInvalidation(_ context.Context, _ string, _ int) {
	f.invalidations++
}

func (f *fakeMetrics) RecordValidationFailure(_ context.Context, _ string, reason string) {
	f.failures = append(f.failures, reason)
}

var _ telemetry.Metrics = (*fakeMetrics)(nil)

func TestWithMetrics(t *testing.T) {
	metrics := &fakeMetrics{}
	src := &recordingSource{records: testRecords()}
	m, err := New(src, WithMetrics(metrics))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if metrics.loads != 1 {
		t.Errorf("loads = %d, want 1", metrics.loads)
	}

	m.Invalidate()
	if metrics.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", metrics.invalidations)
	}

	m.ValidateCall("ghost", nil)
	if len(metrics.failures) != 1 || metrics.failures[0] != "Tool not found: ghost" {
		t.Errorf("failures = %v, want [Tool not found: ghost]", metrics.failures)
	}
}

func TestWithMetrics_NilIgnored(t *testing.T) {
	m, err := New(&recordingSource{records: testRecords()}, WithMetrics(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// The noop default stays in place; validation must not panic.
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	m.ValidateCall("ghost", nil)
}

func TestWithCache(t *testing.T) {
	cache := memory.NewToolCache()
	src := &recordingSource{records: []tool.Record{{
		Name:        "search",
		InputSchema: tool.NewSchema(json.RawMessage(`{"required":["query"]}`)),
	}}}

	m, err := New(src, WithCache(cache))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// The manager populates the injected cache.
	if !cache.Has("search") {
		t.Error("injected cache missing loaded tool")
	}
}

func TestWithSessionID_EmptyIgnored(t *testing.T) {
	m, err := New(&recordingSource{}, WithSessionID(""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.SessionID() == "" {
		t.Error("SessionID() is empty, want generated fallback")
	}
}
