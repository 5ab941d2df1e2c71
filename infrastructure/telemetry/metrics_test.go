package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMetrics sets up a test meter provider and returns it along
// with a reader.
func setupTestMetrics(t *testing.T) (*metric.ManualReader, *MetricsProvider) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	mp := NewMetricsProvider(DefaultMetricsConfig())
	if mp.Error() != nil {
		t.Fatalf("failed to create metrics provider: %v", mp.Error())
	}

	return reader, mp
}

// sumByName collects metrics and returns the total of the named
// Int64 sum instrument, along with whether it was found.
func sumByName(t *testing.T, reader *metric.ManualReader, name string) (int64, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s: expected Sum[int64], got %T", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestNewMetricsProvider(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	if mp == nil {
		t.Fatal("NewMetricsProvider returned nil")
	}
	if mp.Error() != nil {
		t.Errorf("unexpected error: %v", mp.Error())
	}
}

func TestMetricsProvider_RecordLoad(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordLoad(ctx, "sess-1", 5, 20*time.Millisecond)
	mp.RecordLoad(ctx, "sess-1", 3, 10*time.Millisecond)

	if total, found := sumByName(t, reader, "toolcache.loads"); !found {
		t.Error("toolcache.loads metric not found")
	} else if total != 2 {
		t.Errorf("toolcache.loads = %d, want 2", total)
	}
}

func TestMetricsProvider_RecordInvalidation(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordLoad(ctx, "sess-1", 5, time.Millisecond)
	mp.RecordInvalidation(ctx, "sess-1", 5)

	if total, found := sumByName(t, reader, "toolcache.invalidations"); !found {
		t.Error("toolcache.invalidations metric not found")
	} else if total != 1 {
		t.Errorf("toolcache.invalidations = %d, want 1", total)
	}

	if total, found := sumByName(t, reader, "toolcache.tools.cached"); !found {
		t.Error("toolcache.tools.cached metric not found")
	} else if total != 0 {
		t.Errorf("toolcache.tools.cached = %d, want 0 after invalidation", total)
	}
}

func TestMetricsProvider_RecordValidationFailure(t *testing.T) {
	reader, mp := setupTestMetrics(t)
	defer reader.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordValidationFailure(ctx, "search", "Missing required parameter: query")
	mp.RecordValidationFailure(ctx, "ghost", "Tool not found: ghost")

	if total, found := sumByName(t, reader, "toolcache.validation.failures"); !found {
		t.Error("toolcache.validation.failures metric not found")
	} else if total != 2 {
		t.Errorf("toolcache.validation.failures = %d, want 2", total)
	}
}

func TestNoopMetricsProvider(t *testing.T) {
	var m Metrics = &NoopMetricsProvider{}

	// Must not panic.
	ctx := context.Background()
	m.RecordLoad(ctx, "sess-1", 5, time.Millisecond)
	m.RecordInvalidation(ctx, "sess-1", 5)
	m.RecordValidationFailure(ctx, "search", "Tool not found: search")
}
