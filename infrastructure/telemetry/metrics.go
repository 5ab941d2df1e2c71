// Package telemetry provides OpenTelemetry metrics support for the
// tool cache.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	loads              metric.Int64Counter
	invalidations      metric.Int64Counter
	validationFailures metric.Int64Counter

	// Histograms
	fetchDuration metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	cachedTools metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/toolcache").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/toolcache",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.loads, err = mp.meter.Int64Counter(
		"toolcache.loads",
		metric.WithDescription("Number of full cache loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return err
	}

	mp.invalidations, err = mp.meter.Int64Counter(
		"toolcache.invalidations",
		metric.WithDescription("Number of cache invalidations"),
		metric.WithUnit("{invalidation}"),
	)
	if err != nil {
		return err
	}

	mp.validationFailures, err = mp.meter.Int64Counter(
		"toolcache.validation.failures",
		metric.WithDescription("Number of failed tool call validations"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return err
	}

	mp.fetchDuration, err = mp.meter.Float64Histogram(
		"toolcache.fetch.duration",
		metric.WithDescription("Duration of tool list fetches"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.cachedTools, err = mp.meter.Int64UpDownCounter(
		"toolcache.tools.cached",
		metric.WithDescription("Number of tools currently cached"),
		metric.WithUnit("{tool}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordLoad records a successful full cache load.
func (mp *MetricsProvider) RecordLoad(ctx context.Context, sessionID string, toolCount int, fetchDuration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("session.id", sessionID),
	}

	mp.loads.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.fetchDuration.Record(ctx, float64(fetchDuration.Milliseconds()), metric.WithAttributes(attrs...))
	mp.cachedTools.Add(ctx, int64(toolCount), metric.WithAttributes(attrs...))
}

// RecordInvalidation records a cache invalidation.
func (mp *MetricsProvider) RecordInvalidation(ctx context.Context, sessionID string, toolsDropped int) {
	attrs := []attribute.KeyValue{
		attribute.String("session.id", sessionID),
	}

	mp.invalidations.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.cachedTools.Add(ctx, -int64(toolsDropped), metric.WithAttributes(attrs...))
}

// RecordValidationFailure records a failed tool call validation.
func (mp *MetricsProvider) RecordValidationFailure(ctx context.Context, toolName string, reason string) {
	attrs := []attribute.KeyValue{
		attribute.String("tool.name", toolName),
		attribute.String("failure.reason", reason),
	}

	mp.validationFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordLoad is a no-op.
func (n *NoopMetricsProvider) RecordLoad(ctx context.Context, sessionID string, toolCount int, fetchDuration time.Duration) {
}

// RecordInvalidation is a no-op.
func (n *NoopMetricsProvider) RecordInvalidation(ctx context.Context, sessionID string, toolsDropped int) {
}

// RecordValidationFailure is a no-op.
func (n *NoopMetricsProvider) RecordValidationFailure(ctx context.Context, toolName string, reason string) {
}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordLoad(ctx context.Context, sessionID string, toolCount int, fetchDuration time.Duration)
	RecordInvalidation(ctx context.Context, sessionID string, toolsDropped int)
	RecordValidationFailure(ctx context.Context, toolName string, reason string)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
