package application

import (
	"github.com/google/uuid"

	"github.com/felixgeelhaar/toolcache/infrastructure/storage/memory"
	"github.com/felixgeelhaar/toolcache/infrastructure/telemetry"
)

// ManagerConfig contains configuration for the manager.
type ManagerConfig struct {
	Metrics   telemetry.Metrics
	SessionID string
	Cache     *memory.ToolCache
}

// Option configures the manager.
type Option func(*ManagerConfig)

// defaultConfig returns the baseline manager configuration.
func defaultConfig() ManagerConfig {
	return ManagerConfig{
		Metrics:   &telemetry.NoopMetricsProvider{},
		SessionID: uuid.NewString(),
		Cache:     memory.NewToolCache(),
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *ManagerConfig) {
		if m != nil {
			c.Metrics = m
		}
	}
}

// WithSessionID sets the session ID instead of generating one.
func WithSessionID(id string) Option {
	return func(c *ManagerConfig) {
		if id != "" {
			c.SessionID = id
		}
	}
}

// WithCache sets the backing tool cache.
func WithCache(cache *memory.ToolCache) Option {
	return func(c *ManagerConfig) {
		if cache != nil {
			c.Cache = cache
		}
	}
}
