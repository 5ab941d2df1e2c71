// Package memory provides the in-memory implementation of the two-view
// tool cache.
package memory

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/toolcache/domain/tool"
)

// ToolCache holds the last-known-good snapshot of tool definitions in
// two projections: lightweight metadata for model contexts and the full
// record for validation and execution. Both views are always rebuilt
// together from the same load.
type ToolCache struct {
	metadata    map[string]tool.Metadata
	records     map[string]tool.Record
	order       []string
	initialized bool
	mu          sync.RWMutex
}

// NewToolCache creates an empty, uninitialized tool cache.
func NewToolCache() *ToolCache {
	return &ToolCache{
		metadata: make(map[string]tool.Metadata),
		records:  make(map[string]tool.Record),
	}
}

// Load replaces all cached state with the given records. The new
// snapshot is built off to the side and swapped in under the write
// lock, so readers never observe a half-replaced cache. A record with
// an empty name rejects the whole load and leaves the previous
// snapshot untouched.
func (c *ToolCache) Load(records []tool.Record) error {
	metadata := make(map[string]tool.Metadata, len(records))
	full := make(map[string]tool.Record, len(records))
	order := make([]string, 0, len(records))

	for i, rec := range records {
		if rec.Name == "" {
			return fmt.Errorf("record %d: %w", i, tool.ErrMissingName)
		}
		if _, seen := full[rec.Name]; !seen {
			order = append(order, rec.Name)
		}
		metadata[rec.Name] = rec.Metadata()
		full[rec.Name] = rec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.metadata = metadata
	c.records = full
	c.order = order
	c.initialized = true
	return nil
}

// AllMetadata returns the cached metadata in load order.
func (c *ToolCache) AllMetadata() []tool.Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]tool.Metadata, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.metadata[name])
	}
	return out
}

// Metadata retrieves the lightweight view of a tool by name.
func (c *ToolCache) Metadata(name string) (tool.Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.metadata[name]
	return m, ok
}

// Schema retrieves the full record of a tool by name.
func (c *ToolCache) Schema(name string) (tool.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.records[name]
	return r, ok
}

// Has checks if a tool is cached.
func (c *ToolCache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.records[name]
	return ok
}

// Names returns all cached tool names in load order.
func (c *ToolCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Count returns the number of cached tools.
func (c *ToolCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Initialized reports whether at least one load succeeded since the
// last invalidation.
func (c *ToolCache) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// InvalidateAll clears all cached state. Idempotent.
func (c *ToolCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metadata = make(map[string]tool.Metadata)
	c.records = make(map[string]tool.Record)
	c.order = nil
	c.initialized = false
}
