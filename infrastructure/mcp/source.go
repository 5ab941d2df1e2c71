package mcp

import (
	"context"

	"github.com/felixgeelhaar/toolcache/domain/tool"
)

// Source adapts a Client to the tool.Source interface consumed by the
// cache manager.
type Source struct {
	client *Client
}

// NewSource creates a tool source backed by the given client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// ListTools fetches the current tool records from the server. A
// disconnected client surfaces ErrNotConnected, which the manager
// propagates as an initialization failure.
func (s *Source) ListTools(ctx context.Context) ([]tool.Record, error) {
	return s.client.ListTools(ctx)
}

var _ tool.Source = (*Source)(nil)

// Invalidator is the subset of the cache manager the notification
// wiring needs.
type Invalidator interface {
	// Invalidate drops all cached tool definitions.
	Invalidate()
}

// BindInvalidation wires the server's tool-list-changed notification to
// the manager: whenever the server announces a change, the cached tool
// set is dropped and the next initialization re-fetches.
func BindInvalidation(client *Client, manager Invalidator) {
	client.OnToolListChanged(manager.Invalidate)
}
