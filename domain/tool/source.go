package tool

import "context"

// Source provides the current tool set from an external collaborator,
// typically a protocol client issuing a tools/list call. Implementations
// live in infrastructure.
type Source interface {
	// ListTools returns the current raw tool records.
	ListTools(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Record, error)

// ListTools calls the underlying function.
func (f SourceFunc) ListTools(ctx context.Context) ([]Record, error) {
	return f(ctx)
}
