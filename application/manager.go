// Package application provides the orchestration layer for the tool
// cache: a lifecycle-guarded manager that loads tool definitions from
// an external source, serves the token-minimal metadata view to a model
// context, and validates proposed tool calls against cached schemas.
package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/felixgeelhaar/toolcache/domain/tool"
	"github.com/felixgeelhaar/toolcache/infrastructure/logging"
	"github.com/felixgeelhaar/toolcache/infrastructure/storage/memory"
	"github.com/felixgeelhaar/toolcache/infrastructure/telemetry"
)

// Manager wraps the two-view tool cache with lifecycle semantics:
// idempotent initialization from a tool source, explicit reset and
// invalidation, and schema-level call validation. One manager is
// constructed per client session and passed explicitly to its
// consumers.
type Manager struct {
	source    tool.Source
	cache     *memory.ToolCache
	metrics   telemetry.Metrics
	sessionID string

	initialized bool
	mu          sync.Mutex
}

// New creates a manager for the given tool source.
func New(source tool.Source, opts ...Option) (*Manager, error) {
	if source == nil {
		return nil, tool.ErrNoSource
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Manager{
		source:    source,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
		sessionID: cfg.SessionID,
	}, nil
}

// SessionID returns the session this manager belongs to.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Initialize fetches the current tool set from the source and loads it
// into the cache. It is idempotent: once initialized, further calls do
// not re-fetch. A fetch or load failure propagates to the caller and
// leaves the manager uninitialized with the cache untouched.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	start := time.Now()
	records, err := m.source.ListTools(ctx)
	if err != nil {
		logging.Error().
			Add(logging.Component("manager")).
			Add(logging.Operation("initialize")).
			Add(logging.SessionID(m.sessionID)).
			Add(logging.ErrorField(err)).
			Msg("tool list fetch failed")
		return err
	}

	if err := m.cache.Load(records); err != nil {
		logging.Error().
			Add(logging.Component("manager")).
			Add(logging.Operation("initialize")).
			Add(logging.SessionID(m.sessionID)).
			Add(logging.ErrorField(err)).
			Msg("tool cache load rejected")
		return err
	}

	m.initialized = true
	fetchDuration := time.Since(start)
	m.metrics.RecordLoad(ctx, m.sessionID, m.cache.Count(), fetchDuration)

	logging.Info().
		Add(logging.Component("manager")).
		Add(logging.Operation("initialize")).
		Add(logging.SessionID(m.sessionID)).
		Add(logging.ToolCount(m.cache.Count())).
		Add(logging.Duration(fetchDuration)).
		Msg("tool cache initialized")
	return nil
}

// Reset unconditionally clears the cache and the initialized flag.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Invalidate clears all state in response to an upstream "tool set
// changed" signal. The next Initialize re-fetches.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := m.cache.Count()
	m.reset()
	m.metrics.RecordInvalidation(context.Background(), m.sessionID, dropped)

	logging.Info().
		Add(logging.Component("manager")).
		Add(logging.Operation("invalidate")).
		Add(logging.SessionID(m.sessionID)).
		Add(logging.ToolCount(dropped)).
		Add(logging.Reason("tool set changed")).
		Msg("tool cache invalidated")
}

// reset clears cache and flag (must hold lock).
func (m *Manager) reset() {
	m.cache.InvalidateAll()
	m.initialized = false
}

// MetadataForModel returns the lightweight tool listing to send to a
// model context. It returns an empty slice when uninitialized, never an
// error.
func (m *Manager) MetadataForModel() []tool.Metadata {
	if !m.Initialized() {
		return []tool.Metadata{}
	}
	return m.cache.AllMetadata()
}

// AllMetadata returns the cached metadata in load order.
func (m *Manager) AllMetadata() []tool.Metadata {
	return m.cache.AllMetadata()
}

// Metadata retrieves the lightweight view of a tool by name.
func (m *Manager) Metadata(name string) (tool.Metadata, bool) {
	return m.cache.Metadata(name)
}

// FullSchema retrieves the full record of a tool by name.
func (m *Manager) FullSchema(name string) (tool.Record, bool) {
	return m.cache.Schema(name)
}

// Has checks if a tool is cached.
func (m *Manager) Has(name string) bool {
	return m.cache.Has(name)
}

// Names returns all cached tool names in load order.
func (m *Manager) Names() []string {
	return m.cache.Names()
}

// Count returns the number of cached tools.
func (m *Manager) Count() int {
	return m.cache.Count()
}

// Initialized reports whether the manager has been initialized and not
// since reset or invalidated.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// ValidateCall checks a proposed tool invocation against the cached
// schema's required-parameter list. Presence only: argument values are
// not type-checked. Unknown tools, including any lookup before
// initialization, fail with the canonical "Tool not found" reason.
func (m *Manager) ValidateCall(name string, args map[string]any) tool.ValidationResult {
	rec, ok := m.cache.Schema(name)
	if !ok {
		return m.failValidation(name, tool.ToolNotFound(name))
	}

	if rec.InputSchema.IsEmpty() {
		return tool.ValidResult()
	}

	for _, param := range rec.InputSchema.RequiredParams() {
		if _, present := args[param]; !present {
			return m.failValidation(name, tool.MissingParameter(param))
		}
	}

	return tool.ValidResult()
}

// ValidateCallJSON validates a call whose arguments are still in wire
// form. Nil or empty arguments are treated as an empty object.
func (m *Manager) ValidateCallJSON(name string, args []byte) tool.ValidationResult {
	decoded, err := decodeArguments(args)
	if err != nil {
		return m.failValidation(name, tool.InvalidResult("Malformed arguments: "+err.Error()))
	}
	return m.ValidateCall(name, decoded)
}

// decodeArguments unmarshals wire-form call arguments into a map.
// Nil, empty, and JSON null input all decode to an empty map.
func decodeArguments(args []byte) (map[string]any, error) {
	if len(args) == 0 {
		return map[string]any{}, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(args, &decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}

// failValidation records the failure and returns it.
func (m *Manager) failValidation(name string, res tool.ValidationResult) tool.ValidationResult {
	m.metrics.RecordValidationFailure(context.Background(), name, res.Reason())

	logging.Debug().
		Add(logging.Component("manager")).
		Add(logging.Operation("validate")).
		Add(logging.ToolName(name)).
		Add(logging.Reason(res.Reason())).
		Msg("tool call rejected")
	return res
}
