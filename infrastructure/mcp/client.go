// Package mcp provides the Model Context Protocol collaborator for the
// tool cache: a stdio JSON-RPC client that enumerates tools and
// surfaces server-side "tool list changed" notifications.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/toolcache/domain/tool"
	"github.com/felixgeelhaar/toolcache/infrastructure/logging"
)

var (
	// ErrNotConnected indicates the client is not connected.
	ErrNotConnected = errors.New("client not connected")

	// ErrAlreadyConnected indicates the client is already connected.
	ErrAlreadyConnected = errors.New("client already connected")

	// ErrConnectionFailed indicates the connection to the server failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// methodToolListChanged is the server notification that the tool set
// changed and cached definitions are stale.
const methodToolListChanged = "notifications/tools/list_changed"

// Scanner limits for incoming messages. A tools/list response carries
// every schema on a single line, so the default 64 KiB token limit is
// far too small.
const (
	initialScanBuffer = 64 * 1024
	maxMessageSize    = 16 * 1024 * 1024
)

// ClientConfig configures an MCP client.
type ClientConfig struct {
	// Name is the client name reported during the handshake.
	Name string

	// Version is the client version reported during the handshake.
	Version string

	// Command is the server command to run.
	Command []string
}

// ClientOption configures a client.
type ClientOption func(*ClientConfig)

// WithClientName sets the client name.
func WithClientName(name string) ClientOption {
	return func(c *ClientConfig) {
		c.Name = name
	}
}

// WithClientVersion sets the client version.
func WithClientVersion(version string) ClientOption {
	return func(c *ClientConfig) {
		c.Version = version
	}
}

// WithServerCommand sets the server command.
func WithServerCommand(cmd ...string) ClientOption {
	return func(c *ClientConfig) {
		c.Command = cmd
	}
}

// Client consumes tool listings from an MCP server over stdio.
type Client struct {
	config     ClientConfig
	serverInfo *ServerInfo
	connected  bool
	mu         sync.RWMutex

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	scanner *bufio.Scanner
	encoder *json.Encoder

	// Request tracking
	reqID     atomic.Int64
	responses map[int64]chan *rpcMessage
	respMu    sync.Mutex

	// Server-initiated notification handlers
	listChangedHandlers []func()
	handlerMu           sync.Mutex
}

// ServerInfo contains identity information exchanged during the
// initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// JSON-RPC message types for MCP communication. A message with a
// method and no ID is a server-initiated notification.
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    any        `json:"capabilities"`
	ClientInfo      ServerInfo `json:"clientInfo"`
}

type initResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
}

type listToolsResult struct {
	Tools []tool.Record `json:"tools"`
}

// NewClient creates a new MCP client.
func NewClient(opts ...ClientOption) *Client {
	cfg := ClientConfig{
		Name:    "toolcache-client",
		Version: "1.0.0",
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		config:    cfg,
		responses: make(map[int64]chan *rpcMessage),
	}
}

// Connect starts the server subprocess and performs the initialize
// handshake.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return ErrAlreadyConnected
	}

	if len(c.config.Command) == 0 {
		return fmt.Errorf("%w: no command specified", ErrConnectionFailed)
	}

	c.cmd = exec.CommandContext(ctx, c.config.Command[0], c.config.Command[1:]...)

	var err error
	c.stdin, err = c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: stdin pipe: %v", ErrConnectionFailed, err)
	}

	c.stdout, err = c.cmd.StdoutPipe()
	if err != nil {
		_ = c.stdin.Close()
		return fmt.Errorf("%w: stdout pipe: %v", ErrConnectionFailed, err)
	}

	if err := c.cmd.Start(); err != nil {
		_ = c.stdin.Close()
		_ = c.stdout.Close()
		return fmt.Errorf("%w: start command: %v", ErrConnectionFailed, err)
	}

	c.scanner = newMessageScanner(c.stdout)
	c.encoder = json.NewEncoder(c.stdin)

	go c.readMessages()

	if err := c.initialize(ctx); err != nil {
		c.teardown()
		return err
	}

	c.connected = true
	return nil
}

// newMessageScanner returns a line scanner sized for large single-line
// JSON-RPC messages.
func newMessageScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, initialScanBuffer), maxMessageSize)
	return s
}

func (c *Client) readMessages() {
	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg rpcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}

		c.handleMessage(&msg)
	}
}

// handleMessage routes an incoming message: notifications are
// dispatched to handlers, responses to the waiting request.
func (c *Client) handleMessage(msg *rpcMessage) {
	if msg.ID == nil && msg.Method != "" {
		c.handleNotification(msg.Method)
		return
	}

	var reqID int64
	switch id := msg.ID.(type) {
	case float64:
		reqID = int64(id)
	case int64:
		reqID = id
	case int:
		reqID = int64(id)
	default:
		return
	}

	c.respMu.Lock()
	if ch, exists := c.responses[reqID]; exists {
		ch <- msg
		delete(c.responses, reqID)
	}
	c.respMu.Unlock()
}

func (c *Client) handleNotification(method string) {
	if method != methodToolListChanged {
		return
	}

	logging.Debug().
		Add(logging.Component("mcp")).
		Add(logging.Operation("notification")).
		Add(logging.Str("method", method)).
		Msg("tool list changed")

	c.handlerMu.Lock()
	handlers := make([]func(), len(c.listChangedHandlers))
	copy(handlers, c.listChangedHandlers)
	c.handlerMu.Unlock()

	// Handlers may call back into a manager that is blocked on a
	// pending request served by this same goroutine. Dispatch off the
	// reader so a notification can never stall response delivery.
	go func() {
		for _, h := range handlers {
			h()
		}
	}()
}

// OnToolListChanged registers a handler invoked whenever the server
// announces that its tool set changed.
func (c *Client) OnToolListChanged(handler func()) {
	if handler == nil {
		return
	}
	c.handlerMu.Lock()
	c.listChangedHandlers = append(c.listChangedHandlers, handler)
	c.handlerMu.Unlock()
}

func (c *Client) initialize(ctx context.Context) error {
	params := initParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo: ServerInfo{
			Name:    c.config.Name,
			Version: c.config.Version,
		},
	}

	resp, err := c.sendRequest(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if resp.Error != nil {
		return fmt.Errorf("initialize error: %s", resp.Error.Message)
	}

	var result initResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return fmt.Errorf("parse initialize result: %w", err)
	}

	c.serverInfo = &result.ServerInfo

	notification := rpcMessage{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	return c.encoder.Encode(notification)
}

func (c *Client) sendRequest(ctx context.Context, method string, params any) (*rpcMessage, error) {
	id := c.reqID.Add(1)

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	req := rpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsBytes,
	}

	respCh := make(chan *rpcMessage, 1)
	c.respMu.Lock()
	c.responses[id] = respCh
	c.respMu.Unlock()

	if err := c.encoder.Encode(req); err != nil {
		c.respMu.Lock()
		delete(c.responses, id)
		c.respMu.Unlock()
		return nil, fmt.Errorf("send request: %w", err)
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		c.respMu.Lock()
		delete(c.responses, id)
		c.respMu.Unlock()
		return nil, ctx.Err()
	}
}

// Close shuts down the connection and the server subprocess.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	c.connected = false
	c.teardown()
	return nil
}

// teardown releases process resources (must hold lock).
func (c *Client) teardown() {
	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	if c.stdout != nil {
		_ = c.stdout.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}
}

// ListTools returns the current tool records from the server.
func (c *Client) ListTools(ctx context.Context) ([]tool.Record, error) {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()

	if !connected {
		return nil, ErrNotConnected
	}

	resp, err := c.sendRequest(ctx, "tools/list", struct{}{})
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("list tools error: %s", resp.Error.Message)
	}

	var result listToolsResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parse list tools result: %w", err)
	}

	return result.Tools, nil
}

// ServerInfo returns information about the connected server.
func (c *Client) ServerInfo() *ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}
