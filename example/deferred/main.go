// Package main demonstrates deferred tool loading: the manager serves
// the lightweight metadata view to a model context and validates calls
// against the full schema only when one is attempted.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/felixgeelhaar/toolcache/application"
	"github.com/felixgeelhaar/toolcache/domain/tool"
)

func main() {
	// In production the source is an MCP client (infrastructure/mcp).
	// Here a static source stands in for the protocol server.
	source := tool.SourceFunc(func(ctx context.Context) ([]tool.Record, error) {
		return []tool.Record{
			{
				Name:        "search",
				Description: "Search the web",
				InputSchema: tool.NewSchema(json.RawMessage(`{
					"type": "object",
					"properties": {"query": {"type": "string"}},
					"required": ["query"]
				}`)),
			},
			{
				Name:        "calc",
				Description: "Evaluate arithmetic expressions",
				InputSchema: tool.NewSchema(json.RawMessage(`{}`)),
			},
		}, nil
	})

	manager, err := application.New(source)
	if err != nil {
		log.Fatal(err)
	}

	if err := manager.Initialize(context.Background()); err != nil {
		log.Fatal(err)
	}

	// The metadata view is what goes into the model prompt: two fields
	// per tool, no schemas.
	listing, _ := json.Marshal(manager.MetadataForModel())
	fmt.Printf("tool listing for the model: %s\n", listing)

	// At call time the proposed arguments are checked against the
	// cached schema's required parameters.
	calls := []struct {
		name string
		args map[string]any
	}{
		{"search", map[string]any{"query": "flutter"}},
		{"search", map[string]any{}},
		{"calc", map[string]any{}},
		{"ghost", map[string]any{}},
	}

	for _, call := range calls {
		res := manager.ValidateCall(call.name, call.args)
		if res.Valid() {
			fmt.Printf("%s: ok\n", call.name)
		} else {
			fmt.Printf("%s: rejected (%s)\n", call.name, res.Reason())
		}
	}

	// When the upstream tool set changes, drop the cache. The next
	// Initialize re-fetches.
	manager.Invalidate()
	fmt.Printf("after invalidate: %d tools cached\n", manager.Count())
}
