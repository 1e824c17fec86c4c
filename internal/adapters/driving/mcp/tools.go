package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// KeyInput addresses one record.
type KeyInput struct {
	Table string `json:"table" jsonschema:"the storage table name"`
	Key   string `json:"key" jsonschema:"the record key"`
}

// SetInput is the input schema for the storage_set tool.
type SetInput struct {
	Table string `json:"table" jsonschema:"the storage table name"`
	Key   string `json:"key" jsonschema:"the record key"`
	Value any    `json:"value" jsonschema:"any JSON value to store"`
}

// TableInput names a table.
type TableInput struct {
	Table string `json:"table" jsonschema:"the storage table name"`
}

// GetOutput is the output schema for the storage_get tool.
type GetOutput struct {
	Table string `json:"table"`
	Key   string `json:"key"`
	Found bool   `json:"found"`
	Value any    `json:"value"`
}

// ResultOutput reports a boolean outcome for one record.
type ResultOutput struct {
	Table  string `json:"table"`
	Key    string `json:"key"`
	Result bool   `json:"result"`
}

// KeysOutput is the output schema for the storage_keys tool.
type KeysOutput struct {
	Table string   `json:"table"`
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "storage_get",
		Description: "Read the value stored under a key",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "storage_set",
		Description: "Store a JSON value under a key; result is true when the key was new",
	}, s.handleSet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "storage_has",
		Description: "Check whether a key exists",
	}, s.handleHas)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "storage_remove",
		Description: "Delete a key; result is true when a record was removed",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "storage_keys",
		Description: "List the keys of a table",
	}, s.handleKeys)
}

// handleGet handles the storage_get tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeyInput,
) (*mcp.CallToolResult, GetOutput, error) {
	if err := s.wait(ctx); err != nil {
		return nil, GetOutput{}, err
	}

	var value any
	found, err := s.ports.Storage.Lookup(ctx, input.Table, input.Key, &value)
	if err != nil {
		return nil, GetOutput{}, err
	}

	return nil, GetOutput{Table: input.Table, Key: input.Key, Found: found, Value: value}, nil
}

// handleSet handles the storage_set tool invocation.
func (s *Server) handleSet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	if err := s.wait(ctx); err != nil {
		return nil, ResultOutput{}, err
	}

	added, err := s.ports.Storage.Set(ctx, input.Table, input.Key, input.Value)
	if err != nil {
		return nil, ResultOutput{}, err
	}

	return nil, ResultOutput{Table: input.Table, Key: input.Key, Result: added}, nil
}

// handleHas handles the storage_has tool invocation.
func (s *Server) handleHas(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeyInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	if err := s.wait(ctx); err != nil {
		return nil, ResultOutput{}, err
	}

	exists, err := s.ports.Storage.Has(ctx, input.Table, input.Key)
	if err != nil {
		return nil, ResultOutput{}, err
	}

	return nil, ResultOutput{Table: input.Table, Key: input.Key, Result: exists}, nil
}

// handleRemove handles the storage_remove tool invocation.
func (s *Server) handleRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input KeyInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	if err := s.wait(ctx); err != nil {
		return nil, ResultOutput{}, err
	}

	removed, err := s.ports.Storage.Remove(ctx, input.Table, input.Key)
	if err != nil {
		return nil, ResultOutput{}, err
	}

	return nil, ResultOutput{Table: input.Table, Key: input.Key, Result: removed}, nil
}

// handleKeys handles the storage_keys tool invocation.
func (s *Server) handleKeys(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TableInput,
) (*mcp.CallToolResult, KeysOutput, error) {
	if err := s.wait(ctx); err != nil {
		return nil, KeysOutput{}, err
	}

	keys, err := s.ports.Storage.Keys(ctx, input.Table)
	if err != nil {
		return nil, KeysOutput{}, err
	}
	if keys == nil {
		keys = []string{}
	}

	return nil, KeysOutput{Table: input.Table, Keys: keys, Count: len(keys)}, nil
}
