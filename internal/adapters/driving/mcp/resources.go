package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for SimpleStorage resources.
	uriScheme = "simplestorage://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing tables.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tables",
		Name:        "tables",
		Description: "List of all storage tables",
		MIMEType:    "application/json",
	}, s.handleTablesResource)

	// Template for the records of one table.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tables/{table}",
		Name:        "table-records",
		Description: "All records stored in a table",
		MIMEType:    "application/json",
	}, s.handleTableResource)
}

// handleTablesResource returns the table names.
func (s *Server) handleTablesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	tables, err := s.ports.Storage.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	if tables == nil {
		tables = []string{}
	}

	return jsonResource(req.Params.URI, tables)
}

// handleTableResource returns every record of one table as a JSON object.
func (s *Server) handleTableResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	table := extractTable(req.Params.URI)
	if table == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	keys, err := s.ports.Storage.Keys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	records := make(map[string]any, len(keys))
	for _, key := range keys {
		var value any
		found, err := s.ports.Storage.Lookup(ctx, table, key, &value)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		// Removed between listing and reading.
		if !found {
			continue
		}
		records[key] = value
	}

	return jsonResource(req.Params.URI, records)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTable extracts the table name from a URI like simplestorage://tables/{table}.
func extractTable(uri string) string {
	const prefix = uriScheme + "tables/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	table := strings.TrimPrefix(uri, prefix)
	if strings.Contains(table, "/") {
		return ""
	}
	return table
}
