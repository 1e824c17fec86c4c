// Package mcp provides an MCP (Model Context Protocol) server adapter for SimpleStorage.
// It lets AI assistants read and write the key/value tables.
package mcp

import "errors"

// ErrMissingStorageService is returned when the storage service is not provided.
var ErrMissingStorageService = errors.New("mcp: storage service is required")
