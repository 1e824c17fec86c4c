package domain

import "time"

// StorageSettings holds runtime settings for the storage layer.
type StorageSettings struct {
	// DataDir overrides the private data directory. Empty means the default.
	DataDir string

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// MCP holds limits for the MCP server.
	MCP MCPSettings
}

// MCPSettings configures the MCP tool-call limiter.
type MCPSettings struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultStorageSettings returns the settings used when nothing is configured.
func DefaultStorageSettings() StorageSettings {
	return StorageSettings{
		BusyTimeout: 5 * time.Second,
		MCP: MCPSettings{
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// Validate checks the settings for values the storage layer cannot use.
func (s StorageSettings) Validate() error {
	if s.BusyTimeout < 0 {
		return ErrInvalidInput
	}
	if s.MCP.RequestsPerSecond <= 0 || s.MCP.Burst <= 0 {
		return ErrInvalidInput
	}
	return nil
}
