package mcp

import (
	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Storage provides the key/value operations.
	Storage driving.StorageService

	// Limits bounds the rate of tool calls. Zero values use the defaults.
	Limits domain.MCPSettings
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Storage == nil {
		return ErrMissingStorageService
	}
	return nil
}

// limits returns the configured limits with defaults filled in.
func (p *Ports) limits() domain.MCPSettings {
	defaults := domain.DefaultStorageSettings().MCP
	l := p.Limits
	if l.RequestsPerSecond <= 0 {
		l.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if l.Burst <= 0 {
		l.Burst = defaults.Burst
	}
	return l
}
