package tui

import (
	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Storage provides the tables and records being browsed.
	Storage driving.StorageService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Storage == nil {
		return ErrMissingStorageService
	}
	return nil
}
