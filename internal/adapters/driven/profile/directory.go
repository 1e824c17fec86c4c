// Package profile resolves the private data directory that holds the
// backing store file.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.ProfileDirectory = (*Directory)(nil)

// Directory is a driven.ProfileDirectory backed by a fixed path or the
// user's home directory.
type Directory struct {
	path string
}

// New creates a profile directory resolver.
// If dataDir is empty, defaults to ~/.simplestorage/data.
func New(dataDir string) *Directory {
	return &Directory{path: dataDir}
}

// DataDir returns the absolute data directory path.
func (d *Directory) DataDir() (string, error) {
	if d.path != "" {
		return filepath.Abs(d.path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".simplestorage", "data"), nil
}
