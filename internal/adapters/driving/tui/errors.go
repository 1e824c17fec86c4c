// Package tui provides an interactive terminal browser for SimpleStorage.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import "errors"

// ErrMissingStorageService is returned when the storage service is not provided.
var ErrMissingStorageService = errors.New("tui: storage service is required")
