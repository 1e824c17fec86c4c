// Package domain defines the core business entities for SimpleStorage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Value codec: the {"value": ...} wrapper stored for every key
//   - Table names: validation and quoting rules
//   - StorageSettings: Runtime settings for the storage layer
//   - Future: The pending result of an issued storage operation
//   - Errors: The storage error taxonomy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
