package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// StorageFileName is the backing store file inside the profile directory.
const StorageFileName = "simple_storage.sqlite"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName reports whether name can be used as a table identifier.
// Names are conventionally namespaced by the caller, e.g. "conversations_prefs".
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidTable, name)
	}
	return nil
}

// TableID returns the identity SQLite uses for a table name. Identifiers
// are matched ASCII case-insensitively, so "prefs" and "PREFS" are one table.
func TableID(name string) string {
	return strings.ToLower(name)
}

// QuoteIdentifier quotes a validated table name for use in SQL.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
