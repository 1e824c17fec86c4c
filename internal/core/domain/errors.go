package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent storage failures.
// Adapters wrap them so callers can match with errors.Is.
var (
	// ErrStorageUnavailable indicates the backing store could not be opened.
	// Subsequent operations keep failing until the cause is remediated.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDataIntegrity indicates more than one row was found for a primary key.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrQueryFailure indicates the underlying query failed or was aborted.
	ErrQueryFailure = errors.New("query failure")

	// ErrInvalidTable indicates a table name that cannot be used as an SQL identifier.
	ErrInvalidTable = errors.New("invalid table name")

	// ErrInvalidValue indicates a value that cannot be serialised as JSON.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// StorageError carries the query context of a failed storage operation.
type StorageError struct {
	Op    string
	Table string
	Key   string
	Err   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	switch {
	case e.Table == "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Key == "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
	default:
		return fmt.Sprintf("%s %s[%q]: %v", e.Op, e.Table, e.Key, e.Err)
	}
}

// Unwrap returns the wrapped error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewQueryError wraps err as a query failure for the given table and key.
func NewQueryError(op, table, key string, err error) error {
	return &StorageError{
		Op:    op,
		Table: table,
		Key:   key,
		Err:   fmt.Errorf("%w: %w", ErrQueryFailure, err),
	}
}
