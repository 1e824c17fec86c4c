package driving

import "context"

// StorageService is the key/value API over named tables.
// Tables and the connection are created on first use.
type StorageService interface {
	// Get returns the stored value, or nil if the key is absent.
	// A stored JSON null also returns nil; use Has to tell them apart.
	Get(ctx context.Context, table, key string) (any, error)

	// Lookup decodes the stored value into dst and reports whether the key exists.
	Lookup(ctx context.Context, table, key string, dst any) (bool, error)

	// Set stores value under key. It returns true when the key was newly
	// inserted and false when an existing row was updated in place.
	Set(ctx context.Context, table, key string, value any) (bool, error)

	// Has reports whether a row exists for key.
	Has(ctx context.Context, table, key string) (bool, error)

	// Remove deletes key, returning true if a row was deleted.
	Remove(ctx context.Context, table, key string) (bool, error)

	// Keys lists the keys of a table.
	Keys(ctx context.Context, table string) ([]string, error)

	// Tables lists the tables in the store.
	Tables(ctx context.Context) ([]string, error)

	// Close drains in-flight writes and closes the connection.
	Close(ctx context.Context) error
}
