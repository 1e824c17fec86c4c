package driven

import "context"

// KVStore owns the single connection to the backing store and runs the
// primitive queries against one table at a time.
//
// Implementations open lazily: every method except Close and Path opens the
// connection first if needed. Query methods require EnsureTable to have
// succeeded for the table during the current connection's lifetime.
type KVStore interface {
	// Open opens the connection. It is idempotent; concurrent callers
	// observe the same connection.
	Open(ctx context.Context) error

	// EnsureTable creates the table with schema (key TEXT PRIMARY KEY, value TEXT)
	// if it does not exist.
	EnsureTable(ctx context.Context, table string) error

	// Lookup returns the serialised value of every row matching key.
	// An empty slice means the key is absent.
	Lookup(ctx context.Context, table, key string) ([]string, error)

	// Exists reports whether a row with key exists.
	Exists(ctx context.Context, table, key string) (bool, error)

	// Insert adds a new row.
	Insert(ctx context.Context, table, key, value string) error

	// Update replaces the value of an existing row.
	Update(ctx context.Context, table, key, value string) error

	// Delete removes the row with key, returning the number of rows removed.
	Delete(ctx context.Context, table, key string) (int64, error)

	// Keys lists the keys of a table in ascending order.
	Keys(ctx context.Context, table string) ([]string, error)

	// Tables lists every table in the store in ascending order.
	Tables(ctx context.Context) ([]string, error)

	// Close closes the connection if open. A later call reopens lazily.
	Close() error

	// Path returns the location of the backing store.
	Path() string
}
