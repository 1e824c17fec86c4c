package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.KVStore = (*Store)(nil)

// jsonNull is the serialised form used for rows whose value column is NULL.
const jsonNull = "null"

// DefaultBusyTimeout is how long a locked database is retried before failing.
const DefaultBusyTimeout = 5 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithBusyTimeout sets the SQLite busy timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.busyTimeout = d
		}
	}
}

// Store is a lazily opened SQLite key/value store.
type Store struct {
	dir         driven.ProfileDirectory
	busyTimeout time.Duration

	mu     sync.Mutex
	db     *sqlx.DB
	path   string
	tables map[string]struct{}
}

// NewStore creates a store for simple_storage.sqlite inside the directory
// resolved by dir. Nothing is opened until the first operation.
func NewStore(dir driven.ProfileDirectory, opts ...Option) *Store {
	s := &Store{
		dir:         dir,
		busyTimeout: DefaultBusyTimeout,
		tables:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the connection if it is not open yet.
func (s *Store) Open(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// conn returns the open handle, opening it on first use.
func (s *Store) conn(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, path, err := s.open(ctx)
	if err != nil {
		return nil, &domain.StorageError{
			Op:  "open",
			Err: fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
		}
	}

	s.db = db
	s.path = path
	logger.Debug("opened storage at %s", path)
	return db, nil
}

// open resolves the profile directory and opens the database (caller must hold lock).
func (s *Store) open(ctx context.Context) (*sqlx.DB, string, error) {
	dataDir, err := s.dir.DataDir()
	if err != nil {
		return nil, "", fmt.Errorf("resolving data directory: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, "", fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, domain.StorageFileName)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		path, s.busyTimeout.Milliseconds())

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	// All tables multiplex over one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("connecting to database: %w", err)
	}

	return db, path, nil
}

// EnsureTable creates the table if it does not exist yet.
func (s *Store) EnsureTable(ctx context.Context, table string) error {
	if err := domain.ValidateTableName(table); err != nil {
		return err
	}

	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, known := s.tables[domain.TableID(table)]
	s.mu.Unlock()
	if known {
		return nil
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT)",
		domain.QuoteIdentifier(table))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return domain.NewQueryError("create table", table, "", err)
	}

	s.mu.Lock()
	if s.db == db {
		s.tables[domain.TableID(table)] = struct{}{}
	}
	s.mu.Unlock()

	logger.Debug("ensured table %s", table)
	return nil
}

// Lookup returns the serialised values stored under key.
func (s *Store) Lookup(ctx context.Context, table, key string) ([]string, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []sql.NullString
	err = db.SelectContext(ctx, &rows,
		fmt.Sprintf("SELECT value FROM %s WHERE key = ?", domain.QuoteIdentifier(table)), key)
	if err != nil {
		return nil, domain.NewQueryError("get", table, key, err)
	}

	values := make([]string, 0, len(rows))
	for _, value := range rows {
		if !value.Valid {
			value.String = jsonNull
		}
		values = append(values, value.String)
	}

	return values, nil
}

// Exists reports whether a row with key exists.
func (s *Store) Exists(ctx context.Context, table, key string) (bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = db.GetContext(ctx, &one,
		fmt.Sprintf("SELECT 1 FROM %s WHERE key = ? LIMIT 1", domain.QuoteIdentifier(table)), key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewQueryError("has", table, key, err)
	}
	return true, nil
}

// Insert adds a new row.
func (s *Store) Insert(ctx context.Context, table, key, value string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?)", domain.QuoteIdentifier(table)),
		key, value)
	if err != nil {
		return domain.NewQueryError("insert", table, key, err)
	}
	return nil
}

// Update replaces the value of an existing row.
func (s *Store) Update(ctx context.Context, table, key, value string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET value = ? WHERE key = ?", domain.QuoteIdentifier(table)),
		value, key)
	if err != nil {
		return domain.NewQueryError("update", table, key, err)
	}
	return nil
}

// Delete removes the row with key.
func (s *Store) Delete(ctx context.Context, table, key string) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE key = ?", domain.QuoteIdentifier(table)), key)
	if err != nil {
		return 0, domain.NewQueryError("remove", table, key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewQueryError("remove", table, key, err)
	}
	return n, nil
}

// Keys lists the keys of a table in ascending order.
func (s *Store) Keys(ctx context.Context, table string) ([]string, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	keys := []string{}
	err = db.SelectContext(ctx, &keys,
		fmt.Sprintf("SELECT key FROM %s ORDER BY key", domain.QuoteIdentifier(table)))
	if err != nil {
		return nil, domain.NewQueryError("keys", table, "", err)
	}
	return keys, nil
}

// Tables lists every user table in ascending order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	tables := []string{}
	err = db.SelectContext(ctx, &tables, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name
	`)
	if err != nil {
		return nil, domain.NewQueryError("tables", "", "", err)
	}
	return tables, nil
}

// Close closes the connection if open and forgets the known tables.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	s.tables = make(map[string]struct{})
	logger.Debug("closed storage at %s", s.path)
	return err
}

// Path returns the database file path. It is empty until the first open.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// IsOpen reports whether the connection is currently open.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}
