// Package memory provides in-memory implementations of driven ports.
// They are used by service tests and by the --memory CLI mode.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
)

// errUniqueKey mirrors the constraint error SQLite reports for a duplicate key.
var errUniqueKey = errors.New("UNIQUE constraint failed: key")

// Ensure KVStore implements the interface.
var _ driven.KVStore = (*KVStore)(nil)

// KVStore is an in-memory implementation of driven.KVStore.
// Rows survive Close, like a file on disk.
type KVStore struct {
	mu     sync.RWMutex
	open   bool
	opens  int
	tables map[string]map[string][]string // keyed by domain.TableID
	names  map[string]string              // TableID to the name it was created with

	// OpenErr, when set, makes Open fail.
	OpenErr error
}

// NewKVStore creates a new in-memory key/value store.
func NewKVStore() *KVStore {
	return &KVStore{
		tables: make(map[string]map[string][]string),
		names:  make(map[string]string),
	}
}

// Open marks the store open.
func (s *KVStore) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked()
}

func (s *KVStore) openLocked() error {
	if s.open {
		return nil
	}
	if s.OpenErr != nil {
		return &domain.StorageError{Op: "open", Err: s.OpenErr}
	}
	s.open = true
	s.opens++
	return nil
}

// EnsureTable creates the table if it does not exist.
func (s *KVStore) EnsureTable(_ context.Context, table string) error {
	if err := domain.ValidateTableName(table); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.openLocked(); err != nil {
		return err
	}
	s.create(table)
	return nil
}

// create adds an empty table unless a case variant exists (caller must hold lock).
func (s *KVStore) create(table string) map[string][]string {
	id := domain.TableID(table)
	if rows, ok := s.tables[id]; ok {
		return rows
	}
	rows := make(map[string][]string)
	s.tables[id] = rows
	s.names[id] = table
	return rows
}

// table returns the rows of a table (caller must hold lock).
func (s *KVStore) table(op, table, key string) (map[string][]string, error) {
	if err := s.openLocked(); err != nil {
		return nil, err
	}
	rows, ok := s.tables[domain.TableID(table)]
	if !ok {
		return nil, domain.NewQueryError(op, table, key, domain.ErrNotFound)
	}
	return rows, nil
}

// Lookup returns every value stored under key.
func (s *KVStore) Lookup(_ context.Context, table, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("get", table, key)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), rows[key]...), nil
}

// Exists reports whether key is present.
func (s *KVStore) Exists(_ context.Context, table, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("has", table, key)
	if err != nil {
		return false, err
	}
	return len(rows[key]) > 0, nil
}

// Insert adds a new row. Inserting an existing key fails like a primary key violation.
func (s *KVStore) Insert(_ context.Context, table, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("insert", table, key)
	if err != nil {
		return err
	}
	if len(rows[key]) > 0 {
		return domain.NewQueryError("insert", table, key, errUniqueKey)
	}
	rows[key] = []string{value}
	return nil
}

// Update replaces the value of every row stored under key.
func (s *KVStore) Update(_ context.Context, table, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("update", table, key)
	if err != nil {
		return err
	}
	for i := range rows[key] {
		rows[key][i] = value
	}
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, table, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("remove", table, key)
	if err != nil {
		return 0, err
	}
	n := int64(len(rows[key]))
	delete(rows, key)
	return n, nil
}

// Keys lists the keys of a table in ascending order.
func (s *KVStore) Keys(_ context.Context, table string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.table("keys", table, "")
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Tables lists the tables in ascending order.
func (s *KVStore) Tables(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(s.tables))
	for id := range s.tables {
		tables = append(tables, s.names[id])
	}
	sort.Strings(tables)
	return tables, nil
}

// Close marks the store closed.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

// Path returns a placeholder location.
func (s *KVStore) Path() string {
	return ":memory:"
}

// IsOpen reports whether the store is open.
func (s *KVStore) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Opens returns how many times the store transitioned to open.
func (s *KVStore) Opens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens
}

// InjectDuplicate stores an extra row for key, breaking primary key
// uniqueness. Used to exercise integrity checks.
func (s *KVStore) InjectDuplicate(table, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.create(table)
	rows[key] = append(rows[key], value)
}
