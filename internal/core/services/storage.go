package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// Ensure StorageService implements the interfaces.
var (
	_ driving.StorageService      = (*StorageService)(nil)
	_ driving.AsyncStorageService = (*StorageService)(nil)
)

// StorageService implements get/set/has/remove over named tables.
//
// Every operation first opens the connection and ensures its table, so no
// explicit setup is needed. Has reports row existence with a dedicated
// query, which means a stored JSON null counts as present.
type StorageService struct {
	store driven.KVStore
	gate  *barrier

	mu     sync.Mutex
	queues map[string]*tableQueue
}

// NewStorageService creates a storage service over the given store.
func NewStorageService(store driven.KVStore) *StorageService {
	return &StorageService{
		store:  store,
		gate:   newBarrier(),
		queues: make(map[string]*tableQueue),
	}
}

// queue returns the operation queue of a table. Names that differ only in
// case share a queue because they address the same SQL table.
func (s *StorageService) queue(table string) *tableQueue {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.TableID(table)
	q, ok := s.queues[id]
	if !ok {
		q = &tableQueue{}
		s.queues[id] = q
	}
	return q
}

// Open opens the connection. Calling it is optional.
func (s *StorageService) Open(ctx context.Context) error {
	s.gate.enter()
	defer s.gate.leave()
	return s.store.Open(ctx)
}

// Close waits for in-flight operations, then closes the connection.
// If ctx ends before the writes drain, the connection stays open and the
// error names the pending writes. A later operation reopens lazily.
func (s *StorageService) Close(ctx context.Context) error {
	if err := s.gate.drain(ctx); err != nil {
		pending := s.gate.pendingWrites()
		logger.Warn("close interrupted with %d pending writes: %s", len(pending), strings.Join(pending, ", "))
		return fmt.Errorf("waiting for pending writes [%s]: %w", strings.Join(pending, ", "), err)
	}
	defer s.gate.release()

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}
	return nil
}

// PendingWrites lists the writes currently in flight.
func (s *StorageService) PendingWrites() []string {
	return s.gate.pendingWrites()
}

// Path returns the location of the backing store.
func (s *StorageService) Path() string {
	return s.store.Path()
}

// Table returns a handle bound to one table.
func (s *StorageService) Table(name string) *Table {
	return &Table{name: name, svc: s}
}

// submit issues fn against table. The queue position is claimed before
// submit returns; fn runs in the background with a context that ignores
// cancellation, so an issued operation always runs to completion.
func submit[T any](
	s *StorageService,
	ctx context.Context,
	op, table, key string,
	write bool,
	fn func(ctx context.Context) (T, error),
) *domain.Future[T] {
	var zero T
	if err := domain.ValidateTableName(table); err != nil {
		return domain.Resolved(zero, &domain.StorageError{Op: op, Table: table, Key: key, Err: err})
	}

	s.gate.enter()
	wait, done := s.queue(table).reserve(write)

	var name string
	if write {
		name = "SimpleStorage:" + op
	}
	id := s.gate.trackWrite(name)

	future := domain.NewFuture[T]()
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer s.gate.leave()
		defer done()
		defer s.gate.untrackWrite(id)

		wait()

		if err := s.store.EnsureTable(ctx, table); err != nil {
			logFailure(op, table, key, err)
			future.Resolve(zero, err)
			return
		}

		val, err := fn(ctx)
		if err != nil {
			logFailure(op, table, key, err)
		}
		future.Resolve(val, err)
	}()

	return future
}

// logFailure records a failed operation with its query context.
func logFailure(op, table, key string, err error) {
	switch {
	case errors.Is(err, domain.ErrDataIntegrity):
		// Already reported as an assertion failure.
	case errors.Is(err, domain.ErrStorageUnavailable):
		logger.Error("%s %s[%q]: storage unavailable: %v", op, table, key, err)
	default:
		logger.Warn("%s %s[%q] failed: %v", op, table, key, err)
	}
}

// lookupOne returns the single stored value for key.
// More than one row violates primary key uniqueness.
func (s *StorageService) lookupOne(ctx context.Context, table, key string) (string, bool, error) {
	values, err := s.store.Lookup(ctx, table, key)
	if err != nil {
		return "", false, err
	}

	switch len(values) {
	case 0:
		return "", false, nil
	case 1:
		return values[0], true, nil
	default:
		logger.Assert(false, "%d rows for primary key %q in table %s", len(values), key, table)
		return "", false, &domain.StorageError{Op: "get", Table: table, Key: key, Err: domain.ErrDataIntegrity}
	}
}

// GetAsync issues a lookup. The future resolves with the stored value, or
// nil if the key is absent.
func (s *StorageService) GetAsync(ctx context.Context, table, key string) *domain.Future[any] {
	return submit(s, ctx, "get", table, key, false, func(ctx context.Context) (any, error) {
		stored, ok, err := s.lookupOne(ctx, table, key)
		if err != nil || !ok {
			return nil, err
		}

		val, err := domain.DecodeValue(stored)
		if err != nil {
			return nil, &domain.StorageError{
				Op: "get", Table: table, Key: key,
				Err: fmt.Errorf("%w: %w", domain.ErrDataIntegrity, err),
			}
		}
		return val, nil
	})
}

// SetAsync issues a store of value under key. The value is serialised
// immediately; the future resolves true when the key was newly inserted.
func (s *StorageService) SetAsync(ctx context.Context, table, key string, value any) *domain.Future[bool] {
	encoded, err := domain.EncodeValue(value)
	if err != nil {
		return domain.Resolved(false, &domain.StorageError{Op: "set", Table: table, Key: key, Err: err})
	}

	return submit(s, ctx, "set", table, key, true, func(ctx context.Context) (bool, error) {
		exists, err := s.store.Exists(ctx, table, key)
		if err != nil {
			return false, err
		}

		if exists {
			return false, s.store.Update(ctx, table, key, encoded)
		}
		if err := s.store.Insert(ctx, table, key, encoded); err != nil {
			return false, err
		}
		return true, nil
	})
}

// HasAsync issues an existence check.
func (s *StorageService) HasAsync(ctx context.Context, table, key string) *domain.Future[bool] {
	return submit(s, ctx, "has", table, key, false, func(ctx context.Context) (bool, error) {
		return s.store.Exists(ctx, table, key)
	})
}

// RemoveAsync issues a delete. The future resolves true if a row was deleted.
func (s *StorageService) RemoveAsync(ctx context.Context, table, key string) *domain.Future[bool] {
	return submit(s, ctx, "remove", table, key, true, func(ctx context.Context) (bool, error) {
		n, err := s.store.Delete(ctx, table, key)
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

// Get returns the stored value, or nil if the key is absent.
func (s *StorageService) Get(ctx context.Context, table, key string) (any, error) {
	return s.GetAsync(ctx, table, key).Await(ctx)
}

// Lookup decodes the stored value into dst and reports whether the key exists.
func (s *StorageService) Lookup(ctx context.Context, table, key string, dst any) (bool, error) {
	future := submit(s, ctx, "get", table, key, false, func(ctx context.Context) (bool, error) {
		stored, ok, err := s.lookupOne(ctx, table, key)
		if err != nil || !ok {
			return false, err
		}
		if err := domain.DecodeValueInto(stored, dst); err != nil {
			return true, &domain.StorageError{Op: "get", Table: table, Key: key, Err: err}
		}
		return true, nil
	})
	return future.Await(ctx)
}

// Set stores value under key, returning true when the key was newly inserted.
func (s *StorageService) Set(ctx context.Context, table, key string, value any) (bool, error) {
	return s.SetAsync(ctx, table, key, value).Await(ctx)
}

// Has reports whether a row exists for key.
func (s *StorageService) Has(ctx context.Context, table, key string) (bool, error) {
	return s.HasAsync(ctx, table, key).Await(ctx)
}

// Remove deletes key, returning true if a row was deleted.
func (s *StorageService) Remove(ctx context.Context, table, key string) (bool, error) {
	return s.RemoveAsync(ctx, table, key).Await(ctx)
}

// Keys lists the keys of a table, creating the table if needed.
func (s *StorageService) Keys(ctx context.Context, table string) ([]string, error) {
	future := submit(s, ctx, "keys", table, "", false, func(ctx context.Context) ([]string, error) {
		return s.store.Keys(ctx, table)
	})
	return future.Await(ctx)
}

// Tables lists the tables in the store.
func (s *StorageService) Tables(ctx context.Context) ([]string, error) {
	s.gate.enter()
	defer s.gate.leave()

	if err := s.store.Open(ctx); err != nil {
		return nil, err
	}
	return s.store.Tables(ctx)
}
