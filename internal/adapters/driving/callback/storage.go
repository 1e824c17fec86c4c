package callback

import (
	"context"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
	"github.com/custodia-labs/simple-storage/internal/logger"
)

// ErrorHandler receives failures that would otherwise only be logged.
type ErrorHandler func(op, table, key string, err error)

// Option configures a Storage.
type Option func(*Storage)

// WithErrorHandler installs an error continuation. It runs after the
// failure has been logged.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Storage) {
		s.onError = h
	}
}

// Storage exposes get/set/has/remove with success continuations.
type Storage struct {
	async   driving.AsyncStorageService
	onError ErrorHandler
}

// New creates a continuation-passing adapter over async.
func New(async driving.AsyncStorageService, opts ...Option) *Storage {
	s := &Storage{async: async}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get calls cb with the stored value, or nil when the key is absent.
func (s *Storage) Get(ctx context.Context, table, key string, cb func(value any)) {
	continueWith(ctx, s, "get", table, key, s.async.GetAsync(ctx, table, key), cb)
}

// Set calls cb with true when the key was inserted, false when it was updated.
func (s *Storage) Set(ctx context.Context, table, key string, value any, cb func(added bool)) {
	continueWith(ctx, s, "set", table, key, s.async.SetAsync(ctx, table, key, value), cb)
}

// Has calls cb with whether the key exists.
func (s *Storage) Has(ctx context.Context, table, key string, cb func(exists bool)) {
	continueWith(ctx, s, "has", table, key, s.async.HasAsync(ctx, table, key), cb)
}

// Remove calls cb with whether a row was deleted.
func (s *Storage) Remove(ctx context.Context, table, key string, cb func(removed bool)) {
	continueWith(ctx, s, "remove", table, key, s.async.RemoveAsync(ctx, table, key), cb)
}

func continueWith[T any](ctx context.Context, s *Storage, op, table, key string, f *domain.Future[T], cb func(T)) {
	go func() {
		// Issued operations finish even when ctx is cancelled; report
		// their real outcome.
		val, err := f.Await(context.WithoutCancel(ctx))
		if err != nil {
			logger.Warn("SimpleStorage.%s(%s, %q) failed: %v", op, table, key, err)
			if s.onError != nil {
				s.onError(op, table, key, err)
			}
			return
		}
		if cb != nil {
			cb(val)
		}
	}()
}
