package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/simple-storage/internal/adapters/driven/profile"
	"github.com/custodia-labs/simple-storage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/simple-storage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
)

// blockingStore holds Insert calls until release is closed.
type blockingStore struct {
	*memory.KVStore
	started chan string
	release chan struct{}
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		KVStore: memory.NewKVStore(),
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (s *blockingStore) Insert(ctx context.Context, table, key, value string) error {
	s.started <- table + "/" + key
	<-s.release
	return s.KVStore.Insert(ctx, table, key, value)
}

// backends returns a fresh store of each kind.
func backends(t *testing.T) map[string]driven.KVStore {
	t.Helper()
	sq := sqlite.NewStore(profile.New(t.TempDir()))
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]driven.KVStore{
		"memory": memory.NewKVStore(),
		"sqlite": sq,
	}
}

func TestStorageService_Scenario(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewStorageService(store)
			ctx := context.Background()

			has, err := svc.Has(ctx, "test", "myKey")
			require.NoError(t, err)
			assert.False(t, has)

			added, err := svc.Set(ctx, "test", "myKey", "myVal")
			require.NoError(t, err)
			assert.True(t, added, "value was added")

			got, err := svc.Get(ctx, "test", "myKey")
			require.NoError(t, err)
			assert.Equal(t, "myVal", got)

			added, err = svc.Set(ctx, "test", "myKey", map[string]any{"k1": "v1", "k2": "v2"})
			require.NoError(t, err)
			assert.False(t, added, "value was updated in place")

			got, err = svc.Get(ctx, "test", "myKey")
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"k1": "v1", "k2": "v2"}, got)

			removed, err := svc.Remove(ctx, "test", "myKey")
			require.NoError(t, err)
			assert.True(t, removed)

			has, err = svc.Has(ctx, "test", "myKey")
			require.NoError(t, err)
			assert.False(t, has)

			require.NoError(t, svc.Close(ctx))
		})
	}
}

func TestStorageService_AbsentKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewStorageService(store)
			ctx := context.Background()

			got, err := svc.Get(ctx, "never", "missing")
			require.NoError(t, err)
			assert.Nil(t, got)

			has, err := svc.Has(ctx, "never", "missing")
			require.NoError(t, err)
			assert.False(t, has)

			removed, err := svc.Remove(ctx, "never", "missing")
			require.NoError(t, err)
			assert.False(t, removed)

			keys, err := svc.Keys(ctx, "never")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestStorageService_RoundTripValues(t *testing.T) {
	values := []struct {
		name     string
		value    any
		expected any
	}{
		{"null", nil, nil},
		{"zero", 0, float64(0)},
		{"empty string", "", ""},
		{"false", false, false},
		{"float", 3.25, 3.25},
		{"array", []any{"a", 1}, []any{"a", float64(1)}},
		{"nested object", map[string]any{"a": map[string]any{"b": true}}, map[string]any{"a": map[string]any{"b": true}}},
		{"unicode and html", "<é & ü>", "<é & ü>"},
	}

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewStorageService(store)
			ctx := context.Background()

			for _, tt := range values {
				t.Run(tt.name, func(t *testing.T) {
					added, err := svc.Set(ctx, "values", tt.name, tt.value)
					require.NoError(t, err)
					assert.True(t, added)

					got, err := svc.Get(ctx, "values", tt.name)
					require.NoError(t, err)
					assert.Equal(t, tt.expected, got)

					has, err := svc.Has(ctx, "values", tt.name)
					require.NoError(t, err)
					assert.True(t, has, "a stored value is present even when falsy")
				})
			}
		})
	}
}

func TestStorageService_StoredNull(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	added, err := svc.Set(ctx, "test", "k", nil)
	require.NoError(t, err)
	assert.True(t, added)

	// Setting again updates the existing row.
	added, err = svc.Set(ctx, "test", "k", nil)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := svc.Remove(ctx, "test", "k")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestStorageService_SetGetRemoveGet(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	_, err := svc.Set(ctx, "test", "k", "V")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "test", "k")
	require.NoError(t, err)
	assert.Equal(t, "V", got)

	removed, err := svc.Remove(ctx, "test", "k")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = svc.Get(ctx, "test", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorageService_Lookup(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	type prefs struct {
		Theme string `json:"theme"`
		Size  int    `json:"size"`
	}

	var p prefs
	found, err := svc.Lookup(ctx, "prefs", "ui", &p)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.Set(ctx, "prefs", "ui", prefs{Theme: "dark", Size: 12})
	require.NoError(t, err)

	found, err = svc.Lookup(ctx, "prefs", "ui", &p)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, prefs{Theme: "dark", Size: 12}, p)

	var wrong int
	_, err = svc.Lookup(ctx, "prefs", "ui", &wrong)
	assert.Error(t, err)
}

func TestStorageService_DataIntegrity(t *testing.T) {
	store := memory.NewKVStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	_, err := svc.Set(ctx, "test", "k", 1)
	require.NoError(t, err)
	store.InjectDuplicate("test", "k", `{"value":2}`)

	_, err = svc.Get(ctx, "test", "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)

	var se *domain.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "test", se.Table)
	assert.Equal(t, "k", se.Key)
}

func TestStorageService_CorruptValue(t *testing.T) {
	store := memory.NewKVStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	require.NoError(t, store.EnsureTable(ctx, "test"))
	require.NoError(t, store.Insert(ctx, "test", "k", "not json"))

	_, err := svc.Get(ctx, "test", "k")
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestStorageService_StorageUnavailable(t *testing.T) {
	store := memory.NewKVStore()
	store.OpenErr = domain.ErrStorageUnavailable
	svc := NewStorageService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, "test", "k")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = svc.Set(ctx, "test", "k", "v")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = svc.Tables(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	assert.ErrorIs(t, svc.Open(ctx), domain.ErrStorageUnavailable)

	// Remediated: the next operation opens successfully.
	store.OpenErr = nil
	added, err := svc.Set(ctx, "test", "k", "v")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestStorageService_InvalidInput(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	_, err := svc.Get(ctx, "bad table", "k")
	assert.ErrorIs(t, err, domain.ErrInvalidTable)

	_, err = svc.Set(ctx, "test", "k", make(chan int))
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestStorageService_LazyOpenAndReopen(t *testing.T) {
	store := memory.NewKVStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	assert.False(t, store.IsOpen())

	_, err := svc.Set(ctx, "test", "k", "v")
	require.NoError(t, err)
	assert.True(t, store.IsOpen())

	require.NoError(t, svc.Open(ctx))
	require.NoError(t, svc.Open(ctx))
	assert.Equal(t, 1, store.Opens())

	require.NoError(t, svc.Close(ctx))
	assert.False(t, store.IsOpen())

	// Close is safe when nothing is open.
	require.NoError(t, svc.Close(ctx))

	got, err := svc.Get(ctx, "test", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.Equal(t, 2, store.Opens())
}

func TestStorageService_TablesAndKeys(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	_, err := svc.Set(ctx, "b_table", "z", 1)
	require.NoError(t, err)
	_, err = svc.Set(ctx, "a_table", "y", 1)
	require.NoError(t, err)
	_, err = svc.Set(ctx, "a_table", "x", 1)
	require.NoError(t, err)

	tables, err := svc.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_table", "b_table"}, tables)

	keys, err := svc.Keys(ctx, "a_table")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, keys)
}

// ==================== Ordering ====================

func TestStorageService_AsyncIssueOrder(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	first := svc.SetAsync(ctx, "test", "k", 0)
	var last *domain.Future[bool]
	for i := 1; i <= 50; i++ {
		last = svc.SetAsync(ctx, "test", "k", i)
	}
	read := svc.GetAsync(ctx, "test", "k")
	removed := svc.RemoveAsync(ctx, "test", "k")
	after := svc.HasAsync(ctx, "test", "k")

	added, err := first.Await(ctx)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = last.Await(ctx)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := read.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(50), got)

	ok, err := removed.Await(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	has, err := after.Await(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStorageService_ReadWaitsForEarlierWrite(t *testing.T) {
	store := newBlockingStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	write := svc.SetAsync(ctx, "test", "k", "v")
	<-store.started
	read := svc.GetAsync(ctx, "test", "k")

	select {
	case <-read.Done():
		t.Fatal("read completed before the earlier write")
	case <-time.After(20 * time.Millisecond):
	}

	close(store.release)

	_, err := write.Await(ctx)
	require.NoError(t, err)
	got, err := read.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestStorageService_TablesAreIndependent(t *testing.T) {
	store := newBlockingStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	blocked := svc.SetAsync(ctx, "slow", "k", "v")
	<-store.started

	has, err := svc.Has(ctx, "fast", "k")
	require.NoError(t, err)
	assert.False(t, has)

	close(store.release)
	_, err = blocked.Await(ctx)
	require.NoError(t, err)
}

func TestStorageService_ConcurrentWriters(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			added, err := svc.Set(ctx, "test", "shared", n)
			assert.NoError(t, err)
			if added {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, inserted, "exactly one writer inserts the key")
}

func TestStorageService_CaseVariantsShareQueue(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewStorageService(store)
			ctx := context.Background()

			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				failed int
			)
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("k%d", i)
				for v, table := range []string{"prefs", "PREFS"} {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if _, err := svc.Set(ctx, table, key, v); err != nil {
							mu.Lock()
							failed++
							mu.Unlock()
							t.Errorf("set %s[%q]: %v", table, key, err)
						}
					}()
				}
			}
			wg.Wait()
			assert.Zero(t, failed)

			keys, err := svc.Keys(ctx, "Prefs")
			require.NoError(t, err)
			assert.Len(t, keys, 50)
		})
	}
}

func TestStorageService_CancelledCallerDoesNotCancelWrite(t *testing.T) {
	store := newBlockingStore()
	svc := NewStorageService(store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Set(ctx, "test", "k", "v")
		done <- err
	}()
	<-store.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(store.release)
	require.NoError(t, svc.Close(context.Background()))

	got, err := svc.Get(context.Background(), "test", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

// ==================== Write barrier ====================

func TestStorageService_CloseDrainsWrites(t *testing.T) {
	store := newBlockingStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	write := svc.SetAsync(ctx, "test", "k", "v")
	<-store.started
	assert.Equal(t, []string{"SimpleStorage:set"}, svc.PendingWrites())

	closed := make(chan error, 1)
	go func() { closed <- svc.Close(ctx) }()

	select {
	case <-closed:
		t.Fatal("close returned while a write was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-closed)

	added, err := write.Await(ctx)
	require.NoError(t, err)
	assert.True(t, added)
	assert.False(t, store.IsOpen())
	assert.Empty(t, svc.PendingWrites())
}

func TestStorageService_CloseTimeoutKeepsConnection(t *testing.T) {
	store := newBlockingStore()
	svc := NewStorageService(store)
	ctx := context.Background()

	write := svc.SetAsync(ctx, "test", "k", "v")
	<-store.started

	closeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := svc.Close(closeCtx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "SimpleStorage:set")
	assert.True(t, store.IsOpen())

	close(store.release)
	_, err = write.Await(ctx)
	require.NoError(t, err)

	// The barrier reopened: new operations proceed.
	has, err := svc.Has(ctx, "test", "k")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStorageService_TableHandle(t *testing.T) {
	svc := NewStorageService(memory.NewKVStore())
	ctx := context.Background()
	tbl := svc.Table("test")

	assert.Equal(t, "test", tbl.Name())

	added, err := tbl.Set(ctx, "myKey", "myVal")
	require.NoError(t, err)
	assert.True(t, added)

	has, err := tbl.Has(ctx, "myKey")
	require.NoError(t, err)
	assert.True(t, has)

	got, err := tbl.Get(ctx, "myKey")
	require.NoError(t, err)
	assert.Equal(t, "myVal", got)

	var s string
	found, err := tbl.Lookup(ctx, "myKey", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "myVal", s)

	keys, err := tbl.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"myKey"}, keys)

	removed, err := tbl.Remove(ctx, "myKey")
	require.NoError(t, err)
	assert.True(t, removed)
}
