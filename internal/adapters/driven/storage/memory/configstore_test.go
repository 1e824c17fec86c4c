package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("storage.data_dir", "/a"))
	require.NoError(t, store.Set("storage.data_dir", "/b"))

	val, ok := store.Get("storage.data_dir")
	assert.True(t, ok)
	assert.Equal(t, "/b", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", int64(7)))
	require.NoError(t, store.Set("f", 2.5))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 2, store.GetInt("f"))
	assert.Equal(t, 2.5, store.GetFloat("f"))
	assert.Equal(t, 7.0, store.GetFloat("i"))
	assert.True(t, store.GetBool("b"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("s"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("log.verbose", true))
	require.NoError(t, store.Set("mcp.burst", 10))

	assert.Equal(t, []string{"log.verbose", "mcp.burst"}, store.Keys())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
		}(i)
		go func() {
			defer wg.Done()
			store.GetInt("k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("k")
	assert.True(t, ok)
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
