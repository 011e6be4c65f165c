package localstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRemove(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "session", `{"identity":"maria"}`))
	value, ok, err := store.Get(ctx, "session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"identity":"maria"}`, value)

	require.NoError(t, store.Set(ctx, "session", "replaced"))
	value, _, _ = store.Get(ctx, "session")
	assert.Equal(t, "replaced", value)

	require.NoError(t, store.Remove(ctx, "session"))
	_, ok, err = store.Get(ctx, "session")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Remove(ctx, "session"), "removing a missing key is not an error")
	assert.NoError(t, store.Close())
}

func TestCartKeyNamespacesByIdentity(t *testing.T) {
	assert.Equal(t, "cart/maria", CartKey("maria"))
	assert.NotEqual(t, CartKey("maria"), CartKey("ana"))
}

func TestMemoryConcurrentAccess(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := CartKey(string(rune('a' + n)))
			_ = store.Set(ctx, key, "v")
			_, _, _ = store.Get(ctx, key)
			_ = store.Remove(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
