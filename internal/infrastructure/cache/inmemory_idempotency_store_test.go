package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "token-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("replay is rejected", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "token-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "token-2", time.Millisecond)
		require.NoError(t, err)
		assert.True(t, ok)

		time.Sleep(5 * time.Millisecond)

		ok, err = store.MarkProcessed(ctx, "token-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "known", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "known")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_RemoveExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "short", time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "long", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.removeExpired()

	assert.Equal(t, 1, store.Size())
}
