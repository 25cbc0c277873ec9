package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePublishAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Publish(ctx, "alice", []byte("alice-key")))

	key, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("alice-key"), key)
}

func TestMemoryStoreLookupMiss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Publish(ctx, "alice", []byte("old")))
	require.NoError(t, store.Publish(ctx, "alice", []byte("new")))

	key, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), key, "later signup replaces the prior key")
}

func TestMemoryStoreCopiesKeyMaterial(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	published := []byte("stable")
	require.NoError(t, store.Publish(ctx, "alice", published))
	published[0] = 'X'

	key, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("stable"), key)

	key[0] = 'Y'
	again, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("stable"), again)
}
