// internal/infrastructure/storage/file_test.go
package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "guestCartItems", []byte(`[{"cartId":"p1"}]`)))

	data, err := store.Load(ctx, "guestCartItems")
	require.NoError(t, err)
	assert.Equal(t, `[{"cartId":"p1"}]`, string(data))

	require.NoError(t, store.Clear(ctx, "guestCartItems"))
	data, err = store.Load(ctx, "guestCartItems")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStoreMissingKeyIsEmpty(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Load(context.Background(), "never-written")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStoreClearAbsentKeyIsNoOp(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Clear(context.Background(), "never-written"))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	// session-scoped keys contain colons and slashes must not escape the dir
	key := "session:abc-123:guestCartItems"
	require.NoError(t, store.Save(ctx, key, []byte("x")))

	data, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	other, err := store.Load(ctx, "session:abc-124:guestCartItems")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestFileStoreHealth(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Health())
}

func TestWithPrefixScopesKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a := WithPrefix(store, "session:a:")
	b := WithPrefix(store, "session:b:")

	require.NoError(t, a.Save(ctx, "guestCartItems", []byte("cart-a")))
	require.NoError(t, b.Save(ctx, "guestCartItems", []byte("cart-b")))

	data, err := a.Load(ctx, "guestCartItems")
	require.NoError(t, err)
	assert.Equal(t, "cart-a", string(data))

	require.NoError(t, a.Clear(ctx, "guestCartItems"))
	data, err = b.Load(ctx, "guestCartItems")
	require.NoError(t, err)
	assert.Equal(t, "cart-b", string(data), "clearing one session must not touch another")
}
