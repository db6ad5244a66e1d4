// internal/domain/wishlist/engine_test.go
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStore) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	fetchFn  func() ([]RawEntry, error)
	addFn    func(productID string) ([]RawEntry, error)
	removeFn func(productID string) ([]RawEntry, error)
	mergeFn  func(productIDs []string) ([]RawEntry, error)
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRemote) FetchWishlist(context.Context) ([]RawEntry, error) {
	f.record("fetch")
	if f.fetchFn != nil {
		return f.fetchFn()
	}
	return nil, nil
}

func (f *fakeRemote) AddItem(_ context.Context, productID string) ([]RawEntry, error) {
	f.record("add")
	if f.addFn != nil {
		return f.addFn(productID)
	}
	return nil, nil
}

func (f *fakeRemote) RemoveItem(_ context.Context, productID string) ([]RawEntry, error) {
	f.record("remove")
	if f.removeFn != nil {
		return f.removeFn(productID)
	}
	return nil, nil
}

func (f *fakeRemote) MergeWishlist(_ context.Context, productIDs []string) ([]RawEntry, error) {
	f.record("merge")
	if f.mergeFn != nil {
		return f.mergeFn(productIDs)
	}
	return nil, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testProduct(id string, price float64) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Image: "/images/" + id + ".jpg", Price: price}
}

func rawEntry(productID string, price float64) RawEntry {
	return RawEntry{MongoID: catalog.FlexID(productID), Name: "Product " + productID, Price: &price}
}

func TestToggleGuestRequiresAuthWithoutMutation(t *testing.T) {
	remote := &fakeRemote{}
	engine := NewEngine(remote, newMemStore(), quietLogger())

	err := engine.Toggle(context.Background(), testProduct("p1", 100))
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, engine.Items())
	assert.Zero(t, remote.callCount())
}

func TestToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{
		addFn: func(productID string) ([]RawEntry, error) {
			return []RawEntry{rawEntry(productID, 100)}, nil
		},
		removeFn: func(string) ([]RawEntry, error) {
			return []RawEntry{}, nil
		},
	}
	engine := NewEngine(remote, newMemStore(), quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, true))

	require.NoError(t, engine.Toggle(ctx, testProduct("p1", 100)))
	assert.True(t, engine.IsMember("p1"))
	assert.Equal(t, 1, engine.Count())

	require.NoError(t, engine.Toggle(ctx, testProduct("p1", 100)))
	assert.False(t, engine.IsMember("p1"))
	assert.Zero(t, engine.Count())
}

func TestToggleFailureReconcilesByRefetch(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{
		fetchFn: func() ([]RawEntry, error) {
			return []RawEntry{rawEntry("p1", 100)}, nil
		},
		addFn: func(string) ([]RawEntry, error) {
			return nil, errors.New("backend down")
		},
	}
	engine := NewEngine(remote, newMemStore(), quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, true))
	require.True(t, engine.IsMember("p1"))

	// optimistic add of p2 fails; the refetched server list is authoritative
	err := engine.Toggle(ctx, testProduct("p2", 50))
	require.Error(t, err)

	assert.True(t, engine.IsMember("p1"))
	assert.False(t, engine.IsMember("p2"))
}

func TestRemoveAuthedRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{
		fetchFn: func() ([]RawEntry, error) {
			return []RawEntry{rawEntry("p1", 100), rawEntry("p2", 50)}, nil
		},
		removeFn: func(string) ([]RawEntry, error) {
			return nil, errors.New("backend down")
		},
	}
	engine := NewEngine(remote, newMemStore(), quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, true))
	before := engine.Items()

	require.Error(t, engine.Remove(ctx, "p1"))
	assert.Equal(t, before, engine.Items())
}

func TestRemoveGuestIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	entries := []Entry{{ProductID: "p1", Name: "Product p1", Price: 100}}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	store.data[GuestSnapshotKey] = data

	remote := &fakeRemote{}
	engine := NewEngine(remote, store, quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, false))
	require.True(t, engine.IsMember("p1"))

	require.NoError(t, engine.Remove(ctx, "p1"))
	assert.False(t, engine.IsMember("p1"))
	assert.Zero(t, remote.callCount())

	// persisted snapshot reflects the removal
	var persisted []Entry
	require.NoError(t, json.Unmarshal(store.data[GuestSnapshotKey], &persisted))
	assert.Empty(t, persisted)
}

func TestSyncAuthStateMergesGuestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	entries := []Entry{{ProductID: "p1"}, {ProductID: "p2"}}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	store.data[GuestSnapshotKey] = data

	var mergedIDs []string
	remote := &fakeRemote{
		mergeFn: func(productIDs []string) ([]RawEntry, error) {
			mergedIDs = productIDs
			return []RawEntry{rawEntry("p1", 100), rawEntry("p2", 50), rawEntry("p3", 25)}, nil
		},
	}
	engine := NewEngine(remote, store, quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, true))

	assert.Equal(t, []string{"p1", "p2"}, mergedIDs)
	assert.Equal(t, 3, engine.Count())
	assert.Empty(t, store.data[GuestSnapshotKey], "guest snapshot is consumed once")
}

func TestSyncAuthStateMergeFailureFallsBackToFetch(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	data, err := json.Marshal([]Entry{{ProductID: "p1"}})
	require.NoError(t, err)
	store.data[GuestSnapshotKey] = data

	remote := &fakeRemote{
		mergeFn: func([]string) ([]RawEntry, error) {
			return nil, errors.New("merge unavailable")
		},
		fetchFn: func() ([]RawEntry, error) {
			return []RawEntry{rawEntry("p9", 10)}, nil
		},
	}
	engine := NewEngine(remote, store, quietLogger())
	require.NoError(t, engine.SyncAuthState(ctx, true))

	assert.True(t, engine.IsMember("p9"))
	assert.NotEmpty(t, store.data[GuestSnapshotKey], "snapshot retained for a later merge")
}

func TestSyncAuthStateCorruptSnapshotDegradesToEmpty(t *testing.T) {
	store := newMemStore()
	store.data[GuestSnapshotKey] = []byte("][")

	engine := NewEngine(&fakeRemote{}, store, quietLogger())
	require.NoError(t, engine.SyncAuthState(context.Background(), false))
	assert.Empty(t, engine.Items())
}

func TestRemoveUnknownProductIsNoOp(t *testing.T) {
	remote := &fakeRemote{}
	engine := NewEngine(remote, newMemStore(), quietLogger())

	require.NoError(t, engine.Remove(context.Background(), "ghost"))
	assert.Zero(t, remote.callCount())
}
