// internal/domain/wishlist/engine.go
package wishlist

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
	"github.com/sirupsen/logrus"
)

// RemoteStore is the slice of the storefront backend API the wishlist engine
// consumes. Implementations are session-scoped and calls are never issued for
// unauthenticated sessions.
type RemoteStore interface {
	FetchWishlist(ctx context.Context) ([]RawEntry, error)
	AddItem(ctx context.Context, productID string) ([]RawEntry, error)
	RemoveItem(ctx context.Context, productID string) ([]RawEntry, error)
	MergeWishlist(ctx context.Context, productIDs []string) ([]RawEntry, error)
}

// SnapshotStore persists the guest wishlist snapshot. Reads that fail degrade
// to an empty collection; writes are best-effort.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// Engine owns the wishlist entry set for one UI session. Membership toggling
// is authenticated-only; guests get an auth-required signal with no state
// change. Authenticated mutations are optimistic: a failed toggle reconciles
// by refetching the server's authoritative list rather than guessing.
type Engine struct {
	remote RemoteStore
	store  SnapshotStore
	log    *logrus.Entry

	mu      sync.Mutex
	entries []Entry
	authed  bool
	epoch   uint64
	loading bool
}

// NewEngine creates a wishlist engine with its collaborators. The engine
// starts empty and unauthenticated; call SyncAuthState to populate it.
func NewEngine(remote RemoteStore, store SnapshotStore, logger *logrus.Logger) *Engine {
	return &Engine{
		remote:  remote,
		store:   store,
		log:     logger.WithField("component", "wishlist"),
		entries: []Entry{},
	}
}

// Items returns a copy of the current wishlist entries in stable order.
func (e *Engine) Items() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Loading reports whether an initialize/sync cycle is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Count returns the number of wishlisted products.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// IsMember reports synchronously whether the product is wishlisted. It
// reflects local state only and never touches the network.
func (e *Engine) IsMember(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexOfLocked(productID) >= 0
}

// SyncAuthState runs the initialize/sync cycle for an authentication-state
// transition. On transition to authenticated a non-empty guest snapshot is
// merged into the server wishlist by product id (consume-once) and local
// state is replaced by the merged result; merge failure falls back to a plain
// fetch with the snapshot retained. On transition to guest the snapshot is
// loaded.
func (e *Engine) SyncAuthState(ctx context.Context, authenticated bool) error {
	e.mu.Lock()
	e.authed = authenticated
	e.epoch++
	epoch := e.epoch
	e.loading = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if e.epoch == epoch {
			e.loading = false
		}
		e.mu.Unlock()
	}()

	if !authenticated {
		guest := e.loadGuestSnapshot(ctx)
		e.mu.Lock()
		if e.epoch == epoch {
			e.entries = guest
		}
		e.mu.Unlock()
		return nil
	}

	guest := e.loadGuestSnapshot(ctx)
	var raw []RawEntry
	var err error
	if len(guest) > 0 {
		raw, err = e.remote.MergeWishlist(ctx, productIDsOf(guest))
		if err == nil {
			if clearErr := e.store.Clear(ctx, GuestSnapshotKey); clearErr != nil {
				e.log.WithError(clearErr).Warn("failed to clear guest wishlist snapshot after merge")
			}
		} else {
			e.log.WithError(err).Warn("guest wishlist merge failed, falling back to fetch")
			raw, err = e.remote.FetchWishlist(ctx)
		}
	} else {
		raw, err = e.remote.FetchWishlist(ctx)
	}
	if err != nil {
		e.log.WithError(err).Error("failed to sync wishlist")
		return err
	}

	e.commitServer(epoch, raw)
	return nil
}

// Toggle flips the product's wishlist membership. Guest sessions get
// ErrAuthRequired with no mutation. The flip is applied optimistically; a
// failed remote call reconciles by refetching the authoritative wishlist.
func (e *Engine) Toggle(ctx context.Context, product catalog.Product) error {
	e.mu.Lock()
	if !e.authed {
		e.mu.Unlock()
		return ErrAuthRequired
	}
	epoch := e.epoch
	idx := e.indexOfLocked(product.ID)
	adding := idx < 0
	if adding {
		e.entries = append(e.entries, Entry{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
		})
	} else {
		e.entries = append(e.entries[:idx:idx], e.entries[idx+1:]...)
	}
	e.mu.Unlock()

	var raw []RawEntry
	var err error
	if adding {
		raw, err = e.remote.AddItem(ctx, product.ID)
	} else {
		raw, err = e.remote.RemoveItem(ctx, product.ID)
	}
	if err != nil {
		e.log.WithError(err).WithField("product_id", product.ID).Warn("wishlist toggle failed, refetching")
		return e.reconcile(ctx, epoch, err)
	}
	e.commitServer(epoch, raw)
	return nil
}

// Remove deletes the product's entry. Guest removal is local-only and always
// succeeds; authenticated removal is optimistic with rollback on failure.
func (e *Engine) Remove(ctx context.Context, productID string) error {
	e.mu.Lock()
	idx := e.indexOfLocked(productID)
	if idx < 0 {
		e.mu.Unlock()
		return nil
	}
	removed := e.entries[idx]
	e.entries = append(e.entries[:idx:idx], e.entries[idx+1:]...)

	if !e.authed {
		e.persistGuestLocked(ctx)
		e.mu.Unlock()
		return nil
	}
	epoch := e.epoch
	e.mu.Unlock()

	raw, err := e.remote.RemoveItem(ctx, productID)
	if err != nil {
		e.mu.Lock()
		if e.epoch == epoch {
			e.entries = insertAt(e.entries, idx, removed)
		}
		e.mu.Unlock()
		e.log.WithError(err).WithField("product_id", productID).Warn("wishlist remove failed, rolled back")
		return err
	}
	e.commitServer(epoch, raw)
	return nil
}

// reconcile replaces local state with a fresh server fetch after a failed
// mutation. The original mutation error is returned; a refetch failure is
// logged and the optimistic state stands until the next sync.
func (e *Engine) reconcile(ctx context.Context, epoch uint64, cause error) error {
	raw, err := e.remote.FetchWishlist(ctx)
	if err != nil {
		e.log.WithError(err).Error("wishlist reconcile fetch failed")
		return cause
	}
	e.commitServer(epoch, raw)
	return cause
}

// commitServer replaces local state with the server's canonical entry set,
// unless the session has transitioned since the call was issued.
func (e *Engine) commitServer(epoch uint64, raw []RawEntry) {
	entries := NormalizeEntries(raw)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch {
		e.log.WithField("epoch", epoch).Debug("discarding stale wishlist response")
		return
	}
	e.entries = entries
}

// persistGuestLocked writes the guest snapshot best-effort. Callers hold the
// engine lock and are unauthenticated.
func (e *Engine) persistGuestLocked(ctx context.Context) {
	data, err := json.Marshal(e.entries)
	if err != nil {
		e.log.WithError(err).Warn("failed to encode guest wishlist snapshot")
		return
	}
	if err := e.store.Save(ctx, GuestSnapshotKey, data); err != nil {
		e.log.WithError(err).Warn("failed to persist guest wishlist snapshot")
	}
}

// loadGuestSnapshot reads and normalizes the guest snapshot. Corrupt or
// missing data degrades to an empty collection.
func (e *Engine) loadGuestSnapshot(ctx context.Context) []Entry {
	data, err := e.store.Load(ctx, GuestSnapshotKey)
	if err != nil {
		e.log.WithError(err).Warn("failed to read guest wishlist snapshot")
		return []Entry{}
	}
	if len(data) == 0 {
		return []Entry{}
	}
	var raw []RawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		e.log.WithError(err).Warn("discarding corrupt guest wishlist snapshot")
		return []Entry{}
	}
	return NormalizeEntries(raw)
}

func (e *Engine) indexOfLocked(productID string) int {
	for i := range e.entries {
		if e.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func productIDsOf(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ProductID
	}
	return ids
}

func insertAt(entries []Entry, idx int, entry Entry) []Entry {
	if idx < 0 || idx > len(entries) {
		return append(entries, entry)
	}
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries[:idx]...)
	out = append(out, entry)
	out = append(out, entries[idx:]...)
	return out
}
