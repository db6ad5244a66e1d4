// internal/domain/cart/engine.go
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
	"github.com/sirupsen/logrus"
)

// RemoteStore is the slice of the storefront backend API the cart engine
// consumes. Implementations are session-scoped; all calls carry the session's
// credentials. Calls are never issued for unauthenticated sessions.
type RemoteStore interface {
	FetchCart(ctx context.Context) ([]RawCartLine, error)
	AddItem(ctx context.Context, productID, variantID string, quantity int) ([]RawCartLine, error)
	RemoveItem(ctx context.Context, productID, variantID string) ([]RawCartLine, error)
	UpdateItem(ctx context.Context, productID, variantID string, quantity int) ([]RawCartLine, error)
	ClearCart(ctx context.Context) error
	MergeCart(ctx context.Context, items []MergeItem) ([]RawCartLine, error)
	ValidatePromocode(ctx context.Context, code string) (*Promocode, error)
}

// SnapshotStore persists the guest cart snapshot. Reads that fail degrade to
// an empty collection; writes are best-effort.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// Engine owns the cart line collection for one UI session. Guest mutations
// are applied locally and persisted; authenticated mutations follow an
// optimistic snapshot/attempt/commit-or-revert protocol against the remote
// store, which is the single source of truth after every successful mutation.
//
// The engine does not serialize concurrent remote mutations to the same line;
// the last response to arrive wins. The epoch counter only discards responses
// that straddle an authentication transition.
type Engine struct {
	remote RemoteStore
	store  SnapshotStore
	log    *logrus.Entry

	mu      sync.Mutex
	items   []Line
	promo   *Promocode
	authed  bool
	epoch   uint64
	loading bool
}

// NewEngine creates a cart engine with its collaborators. The engine starts
// empty and unauthenticated; call SyncAuthState to populate it.
func NewEngine(remote RemoteStore, store SnapshotStore, logger *logrus.Logger) *Engine {
	return &Engine{
		remote: remote,
		store:  store,
		log:    logger.WithField("component", "cart"),
		items:  []Line{},
	}
}

// Items returns a copy of the current cart lines in stable order.
func (e *Engine) Items() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.items))
	copy(out, e.items)
	return out
}

// Promocode returns the currently held promocode, or nil.
func (e *Engine) Promocode() *Promocode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.promo == nil {
		return nil
	}
	p := *e.promo
	return &p
}

// Loading reports whether an initialize/sync cycle is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Count returns the total quantity across all lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, line := range e.items {
		total += line.Quantity
	}
	return total
}

// Totals derives the pricing summary of the current cart. It is pure: an
// ineligible promocode contributes no discount but is not detached here;
// detachment happens in the mutation path.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return computeTotals(e.items, e.promo)
}

// SyncAuthState runs the initialize/sync cycle for an authentication-state
// transition. On transition to authenticated a non-empty guest snapshot is
// merged into the server cart (consume-once) and local state is replaced by
// the server's merged result; merge failure falls back to a plain fetch with
// the snapshot retained. On transition to guest the snapshot is loaded and
// any held promocode is dropped.
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
			e.items = guest
			e.promo = nil
		}
		e.mu.Unlock()
		return nil
	}

	guest := e.loadGuestSnapshot(ctx)
	var raw []RawCartLine
	var err error
	if len(guest) > 0 {
		raw, err = e.remote.MergeCart(ctx, toMergeItems(guest))
		if err == nil {
			if clearErr := e.store.Clear(ctx, GuestSnapshotKey); clearErr != nil {
				e.log.WithError(clearErr).Warn("failed to clear guest cart snapshot after merge")
			}
		} else {
			e.log.WithError(err).Warn("guest cart merge failed, falling back to fetch")
			raw, err = e.remote.FetchCart(ctx)
		}
	} else {
		raw, err = e.remote.FetchCart(ctx)
	}
	if err != nil {
		e.log.WithError(err).Error("failed to sync cart")
		return err
	}

	e.commitServer(epoch, raw)
	return nil
}

// Add puts a product (optionally a specific variant) into the cart. Quantity
// defaults to 1. The request is rejected before any state change or network
// call when it exceeds the available stock.
func (e *Engine) Add(ctx context.Context, product catalog.Product, variant *catalog.Variant, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	stock := product.Stock
	price := product.Price
	variantID := ""
	var selected *SelectedVariant
	if variant != nil {
		stock = variant.Stock
		variantID = variant.ID
		if variant.Price > 0 {
			price = variant.Price
		}
		selected = &SelectedVariant{ID: variant.ID, SKU: variant.SKU, Color: variant.Color, Size: variant.Size}
	}

	if quantity > stock {
		return &StockError{Available: stock, Requested: quantity}
	}

	lineID := DeriveLineID(product.ID, variantID)

	e.mu.Lock()
	if !e.authed {
		defer e.mu.Unlock()
		for i := range e.items {
			if e.items[i].LineID != lineID {
				continue
			}
			next := e.items[i].Quantity + quantity
			if next > e.items[i].Stock {
				e.log.WithFields(logrus.Fields{"line_id": lineID, "stock": e.items[i].Stock}).
					Warn("add rejected: quantity would exceed stock")
				return &StockError{Available: e.items[i].Stock, Requested: next}
			}
			e.items[i].Quantity = next
			e.persistGuestLocked(ctx)
			return nil
		}
		e.items = append(e.items, Line{
			LineID:          lineID,
			ProductID:       product.ID,
			VariantID:       variantID,
			Name:            product.Name,
			Image:           product.Image,
			UnitPrice:       price,
			Quantity:        quantity,
			Stock:           stock,
			SelectedVariant: selected,
		})
		e.persistGuestLocked(ctx)
		return nil
	}
	epoch := e.epoch
	e.mu.Unlock()

	raw, err := e.remote.AddItem(ctx, product.ID, variantID, quantity)
	if err != nil {
		return err
	}
	e.commitServer(epoch, raw)
	return nil
}

// Remove deletes a line optimistically. For authenticated sessions a failed
// remote call restores the line at its original position.
func (e *Engine) Remove(ctx context.Context, lineID string) error {
	e.mu.Lock()
	idx := e.indexOfLocked(lineID)
	if idx < 0 {
		e.mu.Unlock()
		return nil
	}
	removed := e.items[idx]
	e.items = append(e.items[:idx:idx], e.items[idx+1:]...)

	if !e.authed {
		e.revalidatePromoLocked()
		e.persistGuestLocked(ctx)
		e.mu.Unlock()
		return nil
	}
	epoch := e.epoch
	e.mu.Unlock()

	raw, err := e.remote.RemoveItem(ctx, removed.ProductID, removed.VariantID)
	if err != nil {
		e.mu.Lock()
		if e.epoch == epoch {
			e.items = insertAt(e.items, idx, removed)
		}
		e.mu.Unlock()
		e.log.WithError(err).WithField("line_id", lineID).Warn("remove failed, rolled back")
		return err
	}
	e.commitServer(epoch, raw)
	return nil
}

// UpdateQuantity sets a line's quantity optimistically. A quantity below 1
// delegates to Remove; a quantity above the line's stock is rejected with no
// state change. For authenticated sessions a failed remote call restores the
// pre-update quantity.
func (e *Engine) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 1 {
		return e.Remove(ctx, lineID)
	}

	e.mu.Lock()
	idx := e.indexOfLocked(lineID)
	if idx < 0 {
		e.mu.Unlock()
		return nil
	}
	line := e.items[idx]
	if quantity > line.Stock {
		e.mu.Unlock()
		return &StockError{Available: line.Stock, Requested: quantity}
	}
	prev := line.Quantity
	e.items[idx].Quantity = quantity

	if !e.authed {
		e.revalidatePromoLocked()
		e.persistGuestLocked(ctx)
		e.mu.Unlock()
		return nil
	}
	epoch := e.epoch
	e.mu.Unlock()

	raw, err := e.remote.UpdateItem(ctx, line.ProductID, line.VariantID, quantity)
	if err != nil {
		e.mu.Lock()
		if e.epoch == epoch {
			if j := e.indexOfLocked(lineID); j >= 0 {
				e.items[j].Quantity = prev
			}
		}
		e.mu.Unlock()
		e.log.WithError(err).WithField("line_id", lineID).Warn("quantity update failed, rolled back")
		return err
	}
	e.commitServer(epoch, raw)
	return nil
}

// Clear empties the cart and drops the promocode unconditionally. For
// authenticated sessions the remote clear is best-effort: a failure is logged
// but never resurrects items.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.items = []Line{}
	e.promo = nil
	authed := e.authed
	if !authed {
		e.persistGuestLocked(ctx)
	}
	e.mu.Unlock()

	if authed {
		if err := e.remote.ClearCart(ctx); err != nil {
			e.log.WithError(err).Warn("remote cart clear failed")
		}
	}
	return nil
}

// ApplyPromocode validates a code against the remote store and holds the
// returned promocode. Promocodes are authenticated-only; guest sessions get
// ErrAuthRequired without any network call. A rejected code clears any held
// promocode and the validator's reason is returned verbatim.
func (e *Engine) ApplyPromocode(ctx context.Context, code string) (*Promocode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	e.mu.Lock()
	if !e.authed {
		e.mu.Unlock()
		return nil, ErrAuthRequired
	}
	epoch := e.epoch
	e.mu.Unlock()

	promo, err := e.remote.ValidatePromocode(ctx, code)
	if err != nil {
		e.mu.Lock()
		e.promo = nil
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	if e.epoch == epoch {
		e.promo = promo
	}
	e.mu.Unlock()
	return promo, nil
}

// RemovePromocode drops the held promocode. Local-only, never fails.
func (e *Engine) RemovePromocode() {
	e.mu.Lock()
	e.promo = nil
	e.mu.Unlock()
}

// commitServer replaces local state with the server's canonical line set,
// unless the session has transitioned since the call was issued.
func (e *Engine) commitServer(epoch uint64, raw []RawCartLine) {
	lines := NormalizeLines(raw)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch {
		e.log.WithField("epoch", epoch).Debug("discarding stale cart response")
		return
	}
	e.items = lines
	e.revalidatePromoLocked()
}

// revalidatePromoLocked detaches the held promocode when the subtotal has
// dropped below its minimum purchase. Runs after every cart-mutating
// operation so Totals can stay pure.
func (e *Engine) revalidatePromoLocked() {
	if e.promo == nil {
		return
	}
	if subtotalOf(e.items) < e.promo.MinPurchase {
		e.log.WithFields(logrus.Fields{
			"code":         e.promo.Code,
			"min_purchase": e.promo.MinPurchase,
		}).Info("promocode detached: subtotal below minimum purchase")
		e.promo = nil
	}
}

// persistGuestLocked writes the guest snapshot best-effort. Callers hold the
// engine lock and are unauthenticated.
func (e *Engine) persistGuestLocked(ctx context.Context) {
	data, err := json.Marshal(e.items)
	if err != nil {
		e.log.WithError(err).Warn("failed to encode guest cart snapshot")
		return
	}
	if err := e.store.Save(ctx, GuestSnapshotKey, data); err != nil {
		e.log.WithError(err).Warn("failed to persist guest cart snapshot")
	}
}

// loadGuestSnapshot reads and normalizes the guest snapshot. Corrupt or
// missing data degrades to an empty collection.
func (e *Engine) loadGuestSnapshot(ctx context.Context) []Line {
	data, err := e.store.Load(ctx, GuestSnapshotKey)
	if err != nil {
		e.log.WithError(err).Warn("failed to read guest cart snapshot")
		return []Line{}
	}
	if len(data) == 0 {
		return []Line{}
	}
	var raw []RawCartLine
	if err := json.Unmarshal(data, &raw); err != nil {
		e.log.WithError(err).Warn("discarding corrupt guest cart snapshot")
		return []Line{}
	}
	return NormalizeLines(raw)
}

func (e *Engine) indexOfLocked(lineID string) int {
	for i := range e.items {
		if e.items[i].LineID == lineID {
			return i
		}
	}
	return -1
}

func computeTotals(items []Line, promo *Promocode) Totals {
	totals := Totals{Subtotal: subtotalOf(items)}
	if promo != nil {
		totals.DiscountAmount = promo.DiscountFor(totals.Subtotal)
	}
	totals.Total = totals.Subtotal - totals.DiscountAmount
	if totals.Total < 0 {
		totals.Total = 0
	}
	return totals
}

func subtotalOf(items []Line) float64 {
	var subtotal float64
	for _, line := range items {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	return subtotal
}

func toMergeItems(lines []Line) []MergeItem {
	items := make([]MergeItem, len(lines))
	for i, line := range lines {
		items[i] = MergeItem{ProductID: line.ProductID, VariantID: line.VariantID, Quantity: line.Quantity}
	}
	return items
}

func insertAt(lines []Line, idx int, line Line) []Line {
	if idx < 0 || idx > len(lines) {
		return append(lines, line)
	}
	out := make([]Line, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, line)
	out = append(out, lines[idx:]...)
	return out
}
