package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/atunesdelpacifico/storefront/pkg/localstore"
)

// Engine owns one shopper's cart. Mutations are applied and persisted under
// a single mutex, so for any sequence of calls the persisted copy reflects
// the last-invoked mutation, never an earlier write that finished late.
type Engine struct {
	mu     sync.Mutex
	store  localstore.Store
	pricer Pricer
	log    *slog.Logger

	identity string
	items    []LineItem
}

// NewEngine creates an engine with no identity bound. Mutations are refused
// until Bind is called with an authenticated identity.
func NewEngine(store localstore.Store, pricer Pricer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:  store,
		pricer: pricer,
		log:    log,
	}
}

// Bind attaches the engine to an authenticated identity and restores that
// identity's persisted cart, starting empty when none exists. A corrupt
// stored entry is discarded rather than partially trusted.
func (e *Engine) Bind(ctx context.Context, identity string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.identity = identity
	e.items = nil

	raw, ok, err := e.store.Get(ctx, localstore.CartKey(identity))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if !ok {
		return nil
	}

	var stored Cart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		e.log.Warn("discarding corrupt stored cart", "identity", identity, "error", err)
		_ = e.store.Remove(ctx, localstore.CartKey(identity))
		return nil
	}
	e.items = stored.Items
	return nil
}

// Unbind drops the in-memory cart and identity. The persisted entry is left
// intact so the same identity sees its cart again on next login.
func (e *Engine) Unbind() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.identity = ""
	e.items = nil
}

// Identity returns the currently bound identity, or "" when none is bound.
func (e *Engine) Identity() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// AddItem adds quantity units of (productID, variantKey) to the cart. When a
// matching line exists its quantity is incremented and its stored unit price
// and batch are left untouched; first write wins for both, so units already
// added are never retroactively repriced or rebatched. The updated cart is
// persisted before returning.
func (e *Engine) AddItem(ctx context.Context, productID, variantKey string, unitPrice decimal.Decimal, quantity int, batch *BatchRef) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity == "" {
		return e.snapshotLocked(), ErrNotAuthenticated
	}
	if quantity < 1 {
		return e.snapshotLocked(), ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return e.snapshotLocked(), ErrNegativePrice
	}

	if i := (Cart{Items: e.items}).find(productID, variantKey); i >= 0 {
		line := e.items[i]
		newQuantity := line.Quantity + quantity
		if line.Batch != nil && newQuantity > line.Batch.Available {
			return e.snapshotLocked(), &BatchStockError{
				BatchCode: line.Batch.Code,
				Available: line.Batch.Available,
				Requested: newQuantity,
			}
		}
		e.items[i].Quantity = newQuantity
		return e.snapshotLocked(), e.persistLocked(ctx)
	}

	if batch != nil && quantity > batch.Available {
		return e.snapshotLocked(), &BatchStockError{
			BatchCode: batch.Code,
			Available: batch.Available,
			Requested: quantity,
		}
	}

	item := LineItem{
		ProductID:  productID,
		VariantKey: variantKey,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
	}
	if batch != nil {
		b := *batch
		item.Batch = &b
	}
	e.items = append(e.items, item)
	return e.snapshotLocked(), e.persistLocked(ctx)
}

// UpdateQuantity sets the matching line's quantity. A value of zero or below
// removes the line. A value above the line's batch availability fails with
// ErrInsufficientBatchStock and leaves the line unchanged.
func (e *Engine) UpdateQuantity(ctx context.Context, productID, variantKey string, newQuantity int) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity == "" {
		return e.snapshotLocked(), ErrNotAuthenticated
	}
	if newQuantity <= 0 {
		return e.removeLocked(ctx, productID, variantKey)
	}

	i := Cart{Items: e.items}.find(productID, variantKey)
	if i < 0 {
		return e.snapshotLocked(), nil
	}

	line := e.items[i]
	if line.Batch != nil && newQuantity > line.Batch.Available {
		return e.snapshotLocked(), &BatchStockError{
			BatchCode: line.Batch.Code,
			Available: line.Batch.Available,
			Requested: newQuantity,
		}
	}
	e.items[i].Quantity = newQuantity
	return e.snapshotLocked(), e.persistLocked(ctx)
}

// RemoveItem deletes the matching line. Removing an absent line is a no-op,
// not an error.
func (e *Engine) RemoveItem(ctx context.Context, productID, variantKey string) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity == "" {
		return e.snapshotLocked(), ErrNotAuthenticated
	}
	return e.removeLocked(ctx, productID, variantKey)
}

// Clear empties the cart and removes the persisted entry for the bound
// identity. It is invoked on successful checkout and on explicit clear.
func (e *Engine) Clear(ctx context.Context) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.identity == "" {
		return e.snapshotLocked(), ErrNotAuthenticated
	}

	e.items = nil
	if err := e.store.Remove(ctx, localstore.CartKey(e.identity)); err != nil {
		return e.snapshotLocked(), fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return e.snapshotLocked(), nil
}

// Cart returns a copy of the current cart.
func (e *Engine) Cart() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Summary returns the current monetary breakdown.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pricer.Summarize(Cart{OwnerIdentity: e.identity, Items: e.items})
}

// Snapshot freezes the cart and its breakdown for order submission.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return makeSnapshot(Cart{OwnerIdentity: e.identity, Items: e.items}, e.pricer)
}

func (e *Engine) removeLocked(ctx context.Context, productID, variantKey string) (Cart, error) {
	i := Cart{Items: e.items}.find(productID, variantKey)
	if i < 0 {
		return e.snapshotLocked(), nil
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	return e.snapshotLocked(), e.persistLocked(ctx)
}

// persistLocked writes the cart under the bound identity's key. A write
// failure is reported but does not roll back the in-memory mutation.
func (e *Engine) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(Cart{OwnerIdentity: e.identity, Items: e.items})
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := e.store.Set(ctx, localstore.CartKey(e.identity), string(raw)); err != nil {
		e.log.Warn("cart persist failed, in-memory state retained", "identity", e.identity, "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

func (e *Engine) snapshotLocked() Cart {
	return Cart{OwnerIdentity: e.identity, Items: e.items}.clone()
}
