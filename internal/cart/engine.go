package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/FagneAlmeida/e-turboost.site/internal/cartstore"
	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

const maxQuantityPerLine = 99

var ErrInvalidProduct = errors.New("cart line needs a product id")

// Engine owns all cart mutation. It holds the in-memory cart and writes the
// whole value back to the store after every mutation, so navigating away
// right after a change loses nothing. Store failures are logged and
// tolerated; the in-memory cart stays authoritative for the session.
type Engine struct {
	mu    sync.Mutex
	store cartstore.Store
	lines []domain.CartLine
}

func NewEngine(store cartstore.Store) *Engine {
	return &Engine{store: store}
}

// Hydrate replaces the in-memory cart with the persisted slot. An
// unavailable store leaves the engine with an empty cart.
func (e *Engine) Hydrate(ctx context.Context) {
	lines, err := e.store.Load(ctx)
	if err != nil {
		log.Printf("cart store load error: %v", err)
		lines = nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = lines
}

// AddItem merges the line into the cart: an existing product gets its
// quantity incremented, a new product is appended. Quantity below 1 counts
// as 1.
func (e *Engine) AddItem(ctx context.Context, line domain.CartLine) error {
	if line.ProductID == "" {
		return ErrInvalidProduct
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	e.mu.Lock()
	if i := e.indexOf(line.ProductID); i >= 0 {
		e.lines[i].Quantity = clampQuantity(e.lines[i].Quantity + line.Quantity)
	} else {
		line.Quantity = clampQuantity(line.Quantity)
		e.lines = append(e.lines, line)
	}
	snapshot := domain.CloneLines(e.lines)
	e.mu.Unlock()

	e.persist(ctx, snapshot)
	return nil
}

// RemoveItem deletes the line if present; an absent product id is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, productID string) {
	e.mu.Lock()
	i := e.indexOf(productID)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	snapshot := domain.CloneLines(e.lines)
	e.mu.Unlock()

	e.persist(ctx, snapshot)
}

// SetQuantity replaces the line's quantity. Zero or below removes the line.
func (e *Engine) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(ctx, productID)
		return
	}

	e.mu.Lock()
	i := e.indexOf(productID)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.lines[i].Quantity = clampQuantity(quantity)
	snapshot := domain.CloneLines(e.lines)
	e.mu.Unlock()

	e.persist(ctx, snapshot)
}

// Clear empties the cart and the persisted slot. Called only after the
// server confirmed it accepted the order.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.lines = nil
	e.mu.Unlock()

	if err := e.store.Clear(ctx); err != nil {
		log.Printf("cart store clear error: %v", err)
	}
}

// Restore replaces the cart with a previously taken snapshot. Used to roll
// back after a failed submission.
func (e *Engine) Restore(ctx context.Context, lines []domain.CartLine) {
	snapshot := domain.CloneLines(lines)

	e.mu.Lock()
	e.lines = snapshot
	e.mu.Unlock()

	e.persist(ctx, domain.CloneLines(snapshot))
}

func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CloneLines(e.lines)
}

func (e *Engine) Totals() domain.CartTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.Totals(e.lines)
}

func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines) == 0
}

// indexOf must be called with e.mu held.
func (e *Engine) indexOf(productID string) int {
	for i, line := range e.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) persist(ctx context.Context, lines []domain.CartLine) {
	if err := e.store.Save(ctx, lines); err != nil {
		log.Printf("cart store save error: %v", err)
	}
}

func clampQuantity(q int) int {
	if q > maxQuantityPerLine {
		return maxQuantityPerLine
	}
	if q < 1 {
		return 1
	}
	return q
}
