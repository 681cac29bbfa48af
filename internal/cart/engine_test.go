package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

type recordingStore struct {
	m      sync.Mutex
	lines  []domain.CartLine
	saves  int
	clears int
	err    error
}

func (s *recordingStore) Load(context.Context) ([]domain.CartLine, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return domain.CloneLines(s.lines), nil
}

func (s *recordingStore) Save(_ context.Context, lines []domain.CartLine) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = domain.CloneLines(lines)
	s.saves++
	return nil
}

func (s *recordingStore) Clear(context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = nil
	s.clears++
	return nil
}

func (s *recordingStore) saved() []domain.CartLine {
	s.m.Lock()
	defer s.m.Unlock()
	return domain.CloneLines(s.lines)
}

func TestAddItem_MergesQuantityForSameProduct(t *testing.T) {
	store := &recordingStore{}
	engine := NewEngine(store)
	ctx := context.Background()

	line := domain.CartLine{ProductID: "A", Name: "Turbina GT28", Price: 10.00, Quantity: 1}
	require.NoError(t, engine.AddItem(ctx, line))
	require.NoError(t, engine.AddItem(ctx, line))

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItem_RejectsMissingProductID(t *testing.T) {
	engine := NewEngine(&recordingStore{})

	err := engine.AddItem(context.Background(), domain.CartLine{Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.True(t, engine.IsEmpty())
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	engine := NewEngine(&recordingStore{})

	require.NoError(t, engine.AddItem(context.Background(), domain.CartLine{ProductID: "A"}))

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	engine := NewEngine(&recordingStore{})
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Quantity: 2}))
	engine.SetQuantity(ctx, "A", 0)

	assert.True(t, engine.IsEmpty())
}

func TestSetQuantity_ClampsToUpperBound(t *testing.T) {
	engine := NewEngine(&recordingStore{})
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Quantity: 1}))
	engine.SetQuantity(ctx, "A", 500)

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, maxQuantityPerLine, lines[0].Quantity)
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	store := &recordingStore{}
	engine := NewEngine(store)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Quantity: 1}))
	savesBefore := store.saves

	engine.RemoveItem(ctx, "missing")

	assert.Len(t, engine.Lines(), 1)
	assert.Equal(t, savesBefore, store.saves, "a no-op must not persist")
}

func TestTotals(t *testing.T) {
	engine := NewEngine(&recordingStore{})
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Price: 10.00, Quantity: 2}))
	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "B", Price: 5.00, Quantity: 1}))

	totals := engine.Totals()
	assert.Equal(t, 3, totals.ItemCount)
	assert.InDelta(t, 25.00, totals.Subtotal, 0.001)
}

func TestMutationsPersistAfterEveryChange(t *testing.T) {
	store := &recordingStore{}
	engine := NewEngine(store)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Quantity: 1}))
	engine.SetQuantity(ctx, "A", 4)
	engine.RemoveItem(ctx, "A")

	assert.Equal(t, 3, store.saves)
	assert.Empty(t, store.saved())
}

func TestUnavailableStoreKeepsInMemoryCartAuthoritative(t *testing.T) {
	store := &recordingStore{err: errors.New("quota exceeded")}
	engine := NewEngine(store)
	ctx := context.Background()

	require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Price: 2.50, Quantity: 2}))

	lines := engine.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestHydrate_LoadsPersistedCart(t *testing.T) {
	store := &recordingStore{lines: []domain.CartLine{{ProductID: "A", Quantity: 2}}}
	engine := NewEngine(store)

	engine.Hydrate(context.Background())

	require.Len(t, engine.Lines(), 1)
	assert.False(t, engine.IsEmpty())
}

func TestRestore_ReplacesCartAndPersists(t *testing.T) {
	store := &recordingStore{}
	engine := NewEngine(store)
	ctx := context.Background()

	snapshot := []domain.CartLine{
		{ProductID: "A", Price: 10.00, Quantity: 2},
		{ProductID: "B", Price: 5.00, Quantity: 1},
	}
	engine.Restore(ctx, snapshot)

	assert.Equal(t, snapshot, engine.Lines())
	assert.Equal(t, snapshot, store.saved())
}

func TestCartHasAtMostOneLinePerProduct(t *testing.T) {
	engine := NewEngine(&recordingStore{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "A", Quantity: 1}))
		require.NoError(t, engine.AddItem(ctx, domain.CartLine{ProductID: "B", Quantity: 2}))
	}
	engine.SetQuantity(ctx, "B", 3)

	seen := map[string]bool{}
	total := 0
	for _, line := range engine.Lines() {
		require.False(t, seen[line.ProductID], "duplicate line for %s", line.ProductID)
		seen[line.ProductID] = true
		total += line.Quantity
	}
	assert.Equal(t, total, engine.Totals().ItemCount)
}
