package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCartNotFound
	}
	// Return a copy so the test observes persisted state, not aliasing
	cp := *m.cart
	cp.Lines = append([]Line(nil), m.cart.Lines...)
	return &cp, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *c
	cp.Lines = append([]Line(nil), c.Lines...)
	m.cart = &cp
	return nil
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *Cart
}

func (m *mockCache) Get(context.Context, string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.cart == nil {
		return nil, ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

type mockCatalog struct {
	books map[string]catalog.Book
}

func (m *mockCatalog) Get(id string) (*catalog.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return &b, nil
}

func newTestService() (*Service, *mockRepository) {
	repo := &mockRepository{}
	books := &mockCatalog{books: map[string]catalog.Book{
		"b1": {ID: "b1", Title: "The Upper Room", PriceINR: 100, PriceUSD: 3, Stock: 2},
		"b2": {ID: "b2", Title: "Daily Bread", PriceINR: 250, PriceUSD: 8, Stock: 5},
		"b3": {ID: "b3", Title: "Gone", PriceINR: 90, PriceUSD: 2, Stock: 0},
	}}
	return NewService(repo, &mockCache{}, books, catalog.CurrencyINR), repo
}

func TestAddItem_NewLine(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	cart, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, 100.0, cart.Lines[0].Price)
	assert.Equal(t, catalog.CurrencyINR, cart.Currency)
}

func TestAddItem_ExistingLineIncrements(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	cart, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestAddItem_MaxStockReached(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	// b1 stock is 2; third add must not mutate
	_, err = s.AddItem(ctx, "user1", "b1")
	assert.ErrorIs(t, err, ErrMaxStockReached)
	assert.Equal(t, 2, repo.cart.Lines[0].Quantity)
}

func TestAddItem_OutOfStock(t *testing.T) {
	s, _ := newTestService()

	_, err := s.AddItem(context.Background(), "user1", "b3")
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddItem_UnknownBook(t *testing.T) {
	s, _ := newTestService()

	_, err := s.AddItem(context.Background(), "user1", "nope")
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestUpdateQuantity_ClampsToStock(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	var cart *Cart
	for i := 0; i < 5; i++ {
		cart, err = s.UpdateQuantity(ctx, "user1", "b1", +1)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cart.Lines[0].Quantity) // stock is 2
}

func TestUpdateQuantity_DecrementToZeroRemovesLine(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	cart, err := s.UpdateQuantity(ctx, "user1", "b1", -1)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, repo.cart.Lines) // zero-quantity lines are never persisted
}

func TestUpdateQuantity_NeverBelowOneOtherwise(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b2")
	require.NoError(t, err)
	_, err = s.UpdateQuantity(ctx, "user1", "b2", +1)
	require.NoError(t, err)

	cart, err := s.UpdateQuantity(ctx, "user1", "b2", -1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	// Every persisted line keeps quantity >= 1
	for _, l := range cart.Lines {
		assert.GreaterOrEqual(t, l.Quantity, 1)
	}
}

func TestUpdateQuantity_UnknownItem(t *testing.T) {
	s, _ := newTestService()

	_, err := s.UpdateQuantity(context.Background(), "user1", "b1", +1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "user1", "b2")
	require.NoError(t, err)

	cart, err := s.RemoveItem(ctx, "user1", "b1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "b2", cart.Lines[0].BookID)
}

func TestSetCurrency_RepricesFromCatalog(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "user1", "b2")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "user1", "b2")
	require.NoError(t, err)

	cart, stale, err := s.SetCurrency(ctx, "user1", catalog.CurrencyUSD)
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Equal(t, catalog.CurrencyUSD, cart.Currency)

	// Quantities preserved, prices are the catalog's USD values
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, 3.0, cart.Lines[0].Price)
	assert.Equal(t, 2, cart.Lines[1].Quantity)
	assert.Equal(t, 8.0, cart.Lines[1].Price)
}

func TestSetCurrency_SameCurrencyIsNoOp(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	before := *repo.cart

	cart, stale, err := s.SetCurrency(ctx, "user1", catalog.CurrencyINR)
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Equal(t, before.UpdatedAt, repo.cart.UpdatedAt) // no persist happened
	assert.Equal(t, before.Lines, cart.Lines)
}

func TestSetCurrency_MissingBookKeepsOldPriceAndReportsIt(t *testing.T) {
	s, _ := newTestService()
	books := s.books.(*mockCatalog)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	delete(books.books, "b1")

	cart, stale, err := s.SetCurrency(ctx, "user1", catalog.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, stale)
	assert.Equal(t, 100.0, cart.Lines[0].Price) // old INR price kept
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestSetCurrency_Unsupported(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	_, _, err = s.SetCurrency(ctx, "user1", "EUR")
	assert.ErrorIs(t, err, catalog.ErrUnsupportedCurrency)
}

func TestClear(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "user1"))
	assert.Nil(t, repo.cart)

	// Clearing an already-empty cart is not an error
	require.NoError(t, s.Clear(ctx, "user1"))
}

// recordingCache keeps every pointer handed to Set so tests can check
// the cached cart is never aliased by the one callers go on to mutate.
type recordingCache struct {
	mockCache
	seen []*Cart
}

func (m *recordingCache) Set(ctx context.Context, userID string, cart *Cart) error {
	m.seen = append(m.seen, cart)
	return m.mockCache.Set(ctx, userID, cart)
}

func TestRemoveItem_DoesNotMutateCachedCart(t *testing.T) {
	repo := &mockRepository{}
	cache := &recordingCache{}
	books := &mockCatalog{books: map[string]catalog.Book{
		"b1": {ID: "b1", Title: "The Upper Room", PriceINR: 100, PriceUSD: 3, Stock: 2},
		"b2": {ID: "b2", Title: "Daily Bread", PriceINR: 250, PriceUSD: 8, Stock: 5},
	}}
	s := NewService(repo, cache, books, catalog.CurrencyINR)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCart(ctx, &Cart{
		UserID:   "user1",
		Currency: catalog.CurrencyINR,
		Lines: []Line{
			{BookID: "b1", Title: "The Upper Room", Price: 100, Quantity: 1, Stock: 2},
			{BookID: "b2", Title: "Daily Bread", Price: 250, Quantity: 1, Stock: 5},
		},
	}))

	// Cold cache: GetCart inside RemoveItem fills it, then the caller's
	// copy is resliced. The cart the cache received must stay intact.
	got, err := s.RemoveItem(ctx, "user1", "b1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)

	require.Len(t, cache.seen, 1)
	cached := cache.seen[0]
	assert.NotSame(t, got, cached)
	require.Len(t, cached.Lines, 2)
	assert.Equal(t, "b1", cached.Lines[0].BookID)
	assert.Equal(t, "b2", cached.Lines[1].BookID)
}

func TestGetCart_CacheHitReturnsIndependentCopy(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)

	first, err := s.GetCart(ctx, "user1")
	require.NoError(t, err)
	first.Lines[0].Quantity = 99 // caller scribbles on its copy

	second, err := s.GetCart(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Lines[0].Quantity)
}

func TestRoundTrip_PersistedCartRestoresExactLines(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "user1", "b1")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "user1", "b2")
	require.NoError(t, err)
	want, err := s.UpdateQuantity(ctx, "user1", "b2", +1)
	require.NoError(t, err)

	// Simulate a fresh session: cold cache, same repository
	s.cache = &mockCache{}
	got, err := s.GetCart(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, want.Lines, got.Lines)
	assert.Equal(t, want.Currency, got.Currency)
}
