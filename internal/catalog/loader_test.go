package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NormalizesLegacyFields(t *testing.T) {
	data := []byte(`[
		{"id": "b1", "BookTitle": "The Upper Room", "BookTitleTamil": "மேல் அறை", "Author": "S. Paul", "amount": 120, "PriceUSD": 4.99, "Stock": 15, "Bookimg": "upper-room.jpg"},
		{"id": "b2", "BookTitle": "Daily Bread", "Author": "J. David", "BookPrice": "250.00", "PriceUSD": "8.50", "Stock": "3"}
	]`)

	books, err := Load(data)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "b1", books[0].ID)
	assert.Equal(t, "The Upper Room", books[0].Title)
	assert.Equal(t, "மேல் அறை", books[0].TitleTamil)
	assert.Equal(t, 120.0, books[0].PriceINR)
	assert.Equal(t, 4.99, books[0].PriceUSD)
	assert.Equal(t, 15, books[0].Stock)
	assert.Equal(t, "upper-room.jpg", books[0].ImageURL)

	// BookPrice string fallback when amount is absent
	assert.Equal(t, 250.0, books[1].PriceINR)
	assert.Equal(t, 8.5, books[1].PriceUSD)
	assert.Equal(t, 3, books[1].Stock)
}

func TestLoad_AmountTakesPrecedenceOverBookPrice(t *testing.T) {
	data := []byte(`[{"id": "b1", "BookTitle": "X", "amount": 100, "BookPrice": 999, "Stock": 1}]`)

	books, err := Load(data)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 100.0, books[0].PriceINR)
}

func TestLoad_SkipsBadRecords(t *testing.T) {
	data := []byte(`[
		{"BookTitle": "no id", "amount": 10},
		{"id": "b1", "BookTitle": "no price"},
		{"id": "b2", "BookTitle": "ok", "amount": 50, "Stock": 2},
		{"id": "b2", "BookTitle": "duplicate", "amount": 60, "Stock": 2}
	]`)

	books, err := Load(data)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "b2", books[0].ID)
	assert.Equal(t, "ok", books[0].Title)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load([]byte(`{not json`))
	assert.Error(t, err)
}

func TestStore_GetAndList(t *testing.T) {
	store := NewStore([]Book{
		{ID: "b1", Title: "First", PriceINR: 100, PriceUSD: 2, Stock: 5},
		{ID: "b2", Title: "Second", PriceINR: 200, PriceUSD: 4, Stock: 1},
	})

	b, err := store.Get("b2")
	require.NoError(t, err)
	assert.Equal(t, "Second", b.Title)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrBookNotFound)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID)
	assert.Equal(t, "b2", list[1].ID)
}

func TestStore_PriceFor(t *testing.T) {
	store := NewStore([]Book{{ID: "b1", PriceINR: 100, PriceUSD: 2.5, Stock: 5}})

	inr, err := store.PriceFor("b1", CurrencyINR)
	require.NoError(t, err)
	assert.Equal(t, 100.0, inr)

	usd, err := store.PriceFor("b1", CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 2.5, usd)

	_, err = store.PriceFor("b1", "EUR")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = store.PriceFor("missing", CurrencyINR)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
