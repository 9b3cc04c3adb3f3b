package catalog

import "errors"

// Common errors returned by the catalog store
var (
	ErrBookNotFound        = errors.New("book not found")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Currency codes the storefront sells in. Prices are looked up per
// currency, never converted.
const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Book is the canonical catalog item, normalized from the legacy
// book-list records at load time. Immutable once loaded; source of
// truth for pricing.
type Book struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	TitleTamil string  `json:"title_tamil,omitempty"`
	Author     string  `json:"author"`
	PriceINR   float64 `json:"price_inr"`
	PriceUSD   float64 `json:"price_usd"`
	Stock      int     `json:"stock"`
	ImageURL   string  `json:"image_url,omitempty"`
}

// PriceFor returns the book's price in the given currency.
func (b *Book) PriceFor(currency string) (float64, error) {
	switch currency {
	case CurrencyINR:
		return b.PriceINR, nil
	case CurrencyUSD:
		return b.PriceUSD, nil
	}
	return 0, ErrUnsupportedCurrency
}
