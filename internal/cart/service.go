package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gracemedia/storefront/internal/catalog"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMaxStockReached = errors.New("maximum stock reached for this book")
	ErrOutOfStock      = errors.New("book is out of stock")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// Catalog is the read surface the cart needs from the book catalog.
type Catalog interface {
	Get(id string) (*catalog.Book, error)
}

type Service struct {
	repo            Repository
	cache           Cache
	books           Catalog
	defaultCurrency string
	sfg             singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache, books Catalog, defaultCurrency string) *Service {
	return &Service{
		repo:            repo,
		cache:           cache,
		books:           books,
		defaultCurrency: defaultCurrency,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			return &Cart{
				UserID:    userID,
				Currency:  s.defaultCurrency,
				Lines:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// Fill the cache before returning. Doing it synchronously keeps
		// the cached bytes a snapshot of the unmutated cart and cannot
		// land after a later persist has invalidated the key.
		if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	// Singleflight hands the same result to every concurrent caller, and
	// the cache may hold the stored pointer too. Each caller gets its own
	// copy so the mutating paths never write into shared line storage.
	return v.(*Cart).Clone(), nil
}

// AddItem adds one unit of a book to the cart. An existing line gets
// quantity+1 unless that would exceed stock; a new line starts at
// quantity 1, priced in the cart's selected currency.
func (s *Service) AddItem(ctx context.Context, userID, bookID string) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := cart.Find(bookID); i >= 0 {
		if cart.Lines[i].Quantity+1 > cart.Lines[i].Stock {
			return nil, ErrMaxStockReached
		}
		cart.Lines[i].Quantity++
		return cart, s.persist(ctx, cart)
	}

	book, err := s.books.Get(bookID)
	if err != nil {
		return nil, err
	}
	if book.Stock < 1 {
		return nil, ErrOutOfStock
	}
	price, err := book.PriceFor(cart.Currency)
	if err != nil {
		return nil, err
	}

	cart.Lines = append(cart.Lines, Line{
		BookID:   book.ID,
		Title:    book.Title,
		Author:   book.Author,
		Price:    price,
		Quantity: 1,
		Stock:    book.Stock,
		ImageURL: book.ImageURL,
	})
	return cart, s.persist(ctx, cart)
}

// UpdateQuantity adjusts a line's quantity by delta, clamped to the
// book's stock. A resulting quantity of zero or less removes the line;
// zero-quantity lines are never persisted.
func (s *Service) UpdateQuantity(ctx context.Context, userID, bookID string, delta int) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.Find(bookID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	next := cart.Lines[i].Quantity + delta
	switch {
	case next <= 0:
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	case next > cart.Lines[i].Stock:
		cart.Lines[i].Quantity = cart.Lines[i].Stock
	default:
		cart.Lines[i].Quantity = next
	}

	return cart, s.persist(ctx, cart)
}

// RemoveItem unconditionally deletes the line.
func (s *Service) RemoveItem(ctx context.Context, userID, bookID string) (*Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := cart.Find(bookID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)

	return cart, s.persist(ctx, cart)
}

// Clear deletes the cart entirely, e.g. after checkout completes.
func (s *Service) Clear(ctx context.Context, userID string) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// SetCurrency re-prices every line by catalog lookup of the
// currency-specific price, preserving quantities. Switching to the
// current currency is a no-op. Lines whose book is no longer in the
// catalog keep their old price; their ids are returned so callers can
// surface the stale prices.
func (s *Service) SetCurrency(ctx context.Context, userID, currency string) (*Cart, []string, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if cart.Currency == currency {
		return cart, nil, nil
	}
	if currency != catalog.CurrencyINR && currency != catalog.CurrencyUSD {
		return nil, nil, catalog.ErrUnsupportedCurrency
	}

	var stale []string
	for i := range cart.Lines {
		book, errGet := s.books.Get(cart.Lines[i].BookID)
		if errGet != nil {
			log.Printf("currency switch: book %s not found, price left unchanged", cart.Lines[i].BookID)
			stale = append(stale, cart.Lines[i].BookID)
			continue
		}
		price, errPrice := book.PriceFor(currency)
		if errPrice != nil {
			return nil, nil, errPrice
		}
		cart.Lines[i].Price = price
	}
	cart.Currency = currency

	if err := s.persist(ctx, cart); err != nil {
		return nil, nil, err
	}
	return cart, stale, nil
}

// persist writes the full cart through to storage and invalidates the
// cache. One write per discrete mutation, no debouncing.
func (s *Service) persist(ctx context.Context, cart *Cart) error {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return err
	}

	s.invalidateCache(cart.UserID)
	return nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
