package catalog

import "sync"

// Store holds the loaded catalog in memory. Reads dominate; writes
// only happen on load/reload.
type Store struct {
	mu    sync.RWMutex
	books map[string]Book
	order []string
}

// NewStore creates a store holding the given books.
func NewStore(books []Book) *Store {
	s := &Store{
		books: make(map[string]Book, len(books)),
		order: make([]string, 0, len(books)),
	}
	for _, b := range books {
		s.books[b.ID] = b
		s.order = append(s.order, b.ID)
	}
	return s
}

// Get returns the book with the given id.
func (s *Store) Get(id string) (*Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &b, nil
}

// List returns all books in load order.
func (s *Store) List() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Book, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.books[id])
	}
	return result
}

// PriceFor returns the price of a book in the given currency.
func (s *Store) PriceFor(id, currency string) (float64, error) {
	b, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return b.PriceFor(currency)
}

// Replace swaps the catalog contents, used when the book list is reloaded.
func (s *Store) Replace(books []Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = make(map[string]Book, len(books))
	s.order = s.order[:0]
	for _, b := range books {
		s.books[b.ID] = b
		s.order = append(s.order, b.ID)
	}
}
