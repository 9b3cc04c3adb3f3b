package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gracemedia/storefront/internal/catalog"
)

// BookCatalog is the read-only catalog surface the handlers need.
type BookCatalog interface {
	List() []catalog.Book
	Get(id string) (*catalog.Book, error)
}

type BooksHandler struct {
	books BookCatalog
}

func NewBooksHandler(books BookCatalog) *BooksHandler {
	return &BooksHandler{books: books}
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"books": h.books.List(),
	})
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}
