package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Books       *BooksHandler
	Cart        *CartHandler
	Checkout    *CheckoutHandler
	Donations   *DonationsHandler
	Orders      *OrdersHandler
	Submissions *SubmissionsHandler
}

// NewRouter assembles the full API surface.
func NewRouter(h Handlers, jwtSecret string, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(AuthMiddleware(jwtSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Books.List)
			r.Get("/{id}", h.Books.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{book_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{book_id}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.ClearCart)
			r.Put("/currency", h.Cart.SetCurrency)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Initiate)
			r.Get("/redirect", h.Checkout.PendingRedirect)
			r.Post("/{id}/confirm", h.Checkout.Confirm)
			r.Post("/{id}/cancel", h.Checkout.Cancel)
			r.Post("/{id}/fail", h.Checkout.Fail)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Post("/", h.Donations.Initiate)
			r.Post("/{id}/confirm", h.Donations.Confirm)
			r.Post("/{id}/cancel", h.Donations.Cancel)
			r.Post("/{id}/fail", h.Donations.Fail)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{trn}", h.Orders.GetByTRN)
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Post("/", h.Submissions.Create)
			r.Get("/{kind}", h.Submissions.ListByKind)
		})
	})

	return r
}
