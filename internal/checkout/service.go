package checkout

import (
	"context"

	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/gateway"
	"github.com/gracemedia/storefront/internal/orders"
	"github.com/gracemedia/storefront/internal/pricing"
)

// CartService is the slice of the cart the orchestrator needs.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// Gateways resolves the payment processor for a currency.
type Gateways interface {
	ForCurrency(currency string) (gateway.Gateway, error)
}

// OrderStore persists completed orders.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *orders.Order) error
}

// Outbox queues best-effort side effects (invoice, email) for async
// delivery.
type Outbox interface {
	Insert(ctx context.Context, eventType string, payload []byte) error
}

type Service struct {
	repo     Repository
	cart     CartService
	gateways Gateways
	orders   OrderStore
	outbox   Outbox
	pricing  pricing.Config
	newTRN   func() string
}

func NewService(repo Repository, cartSvc CartService, gateways Gateways, orderStore OrderStore, outbox Outbox, pricingCfg pricing.Config) *Service {
	return &Service{
		repo:     repo,
		cart:     cartSvc,
		gateways: gateways,
		orders:   orderStore,
		outbox:   outbox,
		pricing:  pricingCfg,
		newTRN:   NewTRN,
	}
}
