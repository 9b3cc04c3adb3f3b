package gateway

import (
	"sync"

	"github.com/gracemedia/storefront/internal/catalog"
)

// Registry resolves the gateway for a currency: INR pays through
// Razorpay, everything else through PayPal. Clients are constructed
// lazily and memoized per gateway, so a processor that is never used
// is never initialized.
type Registry struct {
	razorpay RazorpayConfig
	paypal   PayPalConfig

	mu       sync.Mutex
	gateways map[string]Gateway
}

func NewRegistry(razorpay RazorpayConfig, paypal PayPalConfig) *Registry {
	return &Registry{
		razorpay: razorpay,
		paypal:   paypal,
		gateways: make(map[string]Gateway),
	}
}

// ForCurrency returns the gateway handling the given currency, or
// ErrGatewayDisabled when the configured processor is turned off.
func (r *Registry) ForCurrency(currency string) (Gateway, error) {
	if currency == catalog.CurrencyINR {
		if !r.razorpay.Enabled {
			return nil, ErrGatewayDisabled
		}
		return r.get(NameRazorpay, func() Gateway { return NewRazorpay(r.razorpay) }), nil
	}

	if !r.paypal.Enabled {
		return nil, ErrGatewayDisabled
	}
	return r.get(NamePayPal, func() Gateway { return NewPayPal(r.paypal) }), nil
}

func (r *Registry) get(name string, build func() Gateway) Gateway {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gateways[name]; ok {
		return g
	}
	g := build()
	r.gateways[name] = g
	return g
}
