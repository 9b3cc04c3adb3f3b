package cart

import (
	"context"
	"errors"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCacheMiss    = errors.New("cache miss")
)

// Repository persists carts. Every mutation in the service writes the
// full cart through here, one write per discrete action, so a restart
// restores the exact prior state.
type Repository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	UpsertCart(ctx context.Context, cart *Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// Cache is a read-through cache in front of the repository. Consumers
// define this interface, not the Redis implementation.
type Cache interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, userID string, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}
