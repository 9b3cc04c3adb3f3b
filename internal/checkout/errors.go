package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
	ErrSessionNotFound   = errors.New("checkout session not found")
)

// ValidationError carries the field→message map from customer details
// validation; Message surfaces the first error toast-style.
type ValidationError struct {
	Fields map[string]string
	First  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid customer details: %s", e.First)
}
