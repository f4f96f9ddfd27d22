package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the storefront services. Controllers map
// these onto HTTP statuses; nothing here knows about HTTP.
var (
	ErrNotAuthenticated   = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted for this role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart is empty, nothing to check out")
	ErrIncompleteAddress  = errors.New("shipping address is incomplete")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrIllegalTransition  = errors.New("illegal order status transition")
	ErrUserExists         = errors.New("user name or email already registered")
)

// InsufficientStockError names the offending product and quantities so the
// operator can act on it (restock, edit the order). It fails the whole
// checkout or transition; there is no partial fulfilment.
type InsufficientStockError struct {
	ProductID uint
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err carries an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
