package cart

import (
	"errors"
	"fmt"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
)

// ErrLineNotFound is returned when a quantity update or removal targets a
// product that is not in the cart.
var ErrLineNotFound = errors.New("cart: line not found")

// Service owns all cart mutations. Every mutation is persisted to the Store
// before returning, so a crashed process never loses more than the call in
// flight.
type Service struct {
	store Store
}

// NewService builds a cart Service on top of the given Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the cart stored under key; missing keys yield an empty cart.
func (s *Service) Get(key string) models.Cart {
	c, _ := s.store.Get(key)
	return c
}

// AddItem adds one unit of product to the cart under key. If a line for the
// product already exists its quantity is incremented; otherwise a new line is
// appended with quantity 1.
func (s *Service) AddItem(key string, product models.Product) (models.Cart, error) {
	c := s.Get(key)

	if i := c.Find(product.ID); i >= 0 {
		c.Lines[i].Quantity++
	} else {
		c.Lines = append(c.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Category:  product.Category,
			Image:     product.Image,
			Quantity:  1,
		})
	}

	if err := s.store.Put(key, c); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

// UpdateQuantity replaces the quantity of the line for productID. A quantity
// of zero removes the line. There is no upper clamp; checkout validates
// against live stock.
func (s *Service) UpdateQuantity(key string, productID uint, qty int) (models.Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(key, productID)
	}

	c := s.Get(key)
	i := c.Find(productID)
	if i < 0 {
		return c, fmt.Errorf("%w: product %d", ErrLineNotFound, productID)
	}
	c.Lines[i].Quantity = qty

	if err := s.store.Put(key, c); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

// RemoveItem deletes the line for productID from the cart under key.
func (s *Service) RemoveItem(key string, productID uint) (models.Cart, error) {
	c := s.Get(key)
	i := c.Find(productID)
	if i < 0 {
		return c, fmt.Errorf("%w: product %d", ErrLineNotFound, productID)
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)

	if err := s.store.Put(key, c); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

// Clear drops the cart under key entirely (successful checkout, mainly).
func (s *Service) Clear(key string) error {
	return s.store.Delete(key)
}

// MergeOnLogin folds the guest cart into the user cart when an identity
// transitions from unauthenticated to authenticated. Guest lines come first,
// then user lines; lines sharing a ProductID collapse into one with their
// quantities summed, so the merge is commutative on quantity. The merged cart
// is written under the user key and the guest key is cleared.
//
// Logout deliberately has no counterpart here: stored carts are left alone,
// which is what preserves a pre-existing guest cart across a login/logout
// round trip.
func (s *Service) MergeOnLogin(guestKey, userKey string) (models.Cart, error) {
	guest := s.Get(guestKey)
	user := s.Get(userKey)

	merged := models.Cart{}
	for _, line := range append(guest.Lines, user.Lines...) {
		if i := merged.Find(line.ProductID); i >= 0 {
			merged.Lines[i].Quantity += line.Quantity
			continue
		}
		merged.Lines = append(merged.Lines, line)
	}

	if err := s.store.Put(userKey, merged); err != nil {
		return models.Cart{}, err
	}
	if err := s.store.Delete(guestKey); err != nil {
		// The merged cart is already safe under the user key; a stale guest
		// key only risks re-merging the same lines, so log and move on.
		logger.Warn("cart: clearing guest key failed", "key", guestKey, "error", err)
	}
	return merged, nil
}
