package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/jobs"
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/config"
	"github.com/daliaibrahim58/greenmart/pkg/collection"
	"github.com/daliaibrahim58/greenmart/pkg/event"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/metrics"
	"github.com/daliaibrahim58/greenmart/pkg/queue"
	"gorm.io/gorm"
)

// Transient catalog reads during stock validation get this many extra
// attempts before the checkout fails.
const stockFetchRetries = 2

// EventOrderCreated is fired with the created *models.Order after checkout.
const EventOrderCreated = "order.created"

// CheckoutService converts a validated cart into a Pending order. Stock is
// validated here but NOT decremented; the decrement happens when an admin
// confirms the Pending transition, so the two validations can disagree if
// stock moves in between. That window is closed by the conditional UPDATE in
// the transition path, not here.
type CheckoutService struct {
	products ProductStore
	orders   OrderStore
	carts    *cart.Service
	accounts AccountStore

	backoff time.Duration // between stock-fetch retries
	now     func() time.Time
}

// NewCheckoutService wires the checkout over its collaborators.
func NewCheckoutService(products ProductStore, orders OrderStore, carts *cart.Service, accounts AccountStore) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		carts:    carts,
		accounts: accounts,
		backoff:  150 * time.Millisecond,
		now:      time.Now,
	}
}

// Checkout runs the full contract: authentication, address completeness,
// per-line stock validation, order creation, cart clearing. Any failure
// leaves the cart intact and creates no order.
func (s *CheckoutService) Checkout(ctx context.Context, identity Identity, cartKey string, address models.Address) (models.Order, error) {
	if !identity.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}
	if identity.IsAdmin() {
		// Admin accounts manage orders; they do not place them.
		return models.Order{}, ErrForbidden
	}

	if address.Street == "" || address.City == "" || address.Zip == "" ||
		address.Country == "" || address.Phone == "" {
		return models.Order{}, ErrIncompleteAddress
	}

	c := s.carts.Get(cartKey)
	if len(c.Lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	// Stock validation pass: every line checked against the live catalog,
	// whole checkout rejected on the first shortfall.
	for _, line := range c.Lines {
		product, err := s.fetchProduct(ctx, line.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("%w: product %d", ErrProductNotFound, line.ProductID)
		}
		if err != nil {
			return models.Order{}, fmt.Errorf("validate stock for product %d: %w", line.ProductID, err)
		}

		if line.Quantity > product.Stock {
			metrics.CheckoutFailures.WithLabelValues("insufficient_stock").Inc()
			return models.Order{}, &InsufficientStockError{
				ProductID: product.ID,
				Product:   product.Name,
				Requested: line.Quantity,
				Available: product.Stock,
			}
		}
	}

	taxRate := config.CheckoutTaxRate()
	subtotal := c.Subtotal()

	order := models.Order{
		Customer:      identity.UserName,
		Total:         round2(subtotal * (1 + taxRate)),
		Status:        models.StatusPending,
		StockReserved: false,
		Address:       address,
		Date:          models.OrderDate(s.now()),
		Items: collection.Map(c.Lines, func(l models.CartLine) models.OrderItem {
			return models.OrderItem{
				ProductID: l.ProductID,
				Name:      l.Name,
				Price:     l.Price,
				Quantity:  l.Quantity,
				Image:     l.Image,
				Category:  l.Category,
			}
		}),
	}

	if err := s.orders.Create(&order); err != nil {
		metrics.CheckoutFailures.WithLabelValues("server_error").Inc()
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.Clear(cartKey); err != nil {
		// Order exists; a lingering cart is an annoyance, not a failure.
		logger.Warn("checkout: clearing cart failed", "key", cartKey, "error", err)
	}

	metrics.OrdersCreated.Inc()
	event.Fire(EventOrderCreated, &order)

	// The token only carries the display name, so the recipient address has
	// to come from the account record.
	if account, err := s.accounts.FindByID(identity.UserID); err != nil {
		logger.Warn("checkout: confirmation email skipped, account lookup failed",
			"order_id", order.ID, "user_id", identity.UserID, "error", err)
	} else if err := queue.Dispatch(&jobs.OrderConfirmationJob{
		OrderID:  order.ID,
		Customer: order.Customer,
		Email:    account.Email,
		Total:    order.Total,
	}); err != nil {
		logger.Warn("checkout: confirmation job not queued", "order_id", order.ID, "error", err)
	}

	log := logger.WithCtx(ctx)
	log.Info("order placed",
		"order_id", order.ID,
		"customer", order.Customer,
		"items", len(order.Items),
		"total", order.Total,
	)
	return order, nil
}

// fetchProduct reads one product with bounded retry on transient failures.
// NotFound is terminal; everything else gets stockFetchRetries extra tries
// with a short growing backoff.
func (s *CheckoutService) fetchProduct(ctx context.Context, id uint) (models.Product, error) {
	var lastErr error
	for attempt := 0; attempt <= stockFetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.Product{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.backoff):
			}
		}

		product, err := s.products.FindByID(id)
		if err == nil {
			return product, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, err
		}
		lastErr = err
	}
	return models.Product{}, lastErr
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
