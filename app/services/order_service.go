package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/notifications"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/config"
	"github.com/daliaibrahim58/greenmart/pkg/event"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/metrics"
	"github.com/daliaibrahim58/greenmart/pkg/notification"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
	"github.com/daliaibrahim58/greenmart/pkg/workerpool"
	"gorm.io/gorm"
)

// EventOrderStatusChanged is fired with a *StatusChange after a transition.
const EventOrderStatusChanged = "order.status_changed"

// StatusChange is the payload for EventOrderStatusChanged.
type StatusChange struct {
	OrderID uint               `json:"orderId"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	Deleted bool               `json:"deleted"` // cancellations delete the order
}

// lineResult is the outcome of one per-line stock update.
type lineResult struct {
	item      models.OrderItem
	remaining int
	err       error
}

// OrderService owns the order lifecycle: Pending decrements stock exactly
// once, Delivered is a pure status marker, Cancelled restores stock and
// deletes the order. The transition table in app/models is the single source
// of truth for legality and stock effects.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	pool     *workerpool.Pool
}

// NewOrderService builds the service with its own small worker pool for
// per-line stock updates.
func NewOrderService(orders OrderStore, products ProductStore) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		pool:     workerpool.New(8),
	}
}

// NewDefaultOrderService wires the gorm repositories.
func NewDefaultOrderService() *OrderService {
	return NewOrderService(repositories.NewOrderRepository(), repositories.NewProductRepository())
}

// List returns orders visible to the identity: admins see everything,
// customers see only their own.
func (s *OrderService) List(identity Identity, page, limit int) ([]models.Order, orm.Pagination, error) {
	if !identity.Authenticated() {
		return nil, orm.Pagination{}, ErrNotAuthenticated
	}
	if identity.IsAdmin() {
		return s.orders.All(page, limit)
	}

	orders, err := s.orders.ByCustomer(identity.UserName)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return orders, orm.Pagination{Page: 1, Limit: len(orders), Total: int64(len(orders)), TotalPages: 1}, nil
}

// Get returns one order if the identity owns it or is an admin.
func (s *OrderService) Get(identity Identity, id uint) (models.Order, error) {
	if !identity.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}

	order, err := s.orders.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	if !identity.IsAdmin() && order.Customer != identity.UserName {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// Transition moves an order to a new status, applying the stock effect the
// transition table dictates. Admin-only.
func (s *OrderService) Transition(ctx context.Context, identity Identity, id uint, to models.OrderStatus) (models.Order, error) {
	if !identity.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return models.Order{}, ErrForbidden
	}

	order, err := s.orders.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	from := order.Status
	effect, ok := models.TransitionEffect(from, to)
	if !ok {
		return models.Order{}, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
	}

	log := logger.WithCtx(ctx)

	switch effect {
	case models.EffectDecrement:
		if err := s.confirmPending(ctx, &order); err != nil {
			return models.Order{}, err
		}
	case models.EffectRestore:
		if err := s.cancel(ctx, &order); err != nil {
			return models.Order{}, err
		}
	default:
		if err := s.orders.UpdateStatus(order.ID, to, order.StockReserved); err != nil {
			return models.Order{}, fmt.Errorf("update order %d status: %w", order.ID, err)
		}
	}

	metrics.OrderTransitions.WithLabelValues(string(to)).Inc()
	event.Fire(EventOrderStatusChanged, &StatusChange{
		OrderID: order.ID,
		From:    from,
		To:      to,
		Deleted: effect == models.EffectRestore,
	})
	log.Info("order status changed",
		"order_id", order.ID,
		"to", to.String(),
		"by", identity.UserName,
	)

	order.Status = to
	return order, nil
}

// confirmPending applies the Pending transition. If the order already
// reserved stock the decrement is skipped entirely: re-confirming a Pending
// order must never double-count. Otherwise every line's stock is decremented
// concurrently through conditional UPDATEs; any shortfall aborts the status
// change (the order stays as it was), while lines that already succeeded are
// deliberately left decremented and reported, matching the storefront's
// per-line best-effort behaviour.
func (s *OrderService) confirmPending(ctx context.Context, order *models.Order) error {
	if order.Status == models.StatusPending && order.StockReserved {
		return s.orders.UpdateStatus(order.ID, models.StatusPending, true)
	}

	results := s.adjustLines(order.Items, func(item models.OrderItem) (int, error) {
		return s.products.DecrementStock(item.ProductID, item.Quantity)
	})

	var firstConflict error
	for _, res := range results {
		if res.err == nil {
			metrics.StockAdjustments.WithLabelValues("decrement").Inc()
			if res.remaining == 0 {
				s.notifyOutOfStock(res.item)
			}
			continue
		}

		logger.WithCtx(ctx).Error("stock decrement failed",
			"order_id", order.ID,
			"product_id", res.item.ProductID,
			"quantity", res.item.Quantity,
			"error", res.err,
		)
		if firstConflict == nil {
			firstConflict = s.conflictError(res)
		}
	}
	if firstConflict != nil {
		return firstConflict
	}

	if err := s.orders.UpdateStatus(order.ID, models.StatusPending, true); err != nil {
		return fmt.Errorf("update order %d status: %w", order.ID, err)
	}
	order.StockReserved = true
	return nil
}

// cancel restores stock (only if this order decremented it) and deletes the
// order record. Restore failures are logged per line and never block the
// deletion.
func (s *OrderService) cancel(ctx context.Context, order *models.Order) error {
	if order.StockReserved {
		results := s.adjustLines(order.Items, func(item models.OrderItem) (int, error) {
			return 0, s.products.RestoreStock(item.ProductID, item.Quantity)
		})
		for _, res := range results {
			if res.err != nil {
				logger.WithCtx(ctx).Error("stock restore failed",
					"order_id", order.ID,
					"product_id", res.item.ProductID,
					"quantity", res.item.Quantity,
					"error", res.err,
				)
				continue
			}
			metrics.StockAdjustments.WithLabelValues("restore").Inc()
		}
	}

	if err := s.orders.Delete(order.ID); err != nil {
		return fmt.Errorf("delete order %d: %w", order.ID, err)
	}
	return nil
}

// adjustLines runs fn for every line concurrently on the worker pool and
// collects per-line results. Pool exhaustion falls back to running inline so
// a transition never deadlocks on its own pool.
func (s *OrderService) adjustLines(items []models.OrderItem, fn func(models.OrderItem) (int, error)) []lineResult {
	results := make([]lineResult, len(items))

	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		i, item := i, item
		task := func() {
			defer wg.Done()
			remaining, err := fn(item)
			results[i] = lineResult{item: item, remaining: remaining, err: err}
		}
		if err := s.pool.SubmitWait(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return results
}

func (s *OrderService) conflictError(res lineResult) error {
	var conflict *InsufficientStockError
	if errors.As(res.err, &conflict) {
		return conflict
	}
	if errors.Is(res.err, repositories.ErrStockConflict) {
		return &InsufficientStockError{
			ProductID: res.item.ProductID,
			Product:   res.item.Name,
			Requested: res.item.Quantity,
			Available: res.remaining,
		}
	}
	return res.err
}

func (s *OrderService) notifyOutOfStock(item models.OrderItem) {
	if config.Get("NOTIFY_LOW_STOCK", "true") == "false" {
		return
	}
	notification.SendAsync(
		config.Get("ADMIN_EMAIL", "admin@greenmart.shop"),
		&notifications.OutOfStockNotification{ProductID: item.ProductID, ProductName: item.Name},
	)
}
