package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
)

func placeOrder(t *testing.T, orders *fakeOrderStore, customer string, lines ...models.OrderItem) models.Order {
	t.Helper()
	order := models.Order{
		Customer:      customer,
		Status:        models.StatusPending,
		StockReserved: false,
		Items:         lines,
	}
	require.NoError(t, orders.Create(&order))
	return order
}

func line(productID uint, name string, qty int) models.OrderItem {
	return models.OrderItem{ProductID: productID, Name: name, Quantity: qty}
}

func TestConfirmPendingDecrementsOnce(t *testing.T) {
	products := newFakeProducts(
		catalogProduct(1, "Eco Water Bottle", 25, 50),
		catalogProduct(2, "Tote Bag", 20, 10),
	)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe",
		line(1, "Eco Water Bottle", 2),
		line(2, "Tote Bag", 3),
	)

	got, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, got.Status)
	assert.True(t, got.StockReserved)
	assert.Equal(t, 48, products.stock(1))
	assert.Equal(t, 7, products.stock(2))

	// Confirming again must not decrement a second time.
	_, err = svc.Transition(context.Background(), admin(), order.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 48, products.stock(1))
	assert.Equal(t, 7, products.stock(2))
}

func TestDeliveredIsAPureMarker(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 2))
	_, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusPending)
	require.NoError(t, err)
	require.Equal(t, 48, products.stock(1))

	got, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDelivered, got.Status)
	assert.Equal(t, 48, products.stock(1), "delivery never touches stock")

	stored, ok := orders.get(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.True(t, stored.StockReserved, "reservation flag survives delivery")
}

func TestDeliveredIsTerminal(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 1))
	_, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusDelivered)
	require.NoError(t, err)

	for _, to := range []models.OrderStatus{models.StatusPending, models.StatusCancelled} {
		_, err := svc.Transition(context.Background(), admin(), order.ID, to)
		assert.ErrorIs(t, err, services.ErrIllegalTransition, "Delivered -> %s", to)
	}
}

func TestCancelUnreservedOrderLeavesStockAlone(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 5))

	_, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, 50, products.stock(1), "nothing was reserved, nothing to restore")
	_, ok := orders.get(order.ID)
	assert.False(t, ok, "cancelled orders are deleted")
}

func TestCancelReservedOrderRestoresStock(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 5))
	_, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusPending)
	require.NoError(t, err)
	require.Equal(t, 45, products.stock(1))

	_, err = svc.Transition(context.Background(), admin(), order.ID, models.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, 50, products.stock(1))
	_, ok := orders.get(order.ID)
	assert.False(t, ok)
}

func TestConfirmConflictKeepsOrderUnchanged(t *testing.T) {
	products := newFakeProducts(
		catalogProduct(1, "Eco Water Bottle", 25, 50),
		catalogProduct(2, "Tote Bag", 20, 1),
	)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe",
		line(1, "Eco Water Bottle", 2),
		line(2, "Tote Bag", 4), // only 1 in stock
	)

	_, err := svc.Transition(context.Background(), admin(), order.ID, models.StatusPending)
	require.Error(t, err)
	require.True(t, services.IsInsufficientStock(err))

	var conflict *services.InsufficientStockError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, uint(2), conflict.ProductID)
	assert.Equal(t, 4, conflict.Requested)
	assert.Equal(t, 1, conflict.Available)

	// The order did not move.
	stored, ok := orders.get(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.False(t, stored.StockReserved)

	// The line that succeeded stays decremented; there is no rollback.
	assert.Equal(t, 48, products.stock(1))
	assert.Equal(t, 1, products.stock(2))
}

// Two admins confirming two orders that both want the last units of the same
// product: exactly one confirmation wins, and stock never goes negative.
func TestConcurrentConfirmsNeverOversell(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 3))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	first := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 2))
	second := placeOrder(t, orders, "Jane Smith", line(1, "Eco Water Bottle", 2))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = svc.Transition(context.Background(), admin(), id, models.StatusPending)
		}(i, id)
	}
	wg.Wait()

	var conflicts int
	for _, err := range errs {
		if err != nil {
			require.True(t, services.IsInsufficientStock(err), "unexpected error: %v", err)
			conflicts++
		}
	}
	assert.Equal(t, 1, conflicts, "exactly one confirmation must lose")
	assert.Equal(t, 1, products.stock(1))
}

func TestTransitionPermissions(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	order := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 1))

	_, err := svc.Transition(context.Background(), services.Identity{}, order.ID, models.StatusDelivered)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	_, err = svc.Transition(context.Background(), customer(), order.ID, models.StatusDelivered)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Transition(context.Background(), admin(), 999, models.StatusDelivered)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestListAndGetVisibility(t *testing.T) {
	products := newFakeProducts(catalogProduct(1, "Eco Water Bottle", 25, 50))
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, products)

	mine := placeOrder(t, orders, "John Doe", line(1, "Eco Water Bottle", 1))
	theirs := placeOrder(t, orders, "Jane Smith", line(1, "Eco Water Bottle", 1))

	all, _, err := svc.List(admin(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, _, err := svc.List(customer(), 1, 20)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "John Doe", own[0].Customer)

	_, err = svc.Get(customer(), mine.ID)
	assert.NoError(t, err)

	_, err = svc.Get(customer(), theirs.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, _, err = svc.List(services.Identity{}, 1, 20)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}
