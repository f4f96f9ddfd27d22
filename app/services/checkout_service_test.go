package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/jobs"
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/queue"
)

var shipTo = models.Address{
	Street:  "1 Green Way",
	City:    "Portland",
	State:   "OR",
	Zip:     "97201",
	Country: "USA",
	Phone:   "+1234567891",
}

func customer() services.Identity {
	return services.Identity{UserID: 2, UserName: "John Doe", Role: models.RoleUser}
}

// johnDoe is the account record behind the customer() identity.
func johnDoe() models.User {
	u := models.User{UserName: "John Doe", Email: "john@example.com", Role: models.RoleUser}
	u.ID = 2
	return u
}

func admin() services.Identity {
	return services.Identity{UserID: 1, UserName: "Admin User", Role: models.RoleAdmin}
}

func catalogProduct(id uint, name string, price float64, stock int) models.Product {
	p := models.Product{Name: name, Price: price, Stock: stock, InStock: stock > 0, IsVisible: true}
	p.ID = id
	return p
}

// fillCart puts qty units of each product into the cart under key.
func fillCart(t *testing.T, carts *cart.Service, key string, qty int, ps ...models.Product) {
	t.Helper()
	for _, p := range ps {
		for i := 0; i < qty; i++ {
			_, err := carts.AddItem(key, p)
			require.NoError(t, err)
		}
	}
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 50)
	tote := catalogProduct(2, "Tote Bag", 20, 10)
	products := newFakeProducts(bottle, tote)
	orders := newFakeOrders()
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(products, orders, carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 2, bottle, tote)

	order, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.StockReserved, "checkout must not touch stock")
	assert.Equal(t, "John Doe", order.Customer)
	require.Len(t, order.Items, 2)

	// 2*25 + 2*20 = 90, plus the default 10% tax.
	assert.InDelta(t, 99.0, order.Total, 0.001)

	// Stock is untouched until an admin confirms the order.
	assert.Equal(t, 50, products.stock(1))
	assert.Equal(t, 10, products.stock(2))

	// The cart is gone.
	assert.Empty(t, carts.Get(key).Lines)

	stored, ok := orders.get(order.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestCheckoutRequiresCustomer(t *testing.T) {
	svc := services.NewCheckoutService(newFakeProducts(), newFakeOrders(), cart.NewService(cart.NewMemoryStore()), newFakeAccounts(johnDoe()))

	_, err := svc.Checkout(context.Background(), services.Identity{}, cart.GuestKey("s1"), shipTo)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	_, err = svc.Checkout(context.Background(), admin(), cart.UserKey("Admin User"), shipTo)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestCheckoutRejectsIncompleteAddress(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 50)
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(newFakeProducts(bottle), newFakeOrders(), carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle)

	for _, addr := range []models.Address{
		{City: "Portland", Zip: "97201", Country: "USA", Phone: "+1"},
		{Street: "1 Green Way", Zip: "97201", Country: "USA", Phone: "+1"},
		{Street: "1 Green Way", City: "Portland", Country: "USA", Phone: "+1"},
		{Street: "1 Green Way", City: "Portland", Zip: "97201", Phone: "+1"},
		{Street: "1 Green Way", City: "Portland", Zip: "97201", Country: "USA"},
	} {
		_, err := svc.Checkout(context.Background(), customer(), key, addr)
		assert.ErrorIs(t, err, services.ErrIncompleteAddress)
	}

	// State is optional.
	noState := shipTo
	noState.State = ""
	_, err := svc.Checkout(context.Background(), customer(), key, noState)
	assert.NoError(t, err)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := services.NewCheckoutService(newFakeProducts(), newFakeOrders(), cart.NewService(cart.NewMemoryStore()), newFakeAccounts(johnDoe()))

	_, err := svc.Checkout(context.Background(), customer(), cart.UserKey("John Doe"), shipTo)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 1)
	products := newFakeProducts(bottle)
	orders := newFakeOrders()
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(products, orders, carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 3, bottle)

	_, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.Error(t, err)
	require.True(t, services.IsInsufficientStock(err))

	var conflict *services.InsufficientStockError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, uint(1), conflict.ProductID)
	assert.Equal(t, 3, conflict.Requested)
	assert.Equal(t, 1, conflict.Available)

	// Nothing happened: no order, cart intact, stock intact.
	assert.Empty(t, orders.orders)
	assert.Len(t, carts.Get(key).Lines, 1)
	assert.Equal(t, 1, products.stock(1))
}

func TestCheckoutProductDisappeared(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 5)
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(newFakeProducts(), newFakeOrders(), carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle) // product 1 is not in the catalog fake

	_, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCheckoutRetriesTransientCatalogFailures(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 5)
	products := newFakeProducts(bottle)
	products.findErrs = 2
	products.findErr = errors.New("catalog hiccup")

	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(products, newFakeOrders(), carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle)

	order, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestCheckoutGivesUpAfterRetries(t *testing.T) {
	bottle := catalogProduct(1, "Eco Water Bottle", 25, 5)
	products := newFakeProducts(bottle)
	products.findErrs = 10
	products.findErr = errors.New("catalog down")

	carts := cart.NewService(cart.NewMemoryStore())
	orders := newFakeOrders()
	svc := services.NewCheckoutService(products, orders, carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle)

	_, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.Error(t, err)
	assert.Empty(t, orders.orders)
	assert.Len(t, carts.Get(key).Lines, 1)
}

// captureDriver records queue payloads instead of delivering them.
type captureDriver struct {
	payloads [][]byte
}

func (d *captureDriver) Push(p []byte) error {
	d.payloads = append(d.payloads, p)
	return nil
}

func (d *captureDriver) Pop(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCheckoutAddressesConfirmationEmail(t *testing.T) {
	driver := &captureDriver{}
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })

	bottle := catalogProduct(1, "Eco Water Bottle", 25, 50)
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(newFakeProducts(bottle), newFakeOrders(), carts, newFakeAccounts(johnDoe()))

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle)

	order, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.NoError(t, err)

	require.Len(t, driver.payloads, 1)
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(driver.payloads[0], &env))
	assert.Equal(t, "*jobs.OrderConfirmationJob", env.Type)

	var job jobs.OrderConfirmationJob
	require.NoError(t, json.Unmarshal(env.Payload, &job))
	assert.Equal(t, order.ID, job.OrderID)
	assert.Equal(t, "john@example.com", job.Email, "the job must carry a deliverable address, not the display name")
	assert.Equal(t, "John Doe", job.Customer)
}

func TestCheckoutWithoutAccountSkipsEmail(t *testing.T) {
	driver := &captureDriver{}
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })

	bottle := catalogProduct(1, "Eco Water Bottle", 25, 50)
	carts := cart.NewService(cart.NewMemoryStore())
	svc := services.NewCheckoutService(newFakeProducts(bottle), newFakeOrders(), carts, newFakeAccounts())

	key := cart.UserKey("John Doe")
	fillCart(t, carts, key, 1, bottle)

	order, err := svc.Checkout(context.Background(), customer(), key, shipTo)
	require.NoError(t, err, "a broken account lookup must not block the order")
	assert.NotZero(t, order.ID)

	// No deliverable address means no job, not a half-addressed one.
	assert.Empty(t, driver.payloads)
}
