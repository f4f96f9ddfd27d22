package services_test

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
)

// fakeProductStore is an in-memory ProductStore with the same conditional
// decrement semantics as the gorm repository.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[uint]*models.Product

	findErrs int // FindByID fails this many times before succeeding
	findErr  error
}

func newFakeProducts(ps ...models.Product) *fakeProductStore {
	f := &fakeProductStore{products: map[uint]*models.Product{}}
	for i := range ps {
		p := ps[i]
		f.products[p.ID] = &p
	}
	return f
}

func (f *fakeProductStore) FindByID(id uint) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErrs > 0 {
		f.findErrs--
		return models.Product{}, f.findErr
	}
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, gorm.ErrRecordNotFound
	}
	return *p, nil
}

func (f *fakeProductStore) DecrementStock(id uint, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if p.Stock < qty {
		return p.Stock, fmt.Errorf("%w: product %q has %d, need %d",
			repositories.ErrStockConflict, p.Name, p.Stock, qty)
	}
	p.Stock -= qty
	if p.Stock == 0 {
		p.InStock = false
	}
	return p.Stock, nil
}

func (f *fakeProductStore) RestoreStock(id uint, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += qty
	p.InStock = true
	return nil
}

func (f *fakeProductStore) stock(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

// fakeAccountStore is an in-memory AccountStore. The zero map means every
// lookup misses, which is how tests exercise the email-skip path.
type fakeAccountStore struct {
	users map[uint]models.User
}

func newFakeAccounts(us ...models.User) *fakeAccountStore {
	f := &fakeAccountStore{users: map[uint]models.User{}}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeAccountStore) FindByID(id uint) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return u, nil
}

// fakeOrderStore is an in-memory OrderStore.
type fakeOrderStore struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]models.Order
}

func newFakeOrders() *fakeOrderStore {
	return &fakeOrderStore{nextID: 1, orders: map[uint]models.Order{}}
}

func (f *fakeOrderStore) Create(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeOrderStore) FindByID(id uint) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, orm.Pagination{Page: page, Limit: limit, Total: int64(len(out)), TotalPages: 1}, nil
}

func (f *fakeOrderStore) ByCustomer(customer string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Order
	for _, o := range f.orders {
		if o.Customer == customer {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(id uint, status models.OrderStatus, stockReserved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	order.StockReserved = stockReserved
	f.orders[id] = order
	return nil
}

func (f *fakeOrderStore) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderStore) get(id uint) (models.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	return order, ok
}
