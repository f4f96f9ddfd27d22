package repositories

import (
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
)

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists a new order together with its line items.
func (r *OrderRepository) Create(order *models.Order) error {
	return orm.DB().Create(order)
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// All returns every order, newest first, with pagination (admin view).
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// ByCustomer returns one customer's orders, newest first.
func (r *OrderRepository) ByCustomer(customer string) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().
		Model(&models.Order{}).
		Preload("Items").
		Where("customer = ?", customer).
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// UpdateStatus persists a status change and the stock-reservation flag in one
// UPDATE so the guard against double-decrementing can never observe a
// half-written pair.
func (r *OrderRepository) UpdateStatus(id uint, status models.OrderStatus, stockReserved bool) error {
	_, err := orm.DB().
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"stock_reserved": stockReserved,
		})
	return err
}

// Delete removes an order and its items permanently. Cancelled orders are
// not archived.
func (r *OrderRepository) Delete(id uint) error {
	if err := orm.DB().Unscoped().Where("order_id = ?", id).Delete(&models.OrderItem{}); err != nil {
		return err
	}
	return orm.DB().Unscoped().Where("id = ?", id).Delete(&models.Order{})
}
