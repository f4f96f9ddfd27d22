package services

import (
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
)

// Identity is the authenticated caller, resolved from the bearer token by the
// auth middleware and passed explicitly to every service call. An all-zero
// Identity is an unauthenticated guest.
type Identity struct {
	UserID   uint
	UserName string
	Role     string
}

// Authenticated reports whether the identity belongs to a logged-in account.
func (i Identity) Authenticated() bool { return i.UserID != 0 }

// IsAdmin reports whether the identity may perform back-office operations.
func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// AccountStore is the user lookup the checkout needs to address the
// confirmation email. *repositories.UserRepository satisfies it.
type AccountStore interface {
	FindByID(id uint) (models.User, error)
}

// ProductStore is the catalog access the checkout and order services need.
// *repositories.ProductRepository satisfies it; tests use in-memory fakes.
type ProductStore interface {
	FindByID(id uint) (models.Product, error)
	DecrementStock(id uint, qty int) (int, error)
	RestoreStock(id uint, qty int) error
}

// OrderStore is the order persistence the checkout and order services need.
// *repositories.OrderRepository satisfies it.
type OrderStore interface {
	Create(order *models.Order) error
	FindByID(id uint) (models.Order, error)
	All(page, limit int) ([]models.Order, orm.Pagination, error)
	ByCustomer(customer string) ([]models.Order, error)
	UpdateStatus(id uint, status models.OrderStatus, stockReserved bool) error
	Delete(id uint) error
}
