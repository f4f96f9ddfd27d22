package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/cache"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
	"gorm.io/gorm"
)

// ErrStockConflict is returned by DecrementStock when the product does not
// hold enough stock for the requested quantity. The conditional UPDATE never
// lets stock go negative, so concurrent decrements on the same product fail
// here instead of overselling.
var ErrStockConflict = errors.New("insufficient stock")

const productCacheTTL = 5 * time.Minute

// ProductRepository handles database operations for Product. Every stock
// write invalidates the catalog cache.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// Visible returns the customer-facing catalog, cached briefly.
func (r *ProductRepository) Visible() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Where("is_visible = ?", true).
		Cache("products:visible", productCacheTTL, &products)
	return products, err
}

// All returns every product (admin view) with pagination.
func (r *ProductRepository) All(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.DB().Model(&models.Product{}).GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// ByCategory returns visible products in one category.
func (r *ProductRepository) ByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Where("category = ? AND is_visible = ?", category, true).
		Get(&products)
	return products, err
}

// OutOfStock returns visible products with zero stock, for the nightly
// restock report.
func (r *ProductRepository) OutOfStock() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Where("stock = 0 AND is_visible = ?", true).
		Get(&products)
	return products, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := orm.DB().Create(product); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	if err := orm.DB().Save(product); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Delete soft-deletes a product.
func (r *ProductRepository) Delete(id uint) error {
	if err := orm.DB().Where("id = ?", id).Delete(&models.Product{}); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// DecrementStock subtracts qty from the product's stock in a single
// conditional UPDATE. The `stock >= qty` guard is the compare-and-swap that
// replaces the storefront's old read-modify-write loop: when two transitions
// race on the same product, one of them fails with ErrStockConflict instead
// of both writing a stale value. Returns the remaining stock.
func (r *ProductRepository) DecrementStock(id uint, qty int) (int, error) {
	rows, err := orm.DB().
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{"stock": gorm.Expr("stock - ?", qty)})
	if err != nil {
		return 0, fmt.Errorf("decrement stock for product %d: %w", id, err)
	}

	product, ferr := r.FindByID(id)
	if ferr != nil {
		return 0, ferr
	}

	if rows == 0 {
		return product.Stock, fmt.Errorf("%w: product %q has %d, need %d",
			ErrStockConflict, product.Name, product.Stock, qty)
	}

	if product.Stock == 0 && product.InStock {
		orm.DB().Model(&models.Product{}).Where("id = ?", id).
			Updates(map[string]interface{}{"in_stock": false}) //nolint:errcheck
	}
	r.invalidate()
	return product.Stock, nil
}

// RestoreStock adds qty back to the product's stock (order cancellation).
func (r *ProductRepository) RestoreStock(id uint, qty int) error {
	rows, err := orm.DB().
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock + ?", qty),
			"in_stock": true,
		})
	if err != nil {
		return fmt.Errorf("restore stock for product %d: %w", id, err)
	}
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidate()
	return nil
}

func (r *ProductRepository) invalidate() {
	cache.Del("products:visible") //nolint:errcheck
}
