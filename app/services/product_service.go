package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/config"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
	"github.com/daliaibrahim58/greenmart/pkg/storage"
	"gorm.io/gorm"
)

// ProductService exposes catalog reads for shoppers and CRUD for admins.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{products: repositories.NewProductRepository()}
}

// Catalog returns the customer-facing product list, optionally filtered by
// category.
func (s *ProductService) Catalog(category string) ([]models.Product, error) {
	if category != "" {
		return s.products.ByCategory(category)
	}
	return s.products.Visible()
}

// All returns the full paginated catalog for the admin dashboard.
func (s *ProductService) All(identity Identity, page, limit int) ([]models.Product, orm.Pagination, error) {
	if !identity.IsAdmin() {
		return nil, orm.Pagination{}, ErrForbidden
	}
	return s.products.All(page, limit)
}

// Get returns one product by id.
func (s *ProductService) Get(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return product, err
}

// Create persists a new product. Admin-only.
func (s *ProductService) Create(identity Identity, product *models.Product) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	product.InStock = product.Stock > 0
	return s.products.Create(product)
}

// Update persists changes to an existing product. Admin-only. Direct stock
// edits here are how admins restock after an insufficient-stock transition.
func (s *ProductService) Update(identity Identity, product *models.Product) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	product.InStock = product.Stock > 0
	return s.products.Update(product)
}

// Delete removes a product from the catalog. Admin-only.
func (s *ProductService) Delete(identity Identity, id uint) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	return s.products.Delete(id)
}

// UploadImage stores a product image on the configured disk (local or S3)
// and points the product at its public URL.
func (s *ProductService) UploadImage(identity Identity, id uint, name string, r io.Reader) (models.Product, error) {
	if !identity.IsAdmin() {
		return models.Product{}, ErrForbidden
	}

	product, err := s.Get(id)
	if err != nil {
		return models.Product{}, err
	}

	path := fmt.Sprintf("products/%d/%d%s", id, time.Now().UnixNano(), filepath.Ext(name))
	disk := storage.Use(config.StorageDefault())
	if err := disk.PutStream(path, r); err != nil {
		return models.Product{}, fmt.Errorf("store image: %w", err)
	}

	product.Image = disk.URL(path)
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}
