package controllers

import (
	"net/http"
	"strconv"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index is the public catalog. Hidden products are filtered out; pass
// ?category= to narrow the list.
func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.products.Catalog(c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(products)
}

// AdminIndex returns every product, hidden ones included.
func (pc *ProductController) AdminIndex(c *ctx.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, pagination, err := pc.products.All(identityFrom(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"items":      products,
		"pagination": pagination,
	})
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	product, err := pc.products.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var product models.Product
	if !c.BindJSON(&product) {
		return
	}
	if err := pc.products.Create(identityFrom(c), &product); err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	product, err := pc.products.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	if !c.BindJSON(&product) {
		return
	}
	product.ID = id

	if err := pc.products.Update(identityFrom(c), &product); err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := pc.products.Delete(identityFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Product deleted"})
}

// UploadImage accepts a multipart "image" field and stores it on the
// configured disk.
func (pc *ProductController) UploadImage(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusUnprocessableEntity, "Missing image file")
		return
	}
	defer file.Close()

	product, err := pc.products.UploadImage(identityFrom(c), id, header.Filename, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}
