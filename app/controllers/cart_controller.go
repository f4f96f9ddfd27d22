package controllers

import (
	"net/http"
	"strconv"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/config"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/session"
)

type CartController struct {
	carts    *cart.Service
	products *services.ProductService
}

func NewCartController(carts *cart.Service) *CartController {
	return &CartController{
		carts:    carts,
		products: services.NewProductService(),
	}
}

// allow gates cart mutations: admins never build carts, and guests only when
// the deployment allows guest carts.
func (cc *CartController) allow(c *ctx.Context, identity services.Identity) bool {
	if identity.IsAdmin() {
		c.Forbidden("Admin accounts cannot shop")
		return false
	}
	if !identity.Authenticated() && !config.CartAllowGuest() {
		c.Unauthorized("Log in to add items to your cart")
		return false
	}
	return true
}

func (cc *CartController) Show(c *ctx.Context) {
	identity := identityFrom(c)
	cc.saveSession(c)
	c.Success(cc.carts.Get(cartKeyFor(c, identity)))
}

type addItemInput struct {
	ProductID uint `json:"productId" validate:"required,gte=1"`
}

func (cc *CartController) AddItem(c *ctx.Context) {
	identity := identityFrom(c)
	if !cc.allow(c, identity) {
		return
	}

	var in addItemInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := cc.products.Get(in.ProductID)
	if err != nil {
		fail(c, err)
		return
	}

	updated, err := cc.carts.AddItem(cartKeyFor(c, identity), product)
	if err != nil {
		fail(c, err)
		return
	}
	cc.saveSession(c)
	c.Success(updated)
}

// Quantity 0 removes the line, so `required` would reject a legal value.
type updateItemInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (cc *CartController) UpdateItem(c *ctx.Context) {
	identity := identityFrom(c)
	if !cc.allow(c, identity) {
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil || productID == 0 {
		c.Error(http.StatusBadRequest, "Invalid product id")
		return
	}

	var in updateItemInput
	if !c.BindJSON(&in) {
		return
	}

	updated, uerr := cc.carts.UpdateQuantity(cartKeyFor(c, identity), uint(productID), in.Quantity)
	if uerr != nil {
		fail(c, uerr)
		return
	}
	c.Success(updated)
}

func (cc *CartController) RemoveItem(c *ctx.Context) {
	identity := identityFrom(c)
	if !cc.allow(c, identity) {
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil || productID == 0 {
		c.Error(http.StatusBadRequest, "Invalid product id")
		return
	}

	updated, rerr := cc.carts.RemoveItem(cartKeyFor(c, identity), uint(productID))
	if rerr != nil {
		fail(c, rerr)
		return
	}
	c.Success(updated)
}

// saveSession pins the session cookie so a guest keeps the same cart key
// across requests.
func (cc *CartController) saveSession(c *ctx.Context) {
	sess := session.FromCtx(c.R)
	sess.Set("cart_seen", true)
	sess.Save(c.W) //nolint:errcheck
}
