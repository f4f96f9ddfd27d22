package controllers

import (
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type checkoutInput struct {
	Address models.Address `json:"address"`
}

// Create places an order from the caller's cart. Address field validation
// runs twice on purpose: the validate tags give field-level messages here,
// and the service enforces completeness again for non-HTTP callers.
func (cc *CheckoutController) Create(c *ctx.Context) {
	identity := identityFrom(c)

	var in checkoutInput
	if !c.BindJSON(&in) {
		return
	}
	if errs := c.Validate(&in.Address); len(errs) > 0 {
		c.ValidationError(errs)
		return
	}

	order, err := cc.checkout.Checkout(c.Context(), identity, cartKeyFor(c, identity), in.Address)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(order)
}
