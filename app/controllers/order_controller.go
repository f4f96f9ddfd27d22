package controllers

import (
	"net/http"
	"strconv"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Index lists orders: everything for admins, own orders for customers.
func (oc *OrderController) Index(c *ctx.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, pagination, err := oc.orders.List(identityFrom(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{
		"items":      orders,
		"pagination": pagination,
	})
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	order, err := oc.orders.Get(identityFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus transitions an order. Mounted on both PUT and PATCH of
// /orders/{id}/status so older admin clients that fall back from PUT to
// PATCH keep working.
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var in statusInput
	if !c.BindJSON(&in) {
		return
	}

	status, ok := models.ParseStatus(in.Status)
	if !ok {
		c.Error(http.StatusUnprocessableEntity, "Unknown status: "+in.Status)
		return
	}

	order, err := oc.orders.Transition(c.Context(), identityFrom(c), id, status)
	if err != nil {
		fail(c, err)
		return
	}

	if status == models.StatusCancelled {
		// The order record is gone; report the transition, not the body.
		c.Success(map[string]interface{}{"id": id, "status": status, "deleted": true})
		return
	}
	c.Success(order)
}

// Destroy cancels an order outright: restore stock if it was decremented,
// then delete. The storefront's cancel button calls this.
func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if _, err := oc.orders.Transition(c.Context(), identityFrom(c), id, models.StatusCancelled); err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"message": "Order deleted successfully"})
}
