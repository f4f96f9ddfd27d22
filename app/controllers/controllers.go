// Package controllers holds the HTTP handlers for the storefront API.
// Handlers use the context style (ctx.Wrap); services do the real work and
// controllers only translate between HTTP and the service error taxonomy.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/middleware"
	"github.com/daliaibrahim58/greenmart/pkg/session"
)

// identityFrom builds the service Identity from the auth middleware context.
// Anonymous requests yield the zero Identity.
func identityFrom(c *ctx.Context) services.Identity {
	id, _ := middleware.UserIDFromCtx(c.R)
	name, _ := middleware.UserNameFromCtx(c.R)
	role, _ := middleware.RoleFromCtx(c.R)
	return services.Identity{UserID: id, UserName: name, Role: role}
}

// cartKeyFor picks the storage key for the caller's cart: user-scoped when
// authenticated, session-scoped otherwise.
func cartKeyFor(c *ctx.Context, identity services.Identity) string {
	if identity.Authenticated() {
		return cart.UserKey(identity.UserName)
	}
	return cart.GuestKey(session.FromCtx(c.R).ID())
}

// paramID parses the {id} route parameter.
func paramID(c *ctx.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// fail maps a service error onto the right HTTP response.
func fail(c *ctx.Context, err error) {
	var stock *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		c.Unauthorized()
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials")
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrUserExists):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrIncompleteAddress),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, cart.ErrLineNotFound):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &stock):
		c.Error(http.StatusConflict, stock.Error())
	default:
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
