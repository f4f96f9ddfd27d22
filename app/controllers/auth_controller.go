package controllers

import (
	"net/http"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/session"
)

type AuthController struct {
	auth  *services.AuthService
	carts *cart.Service
}

func NewAuthController(carts *cart.Service) *AuthController {
	return &AuthController{
		auth:  services.NewAuthService(),
		carts: carts,
	}
}

type registerInput struct {
	UserName string `json:"userName" validate:"required,alpha_dash,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in registerInput
	if !c.BindJSON(&in) {
		return
	}

	user, pair, err := ac.auth.Register(in.UserName, in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	ac.mergeGuestCart(c, user.UserName)
	c.Created(map[string]interface{}{
		"user":         user,
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

type loginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates and folds the session's guest cart into the user cart,
// so items picked before logging in survive the transition.
func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	user, pair, err := ac.auth.Login(in.Login, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	ac.mergeGuestCart(c, user.UserName)
	c.Success(map[string]interface{}{
		"user":         user,
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout invalidates the session. Stored carts are deliberately left alone:
// the user cart waits for the next login and any guest cart under a fresh
// session starts empty.
func (ac *AuthController) Logout(c *ctx.Context) {
	sess := session.FromCtx(c.R)
	sess.Invalidate()
	if err := sess.Save(c.W); err != nil {
		c.Error(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Success(map[string]string{"message": "Logged out"})
}

func (ac *AuthController) Profile(c *ctx.Context) {
	user, err := ac.auth.Profile(identityFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}

func (ac *AuthController) mergeGuestCart(c *ctx.Context, userName string) {
	guestKey := cart.GuestKey(session.FromCtx(c.R).ID())
	// Merge failures must not block the login itself.
	ac.carts.MergeOnLogin(guestKey, cart.UserKey(userName)) //nolint:errcheck
}
