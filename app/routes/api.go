package routes

import (
	"net/http"
	"time"

	"github.com/daliaibrahim58/greenmart/app/cart"
	"github.com/daliaibrahim58/greenmart/app/controllers"
	"github.com/daliaibrahim58/greenmart/app/feed"
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/app/services"
	"github.com/daliaibrahim58/greenmart/pkg/container"
	"github.com/daliaibrahim58/greenmart/pkg/ctx"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/metrics"
	"github.com/daliaibrahim58/greenmart/pkg/middleware"
	"github.com/daliaibrahim58/greenmart/pkg/rbac"
	"github.com/daliaibrahim58/greenmart/pkg/router"
	"github.com/daliaibrahim58/greenmart/pkg/ws"
)

// RegisterAPI wires every storefront and back-office endpoint.
func RegisterAPI(r *router.Router) {
	carts := cart.NewService(cart.NewRedisStore())
	products := repositories.NewProductRepository()
	orders := repositories.NewOrderRepository()

	productService := services.NewProductService()
	checkoutService := services.NewCheckoutService(products, orders, carts, repositories.NewUserRepository())
	orderService := services.NewOrderService(orders, products)

	// Share the service instances with non-HTTP consumers (the scheduler
	// resolves these instead of building its own copies).
	container.Singleton("services.products", func() interface{} { return productService })
	container.Singleton("services.orders", func() interface{} { return orderService })

	authController := controllers.NewAuthController(carts)
	productController := controllers.NewProductController(productService)
	cartController := controllers.NewCartController(carts)
	checkoutController := controllers.NewCheckoutController(checkoutService)
	orderController := controllers.NewOrderController(orderService)
	userController := controllers.NewUserController(services.NewUserService())

	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// Auth. Login is rate limited to slow down credential stuffing.
	api.Post("/register", "auth.register", ctx.Wrap(authController.Register),
		middleware.RateLimit(10, time.Minute))
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login),
		middleware.RateLimit(20, time.Minute))
	api.Post("/logout", "auth.logout", ctx.Wrap(authController.Logout), middleware.OptionalAuth)
	api.Get("/profile", "auth.profile", ctx.Wrap(authController.Profile), middleware.AuthMiddleware)

	// Public catalog.
	api.Get("/products", "products.index", ctx.Wrap(productController.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	if graphqlController, err := controllers.NewGraphQLController(productService); err == nil {
		api.Post("/graphql", "graphql", ctx.Wrap(graphqlController.Query))
	} else {
		logger.Error("routes: graphql schema", "error", err)
	}

	// Cart. Guests ride on the session cookie, so auth is optional.
	cartGroup := api.Group("/cart", middleware.OptionalAuth)
	cartGroup.Get("", "cart.show", ctx.Wrap(cartController.Show))
	cartGroup.Post("/items", "cart.add", ctx.Wrap(cartController.AddItem))
	cartGroup.Put("/items/{productId}", "cart.update", ctx.Wrap(cartController.UpdateItem))
	cartGroup.Delete("/items/{productId}", "cart.remove", ctx.Wrap(cartController.RemoveItem))

	// Checkout requires a signed-in customer.
	api.Post("/checkout", "checkout", ctx.Wrap(checkoutController.Create), middleware.AuthMiddleware)

	// Orders. Customers see their own; admins see and manage everything.
	orderGroup := api.Group("/orders", middleware.AuthMiddleware)
	orderGroup.Get("", "orders.index", ctx.Wrap(orderController.Index))
	orderGroup.Get("/{id}", "orders.show", ctx.Wrap(orderController.Show))

	admin := rbac.HasRole(models.RoleAdmin)
	// PATCH mirrors PUT for admin clients that retry with the older verb.
	orderGroup.Put("/{id}/status", "orders.status", ctx.Wrap(orderController.UpdateStatus), admin)
	orderGroup.Patch("/{id}/status", "", ctx.Wrap(orderController.UpdateStatus), admin)
	orderGroup.Delete("/{id}", "orders.cancel", ctx.Wrap(orderController.Destroy), admin)

	// Back office.
	adminGroup := api.Group("/admin", middleware.AuthMiddleware, admin)
	adminGroup.Get("/products", "admin.products.index", ctx.Wrap(productController.AdminIndex))
	adminGroup.Post("/products", "admin.products.store", ctx.Wrap(productController.Store))
	adminGroup.Put("/products/{id}", "admin.products.update", ctx.Wrap(productController.Update))
	adminGroup.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(productController.Destroy))
	adminGroup.Post("/products/{id}/image", "admin.products.image", ctx.Wrap(productController.UploadImage))

	adminGroup.Get("/users", "admin.users.index", ctx.Wrap(userController.Index))
	adminGroup.Get("/users/{id}", "admin.users.show", ctx.Wrap(userController.Show))
	adminGroup.Put("/users/{id}/role", "admin.users.role", ctx.Wrap(userController.UpdateRole))
	adminGroup.Delete("/users/{id}", "admin.users.destroy", ctx.Wrap(userController.Destroy))

	// Live order feed for the admin dashboard. WebSocket by default, with an
	// EventSource fallback for clients behind proxies that drop upgrades.
	adminGroup.Get("/orders/feed", "admin.orders.feed", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, feed.Orders)
	})
	adminGroup.Get("/orders/events", "admin.orders.events", ctx.Wrap(feed.Stream))
}
