package routes

import (
	"net/http"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/handlers"
	customMiddleware "github.com/Madhav-Gupta-28/kopi-shop-backend-go/middleware"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
}

func SetupRoutes(e *echo.Echo, h Handlers, auth customMiddleware.Authenticator) {
	requireAuth := customMiddleware.AuthMiddleware(auth)
	adminOnly := customMiddleware.RequireRole(models.RoleAdmin)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public routes
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)

	// Product reads are public; a token only matters for admins looking up deleted products.
	products := e.Group("/products")
	products.GET("", h.Products.GetProducts)
	products.GET("/:id", h.Products.GetProduct, customMiddleware.OptionalAuthMiddleware(auth))
	products.POST("", h.Products.CreateProduct, requireAuth, adminOnly)
	products.PUT("/:id", h.Products.UpdateProduct, requireAuth, adminOnly)
	products.PATCH("/:id", h.Products.UpdateProduct, requireAuth, adminOnly)
	products.DELETE("/:id", h.Products.DeleteProduct, requireAuth, adminOnly)

	// Protected routes; auth is per route so unknown paths still 404.
	e.POST("/logout", h.Auth.Logout, requireAuth)
	e.GET("/me", h.Auth.Me, requireAuth)
	e.GET("/profile", h.Users.GetUserProfile, requireAuth)
	e.PUT("/profile", h.Users.UpdateUserProfile, requireAuth)

	e.GET("/user-addresses", h.Users.GetUserAddresses, requireAuth)
	e.POST("/user-addresses", h.Users.AddUserAddress, requireAuth)
	e.GET("/user-addresses/:id", h.Users.GetUserAddress, requireAuth)
	e.PUT("/user-addresses/:id", h.Users.UpdateUserAddress, requireAuth)
	e.DELETE("/user-addresses/:id", h.Users.DeleteUserAddress, requireAuth)

	e.GET("/orders", h.Orders.GetOrders, requireAuth)
	e.POST("/orders", h.Orders.CreateOrder, requireAuth)
	e.GET("/orders/:id", h.Orders.GetOrder, requireAuth)
	e.GET("/orders/:id/status", h.Orders.GetOrderStatus, requireAuth)
	e.PUT("/orders/:id", h.Orders.UpdateOrder, requireAuth)
	e.DELETE("/orders/:id", h.Orders.DeleteOrder, requireAuth)

	e.GET("/admin/orders", h.Orders.GetAllOrders, requireAuth, adminOnly)
}
