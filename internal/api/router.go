package api

import (
	"context"  // Health probe
	"net/http" // HTTP status codes

	"food_app/internal/metrics"    // Prometheus endpoint
	"food_app/internal/middleware" // Auth middleware
	"food_app/internal/service"    // Services behind the handlers

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	Users         *service.UserService
	Products      *service.ProductService
	Orders        *service.OrderService
	Wallets       *service.WalletService
	Notifications *service.NotificationService
	JWTSecret     string
	AuthRequired  bool                            // Require Bearer tokens on protected groups
	Health        func(ctx context.Context) error // Dependency probe for /health; nil always reports ok
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	// Protected groups get the JWT check, admin groups the stored role check on top
	var authed, admin []gin.HandlerFunc
	if d.AuthRequired {
		authed = []gin.HandlerFunc{middleware.JWTAuthMiddleware(d.JWTSecret)}
		admin = []gin.HandlerFunc{middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.Users)}
	}

	r.GET("/health", healthHandler(d.Health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// Auth routes
	api.POST("/users/register", RegisterHandler(d.Users))
	api.POST("/users/login", LoginHandler(d.Users))

	// User administration
	users := api.Group("/users")
	users.GET("", append(admin, ListUsersHandler(d.Users))...)
	users.POST("", append(admin, CreateUserHandler(d.Users))...)
	users.PUT("/:id", append(admin, UpdateUserHandler(d.Users))...)
	users.DELETE("/:id", append(admin, DeleteUserHandler(d.Users))...)

	// Self-service user routes
	self := api.Group("/users", authed...)
	self.GET("/:id", GetUserHandler(d.Users))
	self.PUT("/:id/profile", UpdateProfileHandler(d.Users))
	self.PUT("/:id/password", ChangePasswordHandler(d.Users))
	self.GET("/:id/orders", UserOrdersHandler(d.Orders))
	self.GET("/:id/notifications", ListNotificationsHandler(d.Notifications))
	self.PUT("/:id/notifications/read-all", MarkAllNotificationsReadHandler(d.Notifications))
	api.PUT("/notifications/:id/read", append(authed, MarkNotificationReadHandler(d.Notifications))...)

	// Catalog: reads are public, writes are admin only
	api.GET("/products", ListProductsHandler(d.Products))
	api.GET("/products/:id", GetProductHandler(d.Products))
	api.POST("/products", append(admin, CreateProductHandler(d.Products))...)
	api.PUT("/products/:id", append(admin, UpdateProductHandler(d.Products))...)
	api.DELETE("/products/:id", append(admin, DeleteProductHandler(d.Products))...)

	// Orders
	orders := api.Group("/orders", authed...)
	orders.POST("", CreateOrderHandler(d.Orders))
	orders.GET("", ListOrdersHandler(d.Orders))
	orders.POST("/:id/status", UpdateOrderStatusHandler(d.Orders))
	orders.PUT("/:id/status", UpdateOrderStatusHandler(d.Orders))
	orders.GET("/:id/details", OrderDetailsHandler(d.Orders))
	orders.GET("/:id/items", OrderItemsHandler(d.Orders))

	// Wallet
	wallet := api.Group("/wallet", authed...)
	wallet.GET("/:userId", GetWalletHandler(d.Wallets))
	wallet.GET("/transactions/:userId", GetTransactionHistoryHandler(d.Wallets))
	wallet.POST("/topup", CreateTopupHandler(d.Wallets))

	// Admin top-up review
	topups := api.Group("/admin/wallet/topups", admin...)
	topups.GET("", ListTopupsHandler(d.Wallets))
	topups.POST("/:id/approve", ApproveTopupHandler(d.Wallets))
	topups.POST("/:id/reject", RejectTopupHandler(d.Wallets))
}

func healthHandler(probe func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if probe != nil {
			if err := probe(c.Request.Context()); err != nil {
				fail(c, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}
		respond(c, http.StatusOK, gin.H{"message": "ok"})
	}
}
