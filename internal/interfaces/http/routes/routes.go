// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API endpoint under the given group.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *goredis.Client, cfg *config.Config, logger *logrus.Logger) {
	// One catalog service backs both the storefront endpoints and the
	// cart engine's product lookups.
	catalogSvc := catalog.NewService(db)
	carts := cart.NewManager(
		catalogSvc,
		cart.NewRedisStore(redisClient, logger),
		cart.Pricing{
			TaxRateBasisPoints:    cfg.Cart.TaxRateBasisPoints,
			FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
			ShippingFlatFee:       cfg.Cart.ShippingFlatFee,
		},
		logger,
	)

	setupAuthRoutes(rg, db, cfg, carts)
	setupCatalogRoutes(rg, db, cfg)
	setupCartRoutes(rg, cfg, carts)
	setupAdminRoutes(rg, db, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, carts *cart.Manager) {
	authHandler := handlers.NewAuthHandler(db, cfg, carts)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/staff/login", authHandler.StaffLogin)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.Profile)
		}
	}
}

func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db)

	// Optional auth so staff tokens can see inactive products.
	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	rg.GET("/categories", catalogHandler.ListCategories)
}

func setupCartRoutes(rg *gin.RouterGroup, cfg *config.Config, carts *cart.Manager) {
	cartHandler := handlers.NewCartHandler(carts)

	group := rg.Group("/cart")
	group.Use(middleware.AuthMiddleware(cfg))
	group.Use(middleware.RequireCustomer())
	{
		group.GET("", cartHandler.GetCart)
		group.GET("/count", cartHandler.GetCount)
		group.POST("/items", cartHandler.AddItem)
		group.GET("/items/:id", cartHandler.GetItem)
		group.PUT("/items/:id", cartHandler.UpdateItem)
		group.DELETE("/items/:id", cartHandler.RemoveItem)
		group.DELETE("", cartHandler.ClearCart)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db)
	usersHandler := handlers.NewAdminUsersHandler(db, cfg)
	customersHandler := handlers.NewAdminCustomersHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.RequireStaff())
	{
		// Product management. Per-privilege checks happen inside the
		// handlers; the group gate only keeps customers out.
		products := admin.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:id", catalogHandler.GetProduct)
			products.POST("", catalogHandler.CreateProduct)
			products.PUT("/:id", catalogHandler.UpdateProduct)
			products.DELETE("/:id", catalogHandler.DeleteProduct)
			products.PUT("/:id/inventory", catalogHandler.UpdateInventory)
		}

		// Staff account management, admin only.
		users := admin.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", usersHandler.List)
			users.GET("/:id", usersHandler.Get)
			users.POST("", usersHandler.Create)
			users.PUT("/:id", usersHandler.Update)
			users.DELETE("/:id", usersHandler.Delete)
			users.PUT("/:id/privileges", usersHandler.SetPrivileges)
		}

		// Customer records, any staff identity.
		customers := admin.Group("/customers")
		{
			customers.GET("", customersHandler.List)
			customers.GET("/:id", customersHandler.Get)
			customers.PUT("/:id", customersHandler.Update)
			customers.DELETE("/:id", customersHandler.Delete)
		}
	}
}
