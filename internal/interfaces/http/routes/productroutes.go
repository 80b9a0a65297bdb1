package routes

import (
	"github.com/gin-gonic/gin"

	"vechnost/internal/interfaces/http/handlers"
)

// ProductRouteConfig holds dependencies for product and payment link
// routes.
type ProductRouteConfig struct {
	ProductHandler *handlers.ProductHandler
}

// SetupProductRoutes configures catalog and payment link routes.
func SetupProductRoutes(engine *gin.Engine, cfg *ProductRouteConfig) {
	engine.GET("/products", cfg.ProductHandler.ListProducts)

	payments := engine.Group("/payments")
	{
		payments.POST("/links", cfg.ProductHandler.CreatePaymentLink)
	}
}
