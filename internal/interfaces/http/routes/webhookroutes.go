package routes

import (
	"github.com/gin-gonic/gin"

	"vechnost/internal/interfaces/http/handlers"
	"vechnost/internal/interfaces/http/middleware"
)

// WebhookRouteConfig holds dependencies for webhook routes.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	RateLimit      *middleware.RateLimitMiddleware
}

// SetupWebhookRoutes configures provider webhook routes.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	webhooks.Use(cfg.RateLimit.LimitByIP("webhook"))
	{
		webhooks.POST("/tribute", cfg.WebhookHandler.HandleTribute)
	}
}
