package routes

import (
	"github.com/gin-gonic/gin"

	"vechnost/internal/interfaces/http/handlers"
)

// EntitlementRouteConfig holds dependencies for entitlement routes.
type EntitlementRouteConfig struct {
	EntitlementHandler *handlers.EntitlementHandler
}

// SetupEntitlementRoutes configures entitlement resolution routes.
func SetupEntitlementRoutes(engine *gin.Engine, cfg *EntitlementRouteConfig) {
	entitlements := engine.Group("/entitlements")
	{
		entitlements.GET("/:telegram_user_id", cfg.EntitlementHandler.CheckAccess)
	}
}
