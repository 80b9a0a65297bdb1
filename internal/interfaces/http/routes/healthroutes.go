package routes

import (
	"github.com/gin-gonic/gin"

	"vechnost/internal/interfaces/http/handlers"
)

// SetupHealthRoutes configures the liveness endpoint.
func SetupHealthRoutes(engine *gin.Engine, handler *handlers.HealthHandler) {
	engine.GET("/health", handler.Check)
}
