package routes

import (
	"github.com/gin-gonic/gin"

	"vechnost/internal/interfaces/http/handlers"
	"vechnost/internal/interfaces/http/middleware"
)

// CertificateRouteConfig holds dependencies for certificate routes.
type CertificateRouteConfig struct {
	CertificateHandler *handlers.CertificateHandler
	RateLimit          *middleware.RateLimitMiddleware
}

// SetupCertificateRoutes configures certificate redemption routes.
// Redemption is rate limited to slow down code guessing.
func SetupCertificateRoutes(engine *gin.Engine, cfg *CertificateRouteConfig) {
	certificates := engine.Group("/certificates")
	certificates.Use(cfg.RateLimit.LimitByIP("certificate"))
	{
		certificates.POST("/redeem", cfg.CertificateHandler.Redeem)
	}
}
