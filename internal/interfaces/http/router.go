// Package http wires the HTTP surface: repositories, use cases, handlers
// and routes.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	certificateUsecases "vechnost/internal/application/certificate/usecases"
	entitlementUsecases "vechnost/internal/application/entitlement/usecases"
	paymentUsecases "vechnost/internal/application/payment/usecases"
	productUsecases "vechnost/internal/application/product/usecases"
	"vechnost/internal/infrastructure/config"
	"vechnost/internal/infrastructure/ratelimit"
	"vechnost/internal/infrastructure/repository"
	"vechnost/internal/infrastructure/tribute"
	"vechnost/internal/interfaces/http/handlers"
	"vechnost/internal/interfaces/http/middleware"
	"vechnost/internal/interfaces/http/routes"
	"vechnost/internal/shared/logger"
)

// Router holds the configured gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter assembles the full HTTP surface. redisClient may be nil; rate
// limiting then degrades to a no-op.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogger(log))

	accountRepo := repository.NewAccountRepository(db, log)
	paymentRepo := repository.NewPaymentEventRepository(db, log)
	subRepo := repository.NewSubscriptionRepository(db, log)
	deliveryRepo := repository.NewWebhookDeliveryRepository(db, log)
	certRepo := repository.NewCertificateRepository(db, log)
	productRepo := repository.NewProductRepository(db, log)

	verifier := tribute.NewSignatureVerifier(cfg.Payment.WebhookSecret, log)
	gateway := tribute.NewGateway(tribute.NewClient(&cfg.Tribute, log))

	var limiter ratelimit.RateLimiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisRateLimiter(redisClient)
	} else {
		limiter = ratelimit.NewNoopRateLimiter()
	}
	rateLimitMW := middleware.NewRateLimitMiddleware(limiter, cfg.RateLimit, log)

	applyWebhookUC := paymentUsecases.NewApplyWebhookEventUseCase(
		accountRepo, paymentRepo, subRepo, deliveryRepo, verifier, cfg.Payment, log,
	)
	redeemUC := certificateUsecases.NewRedeemCertificateUseCase(certRepo, accountRepo, log)
	checkAccessUC := entitlementUsecases.NewCheckAccessUseCase(
		accountRepo, subRepo, paymentRepo, certRepo, cfg.Payment, log,
	)
	listProductsUC := productUsecases.NewListProductsUseCase(productRepo, log)
	createPaymentLinkUC := productUsecases.NewCreatePaymentLinkUseCase(productRepo, gateway, log)

	routes.SetupWebhookRoutes(engine, &routes.WebhookRouteConfig{
		WebhookHandler: handlers.NewWebhookHandler(applyWebhookUC, log),
		RateLimit:      rateLimitMW,
	})
	routes.SetupCertificateRoutes(engine, &routes.CertificateRouteConfig{
		CertificateHandler: handlers.NewCertificateHandler(redeemUC, log),
		RateLimit:          rateLimitMW,
	})
	routes.SetupEntitlementRoutes(engine, &routes.EntitlementRouteConfig{
		EntitlementHandler: handlers.NewEntitlementHandler(checkAccessUC, log),
	})
	routes.SetupProductRoutes(engine, &routes.ProductRouteConfig{
		ProductHandler: handlers.NewProductHandler(listProductsUC, createPaymentLinkUC, log),
	})
	routes.SetupHealthRoutes(engine, handlers.NewHealthHandler(db))

	return &Router{engine: engine}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
