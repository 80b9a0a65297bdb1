package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vechnost/internal/infrastructure/ratelimit"
	"vechnost/internal/shared/config"
	"vechnost/internal/shared/logger"
	"vechnost/internal/shared/utils"
)

// RateLimitMiddleware limits requests per client IP. The limiter fails
// open: a redis outage must never drop provider webhooks.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	cfg     config.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, cfg: cfg, logger: logger}
}

// LimitByIP rate-limits by client IP under the given scope name so
// different endpoint groups count independently.
func (m *RateLimitMiddleware) LimitByIP(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.cfg.Enabled {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
		allowed, err := m.limiter.Allow(key, m.cfg)
		if err != nil {
			m.logger.Warnw("rate limit check failed, allowing request",
				"scope", scope,
				"client_ip", c.ClientIP(),
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			m.logger.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			c.Header("Retry-After", strconv.FormatInt(int64(time.Minute.Seconds()), 10))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
