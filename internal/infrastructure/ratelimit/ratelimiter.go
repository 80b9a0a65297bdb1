// Package ratelimit guards the webhook and certificate-redemption
// endpoints against floods and code brute-forcing with a redis-backed
// sliding window. Limits fail open when redis is unavailable so payment
// notifications are never dropped because of a cache outage.
package ratelimit

import "vechnost/internal/shared/config"

// RateLimiter checks whether a request identified by key is allowed
// under the configured per-minute/hour/day windows.
type RateLimiter interface {
	Allow(key string, cfg config.RateLimitConfig) (bool, error)
}

// NoopRateLimiter allows everything; used when rate limiting is disabled.
type NoopRateLimiter struct{}

func NewNoopRateLimiter() RateLimiter {
	return &NoopRateLimiter{}
}

func (NoopRateLimiter) Allow(key string, cfg config.RateLimitConfig) (bool, error) {
	return true, nil
}
