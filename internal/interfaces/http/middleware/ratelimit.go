package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authrelay/internal/infrastructure/ratelimit"
	"authrelay/internal/shared/logger"
	"authrelay/internal/shared/utils"
)

// RateLimit enforces a per-IP request budget. When the limiter itself
// fails, requests pass through rather than taking the service down
// with it.
func RateLimit(limiter ratelimit.RateLimiter, perMinute int, log logger.Interface) gin.HandlerFunc {
	cfg := ratelimit.RateLimitConfig{RequestsPerMinute: perMinute}

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.ClientIP(), cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
