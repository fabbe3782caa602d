package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Limiter interface {
	AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware counts requests per client IP. There is no login,
// so the address is the only stable caller identity. Limiter errors let
// the request through.
func RateLimitMiddleware(limiter Limiter, action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate:limit:%s:%s", c.ClientIP(), action)

		allowed, err := limiter.AllowRequest(c.Request.Context(), key, limit, window)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			utils.Error(c, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}

		c.Next()
	}
}
