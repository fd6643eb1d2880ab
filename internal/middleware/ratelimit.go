package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printgate/printgate/internal/service"
	"github.com/printgate/printgate/pkg/config"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/response"
)

// VerifyRateLimit throttles verification attempts per client and job ahead of
// the per-job attempt ceiling. The limiter fails open: when Redis is down,
// the attempt ceiling remains the enforcement of record.
func VerifyRateLimit(client *redis.Client, cfg config.RateLimitConfig, metricsSvc *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if !cfg.Enabled || client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("verify:%s:%s", c.ClientIP(), c.Param("id"))
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c.Request.Context(), key, cfg.VerifyWindow).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.Error(err))
			}
		}
		if count > int64(cfg.VerifyLimit) {
			ttl, _ := client.TTL(c.Request.Context(), key).Result()
			if ttl > 0 {
				c.Header("Retry-After", fmt.Sprintf("%d", int(ttl/time.Second)+1))
			}
			metricsSvc.ObserveRateLimited()
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
