package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/edusarathi/content-service/internal/config"
	"github.com/edusarathi/content-service/internal/utils"
)

// RateLimiter enforces a per-IP sliding window over a Redis sorted set.
// Every request adds a member scored by its timestamp; members older than
// the window are pruned before counting.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger utils.Logger
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger utils.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  cfg.Requests,
		window: cfg.Window,
		logger: logger,
	}
}

// Middleware returns the limiting handler. A nil Redis client disables
// limiting entirely.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	if rl.client == nil || rl.limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "ratelimit:" + c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-rl.window)

		pipe := rl.client.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
		countCmd := pipe.ZCard(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			// Redis trouble must not take the API down.
			rl.logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		if countCmd.Val() >= int64(rl.limit) {
			retryAfter := int(rl.window.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Success: false,
				Message: "Too many requests, please try again later",
			})
			return
		}

		member := fmt.Sprintf("%d-%s", now.UnixNano(), c.GetString("request_id"))
		pipe = rl.client.TxPipeline()
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.logger.Warn("rate limiter record failed", "error", err)
		}

		c.Next()
	}
}
