package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitPeriod = time.Minute

// RateLimiter allows limit requests per client IP and route each minute.
// A nil client disables limiting.
func RateLimiter(client *redis.Client, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "rate_limit:" + c.FullPath() + ":" + c.ClientIP()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("[%s] rate limiter unavailable: %v", RequestIDFrom(c), err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, rateLimitPeriod)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
