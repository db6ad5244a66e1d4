// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
)

// SessionCookie names the cookie binding a browser to its engine pair.
const SessionCookie = "session_id"

const rateLimitPrefix = "storefront:ratelimit:"

// RateLimit throttles callers over a one-minute window in Redis. Requests
// carrying a session cookie are keyed by session, so storefront tabs behind
// a shared NAT get separate budgets; cookie-less callers fall back to client
// IP. Redis being unreachable never blocks shoppers.
func RateLimit(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitPrefix + limitSubject(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		limit := cfg.Security.RateLimitPerMinute
		count := int(incr.Val())
		if count > limit {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))

		c.Next()
	}
}

// limitSubject picks the rate limit bucket for a request.
func limitSubject(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return "session:" + id
	}
	return "ip:" + c.ClientIP()
}
