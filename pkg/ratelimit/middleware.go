package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/utils/response"
	"eventhub/pkg/logger"
)

// Middleware returns a gin middleware enforcing per-IP rate limits. The
// limit applied depends on the route class, see getRateLimitType.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		clientIP := getClientIP(c)
		limitType := getRateLimitType(c)

		result, err := limiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Fail open when Redis is unreachable rather than blocking traffic.
			logger.GetDefault().Warn("rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if result.Limit > 0 {
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		}

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.Request.URL.Path)
			c.Header("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Too many requests, please try again later", nil,
				gin.H{"code": "RATE_LIMIT_EXCEEDED"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType classifies the request into a rate limit class based
// on the route being hit.
func getRateLimitType(c *gin.Context) string {
	path := c.Request.URL.Path
	method := c.Request.Method

	switch {
	case strings.HasSuffix(path, "/health") || strings.HasSuffix(path, "/ping") || strings.HasSuffix(path, "/status"):
		return "health"
	case strings.Contains(path, "/payments"):
		return "booking_critical"
	case strings.Contains(path, "/bookings") && method == http.MethodDelete:
		return "booking_critical"
	case strings.Contains(path, "/bookings"):
		return "booking"
	case strings.Contains(path, "/auth/"):
		return "auth"
	case strings.Contains(path, "/admin"):
		return "admin"
	case strings.Contains(path, "/events") && method == http.MethodGet:
		return "public"
	default:
		return "default"
	}
}

// getClientIP extracts the real client IP, honoring proxy headers.
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
