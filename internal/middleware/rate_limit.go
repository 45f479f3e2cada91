package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"gamerent/pkg/log"
)

// RateLimitConfig configures per-key token bucket limiting
type RateLimitConfig struct {
	// Rate is the sustained requests per second allowed per key
	Rate float64
	// Burst is the maximum burst size per key
	Burst int
	// KeyFunc derives the bucket key from the request
	KeyFunc func(c *gin.Context) string
	// ErrorHandler writes the rejection response
	ErrorHandler func(c *gin.Context)
}

// DefaultRateLimitConfig limits per client IP
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:  10,
		Burst: 20,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		ErrorHandler: func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "Too many requests",
			})
		},
	}
}

// IPRateLimit limits each client IP to rps sustained requests per second
func IPRateLimit(rps float64, burst int) gin.HandlerFunc {
	config := DefaultRateLimitConfig()
	config.Rate = rps
	config.Burst = burst
	return RateLimitWithConfig(config)
}

// RateLimitWithConfig builds the middleware from a custom configuration
func RateLimitWithConfig(config RateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		mu.Lock()
		limiter, exists := limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(config.Rate), config.Burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			log.WithFields(map[string]interface{}{
				"key":    key,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warn("Rate limit exceeded")

			config.ErrorHandler(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
