package http

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit"
)

// RateLimit keys on the client IP and calls reject once the limit is hit.
// A nil limiter lets everything through; limiter errors fail open.
func RateLimit(l ratelimit.Limiter, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limit: %v", err)
			c.Next()
			return
		}
		if !ok {
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
