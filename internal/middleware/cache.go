package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// PrivateCache lets the browser reuse per-user responses for maxAge. The
// response varies by token so shared caches never serve it across users.
func PrivateCache(maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(maxAge.Seconds())))
		c.Header("Vary", "Authorization")
		c.Next()
	}
}

// NoStore disables caching, for responses that must reflect the session
// as it is right now.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
