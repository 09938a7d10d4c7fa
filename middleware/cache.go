package middleware

import "github.com/gin-gonic/gin"

// NoStoreMiddleware marks API responses as uncacheable
func NoStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
