package middleware

import (
	"log"
	"runtime/debug"

	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered on %s %s [%s]: %v\n%s",
					c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), err, debug.Stack())
				utils.TrackError("server", "panic")
				utils.InternalError(c, "Server error")
			}
		}()
		c.Next()
	}
}
