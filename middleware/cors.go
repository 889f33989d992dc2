// api/middleware/cors.go
package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides a Gin middleware function for handling Cross-Origin Resource Sharing.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// During development this is the dashboard's dev server; override
		// with FE_ORIGIN in deployment. Avoid "*" in production.
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
		if os.Getenv("FE_ORIGIN") != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FE_ORIGIN"))
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		// Preflight requests get a 204 before the router runs.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
