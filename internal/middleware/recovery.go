package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Recovery turns panics into sanitized 500 responses. The client gets only a
// correlation id; the detail stays in the server log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				correlationID := uuid.New().String()
				log.Printf("panic [%s] %s %s: %v", correlationID, c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":          "internal server error",
					"correlation_id": correlationID,
				})
			}
		}()
		c.Next()
	}
}
