package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireValidChannel ensures the ":channel" path param is an int > 0.
// Range checks against the configured channel maximum stay with the service
// layer; this is purely syntactic.
func RequireValidChannel() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := strconv.ParseInt(c.Param("channel"), 10, 64)
		if err != nil || v <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid channel"})
			return
		}
		c.Next()
	}
}
