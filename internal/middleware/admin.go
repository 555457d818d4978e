package middleware

import (
	"net/http"

	"bayanihan/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks that the authenticated user holds the admin role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, domain.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
