package middleware

import (
	"net/http"
	"strings"

	"breakfast-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextStaffID    = "staff_id"
	ContextStaffRole  = "staff_role"
	ContextPropertyID = "staff_property_id"
)

// RequireAuth validates the bearer token and injects the staff identity into
// the request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims")
			c.Abort()
			return
		}

		staffID, ok := claims["staff_id"].(float64)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims")
			c.Abort()
			return
		}

		c.Set(ContextStaffID, uint(staffID))
		if role, ok := claims["role"].(string); ok {
			c.Set(ContextStaffRole, role)
		}
		if propertyID, ok := claims["property_id"].(string); ok {
			c.Set(ContextPropertyID, propertyID)
		}
		c.Next()
	}
}

// StaffID returns the authenticated staff id from the request context.
func StaffID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextStaffID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
