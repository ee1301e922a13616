package middleware

import (
	"net/http"

	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission creates middleware that requires a specific permission.
// It must run after JWTAuthMiddleware has stored the claims.
func RequirePermission(permission identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if !claims.HasPermission(string(permission)) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Access denied: insufficient permissions", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the authenticated user holds the permission
func HasPermission(c *gin.Context, permission identity.Permission) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasPermission(string(permission))
}
