package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/scheduling-api/internal/handler"
	"github.com/clinicdesk/scheduling-api/internal/service/auth"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

type AuthMiddleware struct {
	authSvc *auth.Service
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Authenticate validates the bearer token (signature, expiry, revocation)
// and stores the caller's identity on the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing or malformed authorization header"))
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}
