package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/property-listings-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/property-listings-backend/internal/pkg/httputil"
)

const (
	// UserIDKey holds the authenticated agent id; handlers read it through
	// httputil.GetUserID.
	UserIDKey    = "user_id"
	BearerPrefix = "Bearer "
)

type AuthMiddleware struct {
	jwtSvc *auth.JWTService
}

func NewAuthMiddleware(jwtSvc *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httputil.HandleError(c, apperror.Unauthorized("bearer token required"))
			c.Abort()
			return
		}

		agentID, err := m.jwtSvc.ValidateAccessToken(token)
		if err != nil {
			httputil.HandleError(c, apperror.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, agentID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}
