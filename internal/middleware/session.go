package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/internal/service"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/response"
)

// ContextSessionKey is the gin context key storing owner session claims.
const ContextSessionKey = "currentSession"

// Session protects owner dashboard routes by requiring a valid session token.
func Session(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := sessions.Validate(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// OwnerKey extracts the authenticated owner key from the gin context.
func OwnerKey(c *gin.Context) (string, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return "", false
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return "", false
	}
	return claims.OwnerKey, true
}
