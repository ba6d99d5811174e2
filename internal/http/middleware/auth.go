package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/http/response"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealprep-backend/internal/platform/logger"
	"github.com/yungbote/mealprep-backend/internal/services"
)

var (
	errInvalidToken   = errors.New("missing or invalid token")
	errNoOrganization = errors.New("token is not scoped to an organization")
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth resolves the bearer token into request data. Every kitchen
// endpoint is organization scoped, so a token without an org is forbidden.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errInvalidToken)
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.WithContext(c.Request.Context()).Debug("Token rejected", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errInvalidToken)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil || rd.OrganizationID == uuid.Nil {
			response.AbortError(c, http.StatusForbidden, "forbidden", errNoOrganization)
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
