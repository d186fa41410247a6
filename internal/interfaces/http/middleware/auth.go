package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/infrastructure/auth"
	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

// AccessTokenCookie is the cookie the web app stores the identity token in.
const AccessTokenCookie = "access_token"

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier tokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier tokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
			utils.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(constants.ContextKeyUserID, claims.Subject)
		c.Set(constants.ContextKeyUserRoles, claims.Roles)

		c.Next()
	}
}

// bearerToken reads the Authorization header first and falls back to the cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader(constants.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	token, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// CurrentUserID returns the authenticated user id, empty when unauthenticated.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserID)
}

// CurrentUserRoles returns the roles carried by the access token.
func CurrentUserRoles(c *gin.Context) []string {
	return c.GetStringSlice(constants.ContextKeyUserRoles)
}
