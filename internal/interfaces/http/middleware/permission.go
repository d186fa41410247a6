package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

type policyEnforcer interface {
	Enforce(subjects []string, resource string, action string) (bool, error)
}

// PermissionMiddleware checks the caller against the Casbin policy. The user
// id and every role from the access token are tried as subjects.
type PermissionMiddleware struct {
	enforcer policyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer policyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		subjects := append([]string{userID}, CurrentUserRoles(c)...)
		allowed, err := m.enforcer.Enforce(subjects, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", resource, "action", action)
			utils.AbortWithError(c, http.StatusInternalServerError, "permission check failed")
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "resource", resource, "action", action)
			utils.AbortWithError(c, http.StatusForbidden, "insufficient permissions")
			return
		}

		c.Next()
	}
}
