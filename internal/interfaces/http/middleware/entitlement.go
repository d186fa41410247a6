package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/application/entitlement/dto"
	"github.com/coachly/coachly/internal/shared/constants"
	apperrors "github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

type entitlementChecker interface {
	Execute(ctx context.Context, userID string) *dto.EntitlementDTO
}

// EntitlementMiddleware guards paid routes. Only an active subscription passes;
// a read failure is treated as not entitled.
type EntitlementMiddleware struct {
	checker       entitlementChecker
	subscribePath string
	logger        logger.Interface
}

func NewEntitlementMiddleware(checker entitlementChecker, subscribePath string, logger logger.Interface) *EntitlementMiddleware {
	if subscribePath == "" {
		subscribePath = "/subscription"
	}
	return &EntitlementMiddleware{
		checker:       checker,
		subscribePath: subscribePath,
		logger:        logger,
	}
}

// RequireEntitlement must run after RequireAuth. Browsers are sent to the
// subscribe page, API clients get 402.
func (m *EntitlementMiddleware) RequireEntitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "user not authenticated")
			return
		}

		view := m.checker.Execute(c.Request.Context(), userID)
		if view.Entitled {
			c.Set(constants.ContextKeyEntitlement, view)
			c.Next()
			return
		}

		m.logger.Debugw("entitlement required",
			"user_id", userID,
			"status", view.Status,
			"path", c.Request.URL.Path,
		)

		if wantsHTML(c) {
			c.Redirect(http.StatusSeeOther, m.subscribePath)
			c.Abort()
			return
		}

		utils.AbortWithAppError(c, apperrors.NewPaymentRequiredError("an active subscription is required", "status: "+view.Status))
	}
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), gin.MIMEHTML)
}
