package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/application/entitlement/dto"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
	"github.com/coachly/coachly/internal/shared/constants"
	apperrors "github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

type EntitlementHandler struct {
	checkUC checkEntitlementUseCase
	logger  logger.Interface
}

func NewEntitlementHandler(checkUC checkEntitlementUseCase, logger logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{
		checkUC: checkUC,
		logger:  logger,
	}
}

// @Summary		Get my entitlement
// @Description	Returns whether the signed-in user may use paid features
// @Tags			entitlement
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.EntitlementDTO}	"Entitlement view"
// @Failure		401	{object}	utils.APIResponse							"Unauthorized"
// @Router			/me/entitlement [get]
func (h *EntitlementHandler) GetMyEntitlement(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", h.checkUC.Execute(c.Request.Context(), userID))
}

// @Summary		Get paid access
// @Description	Paid route guarded by the entitlement gate; echoes the entitlement that let the caller in
// @Tags			entitlement
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.EntitlementDTO}	"Access granted"
// @Success		303	"Redirect to the subscribe page for browsers"
// @Failure		401	{object}	utils.APIResponse	"Unauthorized"
// @Failure		402	{object}	utils.APIResponse	"Active subscription required"
// @Router			/app/access [get]
func (h *EntitlementHandler) GetPaidAccess(c *gin.Context) {
	view, ok := c.Get(constants.ContextKeyEntitlement)
	if !ok {
		utils.ErrorResponseWithError(c, apperrors.NewPaymentRequiredError("an active subscription is required"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", view.(*dto.EntitlementDTO))
}
