package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/application/subscription/usecases"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

// SubscriptionHandler serves the signed-in user's own subscription.
type SubscriptionHandler struct {
	registerCheckoutUC registerCheckoutUseCase
	getCurrentUC       getCurrentSubscriptionUseCase
	logger             logger.Interface
}

func NewSubscriptionHandler(
	registerCheckoutUC registerCheckoutUseCase,
	getCurrentUC getCurrentSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		registerCheckoutUC: registerCheckoutUC,
		getCurrentUC:       getCurrentUC,
		logger:             logger,
	}
}

// RegisterCheckoutRequest is sent by the web app once the buyer approved the
// subscription at the processor.
type RegisterCheckoutRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required,max=128" example:"I-BW452GLLEP1G"`
	PlanID         string `json:"plan_id" binding:"max=128" example:"P-5ML4271244454362WXNWU5NQ"`
}

// @Summary		Register checkout
// @Description	Binds an approved processor subscription to the signed-in user as pending
// @Tags			subscriptions
// @Accept			json
// @Produce		json
// @Security		Bearer
// @Param			checkout	body		RegisterCheckoutRequest							true	"Checkout data"
// @Success		200			{object}	utils.APIResponse{data=dto.SubscriptionDTO}	"Checkout registered"
// @Failure		400			{object}	utils.APIResponse								"Bad request"
// @Failure		401			{object}	utils.APIResponse								"Unauthorized"
// @Failure		409			{object}	utils.APIResponse								"Subscription belongs to another user"
// @Router			/subscriptions/checkout [post]
func (h *SubscriptionHandler) RegisterCheckout(c *gin.Context) {
	var req RegisterCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register checkout", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "subscription_id is required")
		return
	}

	result, err := h.registerCheckoutUC.Execute(c.Request.Context(), usecases.RegisterCheckoutCommand{
		UserID:                 middleware.CurrentUserID(c),
		ExternalSubscriptionID: req.SubscriptionID,
		PlanID:                 req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkout registered", result)
}

// @Summary		Get my subscription
// @Description	Returns the canonical subscription of the signed-in user
// @Tags			subscriptions
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.SubscriptionDTO}	"Subscription"
// @Failure		401	{object}	utils.APIResponse								"Unauthorized"
// @Failure		404	{object}	utils.APIResponse								"No subscription"
// @Router			/me/subscription [get]
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	result, err := h.getCurrentUC.Execute(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
