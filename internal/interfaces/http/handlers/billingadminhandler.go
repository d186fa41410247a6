package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/application/subscription/usecases"
	"github.com/coachly/coachly/internal/shared/id"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

// BillingAdminHandler exposes operator tooling for the billing subsystem.
type BillingAdminHandler struct {
	getSubscriptionUC getSubscriptionUseCase
	reconcileUC       reconcileEntitlementsUseCase
	retryEventsUC     retryPendingEventsUseCase
	getEventUC        getWebhookEventUseCase
	logger            logger.Interface
}

func NewBillingAdminHandler(
	getSubscriptionUC getSubscriptionUseCase,
	reconcileUC reconcileEntitlementsUseCase,
	retryEventsUC retryPendingEventsUseCase,
	getEventUC getWebhookEventUseCase,
	logger logger.Interface,
) *BillingAdminHandler {
	return &BillingAdminHandler{
		getSubscriptionUC: getSubscriptionUC,
		reconcileUC:       reconcileUC,
		retryEventsUC:     retryEventsUC,
		getEventUC:        getEventUC,
		logger:            logger,
	}
}

// @Summary		Get subscription
// @Description	Looks a subscription up by processor id or by its sub_ id
// @Tags			admin-billing
// @Produce		json
// @Security		Bearer
// @Param			external_id	path		string											true	"Processor subscription id or sub_ id"
// @Success		200			{object}	utils.APIResponse{data=dto.SubscriptionDTO}	"Subscription"
// @Failure		403			{object}	utils.APIResponse								"Forbidden"
// @Failure		404			{object}	utils.APIResponse								"Not found"
// @Router			/admin/billing/subscriptions/{external_id} [get]
func (h *BillingAdminHandler) GetSubscription(c *gin.Context) {
	key := c.Param("external_id")

	query := usecases.GetSubscriptionQuery{ExternalSubscriptionID: key}
	if id.ValidatePrefix(key, id.PrefixSubscription) == nil {
		query = usecases.GetSubscriptionQuery{SID: key}
	}

	result, err := h.getSubscriptionUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// @Summary		Reconcile entitlements
// @Description	Runs one reconciliation pass and repairs divergent entitlements
// @Tags			admin-billing
// @Produce		json
// @Security		Bearer
// @Success		200	{object}	utils.APIResponse{data=dto.ReconcileResultDTO}	"Pass summary"
// @Failure		403	{object}	utils.APIResponse								"Forbidden"
// @Failure		500	{object}	utils.APIResponse								"Some repairs failed"
// @Router			/admin/billing/reconcile [post]
func (h *BillingAdminHandler) Reconcile(c *gin.Context) {
	result, err := h.reconcileUC.Run(c.Request.Context())
	if err != nil {
		h.logger.Errorw("reconciliation requested by operator failed", "error", err)
		if result == nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusInternalServerError, "Reconciliation finished with failures", result)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reconciliation finished", result)
}

// @Summary		Retry webhook events
// @Description	Re-drives failed and stalled ledger rows. max_attempts=0 ignores the attempts cap
// @Tags			admin-billing
// @Produce		json
// @Security		Bearer
// @Param			max_attempts	query		int												false	"Only rows with fewer attempts"
// @Success		200				{object}	utils.APIResponse{data=dto.RetryResultDTO}	"Sweep summary"
// @Failure		400				{object}	utils.APIResponse								"Bad request"
// @Failure		403				{object}	utils.APIResponse								"Forbidden"
// @Router			/admin/billing/events/retry [post]
func (h *BillingAdminHandler) RetryEvents(c *gin.Context) {
	maxAttempts := 0
	if raw := c.Query("max_attempts"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "max_attempts must be a non-negative integer")
			return
		}
		maxAttempts = parsed
	}

	result, err := h.retryEventsUC.Run(c.Request.Context(), maxAttempts)
	if err != nil {
		h.logger.Errorw("event retry requested by operator failed", "error", err)
		if result == nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusInternalServerError, "Retry finished with failures", result)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Retry finished", result)
}

// @Summary		Get webhook event
// @Description	Returns the ledger row of one processor event
// @Tags			admin-billing
// @Produce		json
// @Security		Bearer
// @Param			event_id	path		string											true	"Processor event id"
// @Success		200			{object}	utils.APIResponse{data=dto.LedgerRecordDTO}	"Ledger row"
// @Failure		403			{object}	utils.APIResponse								"Forbidden"
// @Failure		404			{object}	utils.APIResponse								"Not found"
// @Router			/admin/billing/events/{event_id} [get]
func (h *BillingAdminHandler) GetWebhookEvent(c *gin.Context) {
	result, err := h.getEventUC.Execute(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
