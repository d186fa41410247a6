package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/application/webhook/usecases"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/logger"
	"github.com/coachly/coachly/internal/shared/utils"
)

// MaxWebhookBodyBytes caps a single delivery.
const MaxWebhookBodyBytes = 1 << 20

// WebhookHandler receives subscription notifications from the payment processor.
type WebhookHandler struct {
	receiveUC receiveWebhookUseCase
	logger    logger.Interface
}

func NewWebhookHandler(receiveUC receiveWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		receiveUC: receiveUC,
		logger:    logger,
	}
}

// WebhookResponse acknowledges a delivery. The processor only looks at the status code.
type WebhookResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

// @Summary		Receive subscription webhook
// @Description	Authenticates a processor delivery, records it in the idempotency ledger and applies it
// @Tags			webhooks
// @Accept			json
// @Produce		json
// @Param			Paypal-Transmission-Id		header		string			true	"Transmission id"
// @Param			Paypal-Transmission-Time	header		string			true	"Transmission time"
// @Param			Paypal-Transmission-Sig		header		string			true	"Base64 HMAC-SHA256 signature"
// @Success		200							{object}	WebhookResponse	"Delivery acknowledged"
// @Failure		400							{object}	utils.APIResponse	"Malformed event"
// @Failure		401							{object}	utils.APIResponse	"Invalid signature"
// @Failure		413							{object}	utils.APIResponse	"Body too large"
// @Failure		500							{object}	utils.APIResponse	"Processing failed, redeliver"
// @Router			/webhooks/subscriptions [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warnw("webhook body too large", "client_ip", c.ClientIP(), "limit", tooLarge.Limit)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	cmd := usecases.ReceiveWebhookCommand{
		Headers: webhook.SignatureHeaders{
			TransmissionID:   c.GetHeader(webhook.HeaderTransmissionID),
			TransmissionTime: c.GetHeader(webhook.HeaderTransmissionTime),
			TransmissionSig:  c.GetHeader(webhook.HeaderTransmissionSig),
		},
		Body:     body,
		ClientIP: c.ClientIP(),
	}

	ack, err := h.receiveUC.Execute(c.Request.Context(), cmd)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, WebhookResponse{
			Received: true,
			EventID:  ack.EventID,
			Status:   ack.Status,
		})
	case errors.Is(err, webhook.ErrInvalidSignature):
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook signature")
	case errors.Is(err, webhook.ErrMalformedEvent):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw("failed to handle webhook delivery", "error", err, "transmission_id", cmd.Headers.TransmissionID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to process webhook")
	}
}
