package usecases

import (
	"context"
	"fmt"

	"github.com/coachly/coachly/internal/application/webhook/dto"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
)

type GetWebhookEventUseCase struct {
	ledger webhook.IdempotencyRepository
	logger logger.Interface
}

func NewGetWebhookEventUseCase(ledger webhook.IdempotencyRepository, logger logger.Interface) *GetWebhookEventUseCase {
	return &GetWebhookEventUseCase{
		ledger: ledger,
		logger: logger,
	}
}

func (uc *GetWebhookEventUseCase) Execute(ctx context.Context, eventID string) (*dto.LedgerRecordDTO, error) {
	if eventID == "" {
		return nil, errors.NewValidationError("event ID is required")
	}

	record, err := uc.ledger.GetByEventID(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to get webhook event", "error", err, "event_id", eventID)
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}
	if record == nil {
		return nil, errors.NewNotFoundError("webhook event not found")
	}

	return dto.ToLedgerRecordDTO(record), nil
}
