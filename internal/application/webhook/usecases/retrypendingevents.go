package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/application/webhook/dto"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/logger"
)

const defaultRetryBatch = 100

// RetryPendingEventsUseCase replays ledger rows that failed or whose worker
// died mid-processing. Each row is reclaimed first, so a sweep never races a
// live redelivery of the same event.
type RetryPendingEventsUseCase struct {
	ledger      webhook.IdempotencyRepository
	processor   EventProcessor
	lease       time.Duration
	maxAttempts int
	batchSize   int
	logger      logger.Interface
}

func NewRetryPendingEventsUseCase(
	ledger webhook.IdempotencyRepository,
	processor EventProcessor,
	lease time.Duration,
	maxAttempts int,
	batchSize int,
	logger logger.Interface,
) *RetryPendingEventsUseCase {
	if batchSize <= 0 {
		batchSize = defaultRetryBatch
	}
	return &RetryPendingEventsUseCase{
		ledger:      ledger,
		processor:   processor,
		lease:       lease,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Execute sweeps rows below the configured attempts cap.
func (uc *RetryPendingEventsUseCase) Execute(ctx context.Context) (int, error) {
	result, err := uc.Run(ctx, uc.maxAttempts)
	if result == nil {
		return 0, err
	}
	return result.Processed, err
}

// Run sweeps one batch. maxAttempts <= 0 retries rows regardless of how often
// they failed, which is what an operator-triggered retry wants.
func (uc *RetryPendingEventsUseCase) Run(ctx context.Context, maxAttempts int) (*dto.RetryResultDTO, error) {
	records, err := uc.ledger.FindRetryable(ctx, biztime.NowUTC(), uc.lease, maxAttempts, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to find retryable webhook events", "error", err)
		return nil, fmt.Errorf("failed to find retryable webhook events: %w", err)
	}

	result := &dto.RetryResultDTO{Found: len(records)}
	var errs []error
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		processed, err := uc.retry(ctx, record)
		switch {
		case err != nil:
			result.Failed++
			errs = append(errs, fmt.Errorf("event %s: %w", record.EventID(), err))
		case processed:
			result.Processed++
		default:
			result.Skipped++
		}
	}

	if result.Found > 0 {
		uc.logger.Infow("webhook retry sweep finished",
			"found", result.Found,
			"processed", result.Processed,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}

	return result, errors.Join(errs...)
}

func (uc *RetryPendingEventsUseCase) retry(ctx context.Context, record *webhook.IdempotencyRecord) (bool, error) {
	claim, stored, err := uc.ledger.Claim(ctx, record, uc.lease)
	if err != nil {
		return false, fmt.Errorf("failed to reclaim event: %w", err)
	}
	if !claim.Owned() {
		return false, nil
	}

	env, err := webhook.ParseEnvelope(stored.Payload(), stored.CreatedAt())
	if err != nil {
		// A stored payload that no longer parses cannot succeed on replay.
		uc.logger.Errorw("stored webhook payload is unreadable", "error", err, "event_id", stored.EventID())
		if markErr := uc.ledger.MarkFailed(ctx, stored.EventID(), webhook.TruncateError(err)); markErr != nil {
			return false, fmt.Errorf("failed to mark event failed: %w", markErr)
		}
		return false, err
	}

	uc.logger.Infow("retrying webhook event",
		"event_id", stored.EventID(),
		"event_type", stored.EventType(),
		"attempt", stored.Attempts(),
	)
	if err := uc.processor.Execute(ctx, env); err != nil {
		return false, err
	}
	return true, nil
}
