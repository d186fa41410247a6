package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/logger"
)

// PurgeIdempotencyRecordsUseCase deletes completed ledger rows past retention.
// Pending and failed rows are never purged.
type PurgeIdempotencyRecordsUseCase struct {
	ledger    webhook.IdempotencyRepository
	retention time.Duration
	logger    logger.Interface
}

func NewPurgeIdempotencyRecordsUseCase(
	ledger webhook.IdempotencyRepository,
	retention time.Duration,
	logger logger.Interface,
) *PurgeIdempotencyRecordsUseCase {
	return &PurgeIdempotencyRecordsUseCase{
		ledger:    ledger,
		retention: retention,
		logger:    logger,
	}
}

func (uc *PurgeIdempotencyRecordsUseCase) Execute(ctx context.Context) (int, error) {
	if uc.retention <= 0 {
		return 0, nil
	}

	cutoff := biztime.NowUTC().Add(-uc.retention)
	purged, err := uc.ledger.PurgeCompletedBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to purge idempotency records", "error", err, "cutoff", cutoff)
		return 0, fmt.Errorf("failed to purge idempotency records: %w", err)
	}

	if purged > 0 {
		uc.logger.Infow("idempotency records purged", "count", purged, "cutoff", cutoff)
	}
	return int(purged), nil
}
