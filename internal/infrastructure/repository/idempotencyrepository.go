package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/mappers"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/logger"
)

type IdempotencyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IdempotencyRecordMapper
	logger logger.Interface
}

func NewIdempotencyRepository(db *gorm.DB, logger logger.Interface) webhook.IdempotencyRepository {
	return &IdempotencyRepositoryImpl{
		db:     db,
		mapper: mappers.NewIdempotencyRecordMapper(),
		logger: logger,
	}
}

func (r *IdempotencyRepositoryImpl) Claim(
	ctx context.Context,
	record *webhook.IdempotencyRecord,
	lease time.Duration,
) (valueobjects.ClaimResult, *webhook.IdempotencyRecord, error) {
	model := r.mapper.ToModel(record)
	tx := db.GetTxFromContext(ctx, r.db)

	// Insert-if-absent on the unique event_id decides the first claimant.
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to insert idempotency record", "event_id", model.EventID, "error", result.Error)
		return 0, nil, fmt.Errorf("failed to claim event: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		record.SetID(model.ID)
		return valueobjects.ClaimAcquired, record, nil
	}

	var stored models.IdempotencyRecordModel
	if err := tx.Where("event_id = ?", model.EventID).First(&stored).Error; err != nil {
		r.logger.Errorw("failed to load claimed idempotency record", "event_id", model.EventID, "error", err)
		return 0, nil, fmt.Errorf("failed to load claimed event: %w", err)
	}

	existing, err := r.mapper.ToEntity(&stored)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to map idempotency record: %w", err)
	}

	now := biztime.NowUTC()
	switch existing.Status() {
	case valueobjects.LedgerStatusCompleted:
		return valueobjects.ClaimDuplicate, existing, nil
	case valueobjects.LedgerStatusPending:
		if !existing.LeaseExpired(now, lease) {
			return valueobjects.ClaimInFlight, existing, nil
		}
	case valueobjects.LedgerStatusFailed:
	}

	// Take the row over only if nobody else did since it was read.
	takeover := tx.Model(&models.IdempotencyRecordModel{}).
		Where("id = ? AND status = ? AND attempts = ?", stored.ID, stored.Status, stored.Attempts).
		Updates(map[string]interface{}{
			"status":     valueobjects.LedgerStatusPending.String(),
			"attempts":   gorm.Expr("attempts + 1"),
			"claimed_at": now,
			"updated_at": now,
		})
	if takeover.Error != nil {
		r.logger.Errorw("failed to reclaim idempotency record", "event_id", model.EventID, "error", takeover.Error)
		return 0, nil, fmt.Errorf("failed to reclaim event: %w", takeover.Error)
	}
	if takeover.RowsAffected == 0 {
		return valueobjects.ClaimInFlight, existing, nil
	}

	reclaimed, err := webhook.ReconstructIdempotencyRecord(
		existing.ID(),
		existing.EventID(),
		existing.EventType(),
		existing.ResourceID(),
		valueobjects.LedgerStatusPending,
		existing.Payload(),
		existing.PayloadHash(),
		existing.OutcomeHash(),
		existing.Attempts()+1,
		existing.LastError(),
		now,
		existing.ProcessedAt(),
		existing.CreatedAt(),
		now,
	)
	if err != nil {
		return 0, nil, err
	}

	r.logger.Infow("idempotency record reclaimed",
		"event_id", model.EventID,
		"previous_status", stored.Status,
		"attempts", reclaimed.Attempts(),
	)
	return valueobjects.ClaimReacquired, reclaimed, nil
}

func (r *IdempotencyRepositoryImpl) GetByEventID(ctx context.Context, eventID string) (*webhook.IdempotencyRecord, error) {
	var model models.IdempotencyRecordModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("event_id = ?", eventID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get idempotency record", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map idempotency record: %w", err)
	}
	return entity, nil
}

func (r *IdempotencyRepositoryImpl) MarkCompleted(ctx context.Context, eventID, outcomeHash string) error {
	now := biztime.NowUTC()
	return r.mark(ctx, eventID, map[string]interface{}{
		"status":       valueobjects.LedgerStatusCompleted.String(),
		"outcome_hash": outcomeHash,
		"last_error":   "",
		"processed_at": now,
		"updated_at":   now,
	})
}

func (r *IdempotencyRepositoryImpl) MarkFailed(ctx context.Context, eventID, reason string) error {
	return r.mark(ctx, eventID, map[string]interface{}{
		"status":     valueobjects.LedgerStatusFailed.String(),
		"last_error": reason,
		"updated_at": biztime.NowUTC(),
	})
}

// mark never downgrades a completed row.
func (r *IdempotencyRepositoryImpl) mark(ctx context.Context, eventID string, updates map[string]interface{}) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.IdempotencyRecordModel{}).
		Where("event_id = ? AND status <> ?", eventID, valueobjects.LedgerStatusCompleted.String()).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to update idempotency record", "event_id", eventID, "status", updates["status"], "error", result.Error)
		return fmt.Errorf("failed to update idempotency record: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.IdempotencyRecordModel{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check idempotency record: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", webhook.ErrRecordNotFound, eventID)
	}
	return nil
}

func (r *IdempotencyRepositoryImpl) FindRetryable(
	ctx context.Context,
	now time.Time,
	lease time.Duration,
	maxAttempts, limit int,
) ([]*webhook.IdempotencyRecord, error) {
	var recordModels []*models.IdempotencyRecordModel

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Where(
		"status = ? OR (status = ? AND claimed_at <= ?)",
		valueobjects.LedgerStatusFailed.String(),
		valueobjects.LedgerStatusPending.String(),
		biztime.ToUTC(now.Add(-lease)),
	)
	if maxAttempts > 0 {
		query = query.Where("attempts < ?", maxAttempts)
	}
	if err := query.Order("claimed_at ASC").Limit(limit).Find(&recordModels).Error; err != nil {
		r.logger.Errorw("failed to query retryable idempotency records", "error", err)
		return nil, fmt.Errorf("failed to query retryable events: %w", err)
	}

	entities, err := r.mapper.ToEntities(recordModels)
	if err != nil {
		return nil, fmt.Errorf("failed to map idempotency records: %w", err)
	}
	return entities, nil
}

func (r *IdempotencyRepositoryImpl) PurgeCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("status = ? AND processed_at < ?", valueobjects.LedgerStatusCompleted.String(), biztime.ToUTC(cutoff)).
		Delete(&models.IdempotencyRecordModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to purge idempotency records", "cutoff", cutoff, "error", result.Error)
		return 0, fmt.Errorf("failed to purge idempotency records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
