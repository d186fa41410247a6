package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachly/coachly/internal/domain/entitlement"
	"github.com/coachly/coachly/internal/infrastructure/persistence/mappers"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/logger"
)

type UserEntitlementRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserEntitlementMapper
	logger logger.Interface
}

func NewUserEntitlementRepository(db *gorm.DB, logger logger.Interface) entitlement.Repository {
	return &UserEntitlementRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserEntitlementMapper(),
		logger: logger,
	}
}

func (r *UserEntitlementRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*entitlement.UserEntitlement, error) {
	var model models.UserEntitlementModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user entitlement", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user entitlement: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map user entitlement model to entity", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map user entitlement: %w", err)
	}
	return entity, nil
}

func (r *UserEntitlementRepositoryImpl) Upsert(ctx context.Context, entity *entitlement.UserEntitlement) error {
	model := r.mapper.ToModel(entity)

	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"subscription_id", "cached_status", "synced_as_of_event_time", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert user entitlement", "user_id", model.UserID, "error", err)
		return fmt.Errorf("failed to upsert user entitlement: %w", err)
	}
	return nil
}

// divergenceQuery selects users whose cached row does not mirror their
// canonical subscription. A user diverges when it has no row, when the
// mirrored subscription moved past the row, when a non-terminal
// subscription is not the mirrored one, or when the row mirrors a closed
// subscription and a more recent one exists.
var divergenceQuery = fmt.Sprintf(`
SELECT DISTINCT s.user_id
FROM %[1]s s
LEFT JOIN %[2]s e ON e.user_id = s.user_id
WHERE s.user_id <> ''
  AND (
    e.user_id IS NULL
    OR (
      e.subscription_id = s.external_subscription_id
      AND (
        e.cached_status <> s.status
        OR (s.last_event_time IS NOT NULL
            AND (e.synced_as_of_event_time IS NULL OR e.synced_as_of_event_time < s.last_event_time))
      )
    )
    OR (s.status IN ? AND e.subscription_id <> s.external_subscription_id)
    OR (
      e.subscription_id <> s.external_subscription_id
      AND e.cached_status NOT IN ?
      AND s.last_event_time > e.synced_as_of_event_time
    )
  )
ORDER BY s.user_id
LIMIT ?`, constants.TableSubscriptions, constants.TableUserEntitlements)

func (r *UserEntitlementRepositoryImpl) FindDivergentUserIDs(ctx context.Context, limit int) ([]string, error) {
	var userIDs []string

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Raw(divergenceQuery, nonTerminalStatuses(), nonTerminalStatuses(), limit).Scan(&userIDs).Error; err != nil {
		r.logger.Errorw("failed to query divergent entitlements", "error", err)
		return nil, fmt.Errorf("failed to query divergent entitlements: %w", err)
	}
	return userIDs, nil
}
