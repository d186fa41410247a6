package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/mappers"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model := r.mapper.ToModel(subscriptionEntity)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to create subscription",
			"external_subscription_id", model.ExternalSubscriptionID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to create subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", subscription.ErrSubscriptionExists, model.ExternalSubscriptionID)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created",
		"sid", model.SID,
		"external_subscription_id", model.ExternalSubscriptionID,
		"user_id", model.UserID,
	)
	return nil
}

// Update is a compare-and-swap on version: it only writes when nobody else
// wrote the row since it was read.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model := r.mapper.ToModel(subscriptionEntity)

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"user_id":                 model.UserID,
			"plan_id":                 model.PlanID,
			"status":                  model.Status,
			"start_date":              model.StartDate,
			"cancelled_at":            model.CancelledAt,
			"cancel_reason":           model.CancelReason,
			"next_billing_date":       model.NextBillingDate,
			"last_event_time":         model.LastEventTime,
			"last_payment_event_time": model.LastPaymentEventTime,
			"version":                 model.Version + 1,
			"updated_at":              model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrVersionConflict(model.ExternalSubscriptionID, model.Version)
	}

	subscriptionEntity.MarkPersisted()
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByExternalID(ctx context.Context, externalSubscriptionID string) (*subscription.Subscription, error) {
	return r.first(ctx, "external_subscription_id = ?", externalSubscriptionID)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *SubscriptionRepositoryImpl) FindNonTerminalByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	var subscriptionModels []*models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("user_id = ? AND status IN ?", userID, nonTerminalStatuses()).
		Order("id ASC").
		Find(&subscriptionModels).Error; err != nil {
		r.logger.Errorw("failed to query non-terminal subscriptions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subscriptionModels)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) FindCurrentByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.Where("user_id = ? AND status IN ?", userID, nonTerminalStatuses()).
		Order("id DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = tx.Where("user_id = ?", userID).
			Order("last_event_time DESC").
			Order("id DESC").
			First(&model).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get current subscription", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get current subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) first(ctx context.Context, query string, arg string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription", "query", query, "value", arg, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}
	return entity, nil
}

func nonTerminalStatuses() []string {
	statuses := make([]string, 0, len(vo.NonTerminalStatuses))
	for _, s := range vo.NonTerminalStatuses {
		statuses = append(statuses, s.String())
	}
	return statuses
}
