package mappers

import (
	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	return subscription.ReconstructSubscription(
		model.ID,
		model.SID,
		model.UserID,
		model.ExternalSubscriptionID,
		model.PlanID,
		vo.SubscriptionStatus(model.Status),
		utcPtr(model.StartDate),
		utcPtr(model.CancelledAt),
		model.CancelReason,
		utcPtr(model.NextBillingDate),
		timeOrZero(model.LastEventTime),
		timeOrZero(model.LastPaymentEventTime),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}

	return &models.SubscriptionModel{
		ID:                     entity.ID(),
		SID:                    entity.SID(),
		UserID:                 entity.UserID(),
		ExternalSubscriptionID: entity.ExternalSubscriptionID(),
		PlanID:                 entity.PlanID(),
		Status:                 entity.Status().String(),
		StartDate:              entity.StartDate(),
		CancelledAt:            entity.CancelledAt(),
		CancelReason:           entity.CancelReason(),
		NextBillingDate:        entity.NextBillingDate(),
		LastEventTime:          nullableTime(entity.LastEventTime()),
		LastPaymentEventTime:   nullableTime(entity.LastPaymentEventTime()),
		Version:                entity.Version(),
		CreatedAt:              entity.CreatedAt(),
		UpdatedAt:              entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSliceWithError(models, m.ToEntity)
}
