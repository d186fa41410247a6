package mappers

import (
	"github.com/coachly/coachly/internal/domain/entitlement"
	subscriptionvo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
)

type UserEntitlementMapper interface {
	ToEntity(model *models.UserEntitlementModel) (*entitlement.UserEntitlement, error)
	ToModel(entity *entitlement.UserEntitlement) *models.UserEntitlementModel
}

type UserEntitlementMapperImpl struct{}

func NewUserEntitlementMapper() UserEntitlementMapper {
	return &UserEntitlementMapperImpl{}
}

func (m *UserEntitlementMapperImpl) ToEntity(model *models.UserEntitlementModel) (*entitlement.UserEntitlement, error) {
	if model == nil {
		return nil, nil
	}

	return entitlement.ReconstructUserEntitlement(
		model.UserID,
		model.SubscriptionID,
		subscriptionvo.SubscriptionStatus(model.CachedStatus),
		timeOrZero(model.SyncedAsOfEventTime),
		model.UpdatedAt,
	)
}

func (m *UserEntitlementMapperImpl) ToModel(entity *entitlement.UserEntitlement) *models.UserEntitlementModel {
	if entity == nil {
		return nil
	}

	return &models.UserEntitlementModel{
		UserID:              entity.UserID(),
		SubscriptionID:      entity.SubscriptionID(),
		CachedStatus:        entity.CachedStatus().String(),
		SyncedAsOfEventTime: nullableTime(entity.SyncedAsOfEventTime()),
		UpdatedAt:           entity.UpdatedAt(),
	}
}
