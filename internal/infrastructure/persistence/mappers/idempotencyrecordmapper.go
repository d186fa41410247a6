package mappers

import (
	"gorm.io/datatypes"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/mapper"
)

type IdempotencyRecordMapper interface {
	ToEntity(model *models.IdempotencyRecordModel) (*webhook.IdempotencyRecord, error)
	ToModel(entity *webhook.IdempotencyRecord) *models.IdempotencyRecordModel
	ToEntities(models []*models.IdempotencyRecordModel) ([]*webhook.IdempotencyRecord, error)
}

type IdempotencyRecordMapperImpl struct{}

func NewIdempotencyRecordMapper() IdempotencyRecordMapper {
	return &IdempotencyRecordMapperImpl{}
}

func (m *IdempotencyRecordMapperImpl) ToEntity(model *models.IdempotencyRecordModel) (*webhook.IdempotencyRecord, error) {
	if model == nil {
		return nil, nil
	}

	return webhook.ReconstructIdempotencyRecord(
		model.ID,
		model.EventID,
		model.EventType,
		model.ResourceID,
		valueobjects.LedgerStatus(model.Status),
		[]byte(model.Payload),
		model.PayloadHash,
		model.OutcomeHash,
		model.Attempts,
		model.LastError,
		model.ClaimedAt.UTC(),
		utcPtr(model.ProcessedAt),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *IdempotencyRecordMapperImpl) ToModel(entity *webhook.IdempotencyRecord) *models.IdempotencyRecordModel {
	if entity == nil {
		return nil
	}

	return &models.IdempotencyRecordModel{
		ID:          entity.ID(),
		EventID:     entity.EventID(),
		EventType:   entity.EventType(),
		ResourceID:  entity.ResourceID(),
		Status:      entity.Status().String(),
		Payload:     datatypes.JSON(entity.Payload()),
		PayloadHash: entity.PayloadHash(),
		OutcomeHash: entity.OutcomeHash(),
		Attempts:    entity.Attempts(),
		LastError:   entity.LastError(),
		ClaimedAt:   entity.ClaimedAt(),
		ProcessedAt: entity.ProcessedAt(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *IdempotencyRecordMapperImpl) ToEntities(models []*models.IdempotencyRecordModel) ([]*webhook.IdempotencyRecord, error) {
	return mapper.MapSliceWithError(models, m.ToEntity)
}
