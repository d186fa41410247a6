package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachly/coachly/internal/shared/constants"
)

// IdempotencyRecordModel is one ledger row per processor event id.
type IdempotencyRecordModel struct {
	ID          uint           `gorm:"primarykey"`
	EventID     string         `gorm:"uniqueIndex;not null;size:128"`
	EventType   string         `gorm:"not null;size:128"`
	ResourceID  string         `gorm:"not null;size:128;index"`
	Status      string         `gorm:"not null;size:20;index:idx_idempotency_status_claimed,priority:1"`
	Payload     datatypes.JSON `gorm:"not null"`
	PayloadHash string         `gorm:"not null;size:64"`
	OutcomeHash string         `gorm:"size:64"`
	Attempts    int            `gorm:"not null;default:0"`
	LastError   string         `gorm:"size:1024"`
	ClaimedAt   time.Time      `gorm:"not null;precision:6;index:idx_idempotency_status_claimed,priority:2"`
	ProcessedAt *time.Time     `gorm:"precision:6;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (IdempotencyRecordModel) TableName() string {
	return constants.TableIdempotencyRecords
}
