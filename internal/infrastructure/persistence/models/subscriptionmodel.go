package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/shared/constants"
)

// SubscriptionModel is the canonical subscription row.
// LastEventTime is NULL until the first status event is applied.
type SubscriptionModel struct {
	ID                     uint       `gorm:"primarykey"`
	SID                    string     `gorm:"column:sid;uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	UserID                 string     `gorm:"not null;size:128;index:idx_subscription_user_status,priority:1"`
	ExternalSubscriptionID string     `gorm:"uniqueIndex;not null;size:128"`
	PlanID                 string     `gorm:"size:128"`
	Status                 string     `gorm:"not null;size:20;index:idx_subscription_user_status,priority:2"`
	StartDate              *time.Time `gorm:"precision:6"`
	CancelledAt            *time.Time `gorm:"precision:6"`
	CancelReason           string     `gorm:"size:100"`
	NextBillingDate        *time.Time `gorm:"precision:6"`
	LastEventTime          *time.Time `gorm:"precision:6"`
	LastPaymentEventTime   *time.Time `gorm:"precision:6"`
	Version                int        `gorm:"not null;default:1"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
