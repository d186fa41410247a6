package models

import (
	"time"

	"github.com/coachly/coachly/internal/shared/constants"
)

// UserEntitlementModel caches the entitlement derived from a user's canonical subscription.
type UserEntitlementModel struct {
	UserID              string     `gorm:"primaryKey;size:128"`
	SubscriptionID      string     `gorm:"not null;size:128;index"`
	CachedStatus        string     `gorm:"not null;size:20"`
	SyncedAsOfEventTime *time.Time `gorm:"precision:6"`
	UpdatedAt           time.Time
}

func (UserEntitlementModel) TableName() string {
	return constants.TableUserEntitlements
}
