package dto

import (
	"time"

	"github.com/coachly/coachly/internal/domain/entitlement"
)

// EntitlementDTO is the gate's view of a user. A user without a cached row
// reports status "none" and is not entitled.
type EntitlementDTO struct {
	UserID         string     `json:"user_id"`
	Status         string     `json:"status" example:"active"`
	Entitled       bool       `json:"entitled"`
	SubscriptionID string     `json:"subscription_id,omitempty"`
	SyncedAsOf     *time.Time `json:"synced_as_of,omitempty"`
}

func ToEntitlementDTO(userID string, e *entitlement.UserEntitlement) *EntitlementDTO {
	if e == nil {
		return &EntitlementDTO{UserID: userID, Status: entitlement.StatusNone}
	}

	result := &EntitlementDTO{
		UserID:         e.UserID(),
		Status:         e.CachedStatus().String(),
		Entitled:       e.IsEntitled(),
		SubscriptionID: e.SubscriptionID(),
	}
	if synced := e.SyncedAsOfEventTime(); !synced.IsZero() {
		result.SyncedAsOf = &synced
	}
	return result
}

// ReconcileResultDTO summarises one reconciliation pass.
type ReconcileResultDTO struct {
	Divergent int      `json:"divergent"`
	Repaired  int      `json:"repaired"`
	Failed    []string `json:"failed,omitempty"`
}
