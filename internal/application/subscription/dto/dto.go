package dto

import (
	"time"

	"github.com/coachly/coachly/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID                     string     `json:"id" example:"sub_xK9mP2vL3nQ"`
	ExternalSubscriptionID string     `json:"external_subscription_id" example:"I-BW452GLLEP1G"`
	UserID                 string     `json:"user_id"`
	PlanID                 string     `json:"plan_id,omitempty"`
	Status                 string     `json:"status" example:"active"`
	IsActive               bool       `json:"is_active"`
	StartDate              *time.Time `json:"start_date,omitempty"`
	NextBillingDate        *time.Time `json:"next_billing_date,omitempty"`
	CancelledAt            *time.Time `json:"cancelled_at,omitempty"`
	CancelReason           string     `json:"cancel_reason,omitempty"`
	LastEventTime          *time.Time `json:"last_event_time,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	result := &SubscriptionDTO{
		ID:                     sub.SID(),
		ExternalSubscriptionID: sub.ExternalSubscriptionID(),
		UserID:                 sub.UserID(),
		PlanID:                 sub.PlanID(),
		Status:                 sub.Status().String(),
		IsActive:               sub.IsActive(),
		StartDate:              sub.StartDate(),
		NextBillingDate:        sub.NextBillingDate(),
		CancelledAt:            sub.CancelledAt(),
		CancelReason:           sub.CancelReason(),
		CreatedAt:              sub.CreatedAt(),
		UpdatedAt:              sub.UpdatedAt(),
	}
	if last := sub.LastEventTime(); !last.IsZero() {
		result.LastEventTime = &last
	}
	return result
}
