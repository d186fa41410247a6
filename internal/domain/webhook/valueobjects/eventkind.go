package valueobjects

import (
	subscriptionvo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
)

// EventKind is the closed internal vocabulary of lifecycle events.
// Processor-specific strings are mapped onto it exactly once, by the normalizer.
type EventKind int

const (
	KindUnrecognized EventKind = iota
	KindSubscriptionCreated
	KindSubscriptionActivated
	KindSubscriptionUpdated
	KindSubscriptionCancelled
	KindSubscriptionSuspended
	KindSubscriptionExpired
	KindPaymentCompleted
)

func (k EventKind) String() string {
	switch k {
	case KindSubscriptionCreated:
		return "subscription_created"
	case KindSubscriptionActivated:
		return "subscription_activated"
	case KindSubscriptionUpdated:
		return "subscription_updated"
	case KindSubscriptionCancelled:
		return "subscription_cancelled"
	case KindSubscriptionSuspended:
		return "subscription_suspended"
	case KindSubscriptionExpired:
		return "subscription_expired"
	case KindPaymentCompleted:
		return "payment_completed"
	case KindUnrecognized:
		return "unrecognized"
	}
	return "unrecognized"
}

// TargetStatus returns the status an event of this kind moves a subscription to.
// Field-only kinds and unrecognized events have no target.
func (k EventKind) TargetStatus() (subscriptionvo.SubscriptionStatus, bool) {
	switch k {
	case KindSubscriptionCreated:
		return subscriptionvo.StatusPending, true
	case KindSubscriptionActivated:
		return subscriptionvo.StatusActive, true
	case KindSubscriptionSuspended:
		return subscriptionvo.StatusSuspended, true
	case KindSubscriptionCancelled:
		return subscriptionvo.StatusCancelled, true
	case KindSubscriptionExpired:
		return subscriptionvo.StatusExpired, true
	case KindSubscriptionUpdated, KindPaymentCompleted, KindUnrecognized:
		return "", false
	}
	return "", false
}

// IsRecognized reports whether the kind maps to a known processor event.
func (k EventKind) IsRecognized() bool {
	return k != KindUnrecognized
}
