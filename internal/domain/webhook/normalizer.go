package webhook

import (
	"strings"

	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
)

// Processor event types. This table is the only place that knows the
// processor's vocabulary.
const (
	EventTypeSubscriptionCreated     = "BILLING.SUBSCRIPTION.CREATED"
	EventTypeSubscriptionActivated   = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventTypeSubscriptionUpdated     = "BILLING.SUBSCRIPTION.UPDATED"
	EventTypeSubscriptionCancelled   = "BILLING.SUBSCRIPTION.CANCELLED"
	EventTypeSubscriptionSuspended   = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventTypeSubscriptionExpired     = "BILLING.SUBSCRIPTION.EXPIRED"
	EventTypeSubscriptionReactivated = "BILLING.SUBSCRIPTION.RE-ACTIVATED"
	EventTypePaymentSaleCompleted    = "PAYMENT.SALE.COMPLETED"
)

var eventKinds = map[string]valueobjects.EventKind{
	EventTypeSubscriptionCreated:     valueobjects.KindSubscriptionCreated,
	EventTypeSubscriptionActivated:   valueobjects.KindSubscriptionActivated,
	EventTypeSubscriptionUpdated:     valueobjects.KindSubscriptionUpdated,
	EventTypeSubscriptionCancelled:   valueobjects.KindSubscriptionCancelled,
	EventTypeSubscriptionSuspended:   valueobjects.KindSubscriptionSuspended,
	EventTypeSubscriptionExpired:     valueobjects.KindSubscriptionExpired,
	EventTypeSubscriptionReactivated: valueobjects.KindSubscriptionActivated,
	EventTypePaymentSaleCompleted:    valueobjects.KindPaymentCompleted,
}

// Normalize maps a processor event type onto the internal vocabulary.
// It is total: anything unknown is KindUnrecognized.
func Normalize(eventType string) valueobjects.EventKind {
	kind, ok := eventKinds[strings.ToUpper(strings.TrimSpace(eventType))]
	if !ok {
		return valueobjects.KindUnrecognized
	}
	return kind
}
