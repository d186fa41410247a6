package usecases

import (
	"context"

	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	"github.com/coachly/coachly/internal/domain/webhook"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . SubscriptionEventApplier,EntitlementSyncer,EventProcessor,EventQueue

// SubscriptionEventApplier folds a normalized event into the canonical subscription.
type SubscriptionEventApplier interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.ApplySubscriptionEventCommand) (*subscriptionUsecases.ApplySubscriptionEventResult, error)
}

// EntitlementSyncer rebuilds one user's cached entitlement.
type EntitlementSyncer interface {
	Sync(ctx context.Context, userID string) error
}

// EventProcessor runs the full processing of a claimed event and settles its ledger row.
type EventProcessor interface {
	Execute(ctx context.Context, env *webhook.Envelope) error
}

// EventQueue hands claimed events to background workers. Enqueue never
// blocks and reports false when the queue is full or closed.
type EventQueue interface {
	Enqueue(env *webhook.Envelope) bool
}
