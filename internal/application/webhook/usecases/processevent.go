package usecases

import (
	"context"
	"fmt"
	"time"

	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	"github.com/coachly/coachly/internal/domain/subscription"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/logger"
)

// settleTimeout bounds the ledger write that records a failure, which runs
// even when the processing context is already done.
const settleTimeout = 5 * time.Second

// ProcessEventUseCase applies a claimed event, re-syncs the affected user's
// entitlement and settles the ledger row. Any failure leaves the row failed
// so the retry sweeper picks it up.
type ProcessEventUseCase struct {
	applier SubscriptionEventApplier
	syncer  EntitlementSyncer
	ledger  webhook.IdempotencyRepository
	logger  logger.Interface
}

func NewProcessEventUseCase(
	applier SubscriptionEventApplier,
	syncer EntitlementSyncer,
	ledger webhook.IdempotencyRepository,
	logger logger.Interface,
) *ProcessEventUseCase {
	return &ProcessEventUseCase{
		applier: applier,
		syncer:  syncer,
		ledger:  ledger,
		logger:  logger,
	}
}

func (uc *ProcessEventUseCase) Execute(ctx context.Context, env *webhook.Envelope) error {
	outcome, err := uc.process(ctx, env)
	if err != nil {
		uc.logger.Warnw("webhook event processing failed",
			"error", err,
			"event_id", env.EventID,
			"event_type", env.EventType,
			"resource_id", env.ResourceID,
		)

		settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
		defer cancel()
		if markErr := uc.ledger.MarkFailed(settleCtx, env.EventID, webhook.TruncateError(err)); markErr != nil {
			uc.logger.Errorw("failed to mark webhook event failed", "error", markErr, "event_id", env.EventID)
		}
		return err
	}

	if err := uc.ledger.MarkCompleted(ctx, env.EventID, outcome); err != nil {
		// The row stays pending; the sweeper replays it once the lease expires.
		uc.logger.Errorw("failed to mark webhook event completed", "error", err, "event_id", env.EventID)
		return fmt.Errorf("failed to mark webhook event completed: %w", err)
	}

	uc.logger.Debugw("webhook event processed", "event_id", env.EventID, "event_type", env.EventType)
	return nil
}

// process returns the outcome hash stored with the completed row.
func (uc *ProcessEventUseCase) process(ctx context.Context, env *webhook.Envelope) (string, error) {
	if !env.Kind.IsRecognized() {
		uc.logger.Infow("unrecognized webhook event type acknowledged",
			"event_id", env.EventID,
			"event_type", env.EventType,
		)
		return webhook.HashOutcome(env.EventID, subscription.OutcomeIgnored.String()), nil
	}

	result, err := uc.applier.Execute(ctx, subscriptionUsecases.ApplySubscriptionEventCommand{
		ExternalSubscriptionID: env.ResourceID,
		UserID:                 env.UserID,
		Event:                  env.LifecycleEvent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to apply subscription event: %w", err)
	}

	if userID := result.UserID(); userID != "" {
		if err := uc.syncer.Sync(ctx, userID); err != nil {
			return "", fmt.Errorf("failed to sync entitlement: %w", err)
		}
	}

	parts := []string{env.EventID, result.Transition.Outcome.String()}
	if result.Subscription != nil {
		parts = append(parts,
			result.Subscription.ExternalSubscriptionID(),
			result.Subscription.Status().String(),
			result.Subscription.LastEventTime().Format(time.RFC3339Nano),
		)
	}
	return webhook.HashOutcome(parts...), nil
}
