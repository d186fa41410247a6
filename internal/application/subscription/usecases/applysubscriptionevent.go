package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/domain/subscription"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/db"
	apperrors "github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

const maxApplyAttempts = 3

// ApplySubscriptionEventCommand carries one normalized processor event.
type ApplySubscriptionEventCommand struct {
	ExternalSubscriptionID string
	// UserID is the subscriber named by the event, empty when it named none.
	UserID string
	Event  subscription.LifecycleEvent
}

type ApplySubscriptionEventResult struct {
	// Subscription is nil when an unrecognized event named an unknown subscription.
	Subscription *subscription.Subscription
	Transition   subscription.Transition
	Created      bool
	Superseded   []string
}

// UserID returns the owner whose entitlement may have changed.
func (r *ApplySubscriptionEventResult) UserID() string {
	if r == nil || r.Subscription == nil {
		return ""
	}
	return r.Subscription.UserID()
}

// ApplySubscriptionEventUseCase folds processor events into the canonical
// subscription record. Events for one external subscription are applied one
// at a time.
type ApplySubscriptionEventUseCase struct {
	subscriptionRepo subscription.Repository
	txMgr            *db.TransactionManager
	locker           keylock.Locker
	periodMonths     int
	logger           logger.Interface
}

func NewApplySubscriptionEventUseCase(
	subscriptionRepo subscription.Repository,
	txMgr *db.TransactionManager,
	locker keylock.Locker,
	periodMonths int,
	logger logger.Interface,
) *ApplySubscriptionEventUseCase {
	if periodMonths <= 0 {
		periodMonths = 1
	}
	return &ApplySubscriptionEventUseCase{
		subscriptionRepo: subscriptionRepo,
		txMgr:            txMgr,
		locker:           locker,
		periodMonths:     periodMonths,
		logger:           logger,
	}
}

func (uc *ApplySubscriptionEventUseCase) Execute(ctx context.Context, cmd ApplySubscriptionEventCommand) (*ApplySubscriptionEventResult, error) {
	if cmd.ExternalSubscriptionID == "" {
		return nil, apperrors.NewValidationError("external subscription ID is required")
	}

	unlock, err := uc.locker.Lock(ctx, SubscriptionLockKey(cmd.ExternalSubscriptionID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscription %s: %w", cmd.ExternalSubscriptionID, err)
	}
	defer unlock()

	// A first-sight event may create a record and supersede the user's other
	// open subscriptions, which live under different external ids.
	if cmd.UserID != "" {
		unlockUser, err := uc.locker.Lock(ctx, UserSubscriptionsLockKey(cmd.UserID))
		if err != nil {
			return nil, fmt.Errorf("failed to lock subscriptions of user %s: %w", cmd.UserID, err)
		}
		defer unlockUser()
	}

	var lastErr error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		result, err := uc.applyOnce(ctx, cmd)
		if err == nil {
			uc.logOutcome(cmd, result)
			return result, nil
		}

		if errors.Is(err, subscription.ErrUnknownSubscriber) {
			uc.logger.Warnw("event names no subscriber for an unknown subscription",
				"external_subscription_id", cmd.ExternalSubscriptionID,
				"event_kind", cmd.Event.Kind.String(),
			)
			return nil, err
		}
		if !errors.Is(err, subscription.ErrConcurrentModification) && !errors.Is(err, subscription.ErrSubscriptionExists) {
			uc.logger.Errorw("failed to apply subscription event",
				"error", err,
				"external_subscription_id", cmd.ExternalSubscriptionID,
				"event_kind", cmd.Event.Kind.String(),
			)
			return nil, err
		}

		lastErr = err
		uc.logger.Warnw("concurrent subscription write, retrying",
			"external_subscription_id", cmd.ExternalSubscriptionID,
			"attempt", attempt,
			"error", err,
		)
	}

	return nil, fmt.Errorf("failed to apply subscription event after %d attempts: %w", maxApplyAttempts, lastErr)
}

func (uc *ApplySubscriptionEventUseCase) applyOnce(ctx context.Context, cmd ApplySubscriptionEventCommand) (*ApplySubscriptionEventResult, error) {
	result := &ApplySubscriptionEventResult{}

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := uc.subscriptionRepo.GetByExternalID(txCtx, cmd.ExternalSubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}

		if sub == nil {
			if !cmd.Event.Kind.IsRecognized() {
				result.Transition = subscription.Transition{Outcome: subscription.OutcomeIgnored}
				return nil
			}
			return uc.create(txCtx, cmd, result)
		}

		if err := sub.BindUser(cmd.UserID); err != nil {
			// The stored owner stays authoritative.
			uc.logger.Warnw("event names a different subscriber than the stored owner",
				"external_subscription_id", cmd.ExternalSubscriptionID,
				"stored_user_id", sub.UserID(),
				"event_user_id", cmd.UserID,
			)
		}

		result.Subscription = sub
		result.Transition = sub.Apply(cmd.Event, uc.periodMonths)
		if !result.Transition.Outcome.Mutated() {
			return nil
		}
		return uc.subscriptionRepo.Update(txCtx, sub)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ApplySubscriptionEventUseCase) create(ctx context.Context, cmd ApplySubscriptionEventCommand, result *ApplySubscriptionEventResult) error {
	sub, err := subscription.NewSubscription(cmd.ExternalSubscriptionID, cmd.UserID, cmd.Event.PlanID)
	if err != nil {
		return err
	}

	result.Transition = sub.Apply(cmd.Event, uc.periodMonths)
	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		return err
	}
	result.Subscription = sub
	result.Created = true

	if sub.IsTerminal() {
		return nil
	}

	open, err := uc.subscriptionRepo.FindNonTerminalByUser(ctx, sub.UserID())
	if err != nil {
		return fmt.Errorf("failed to list open subscriptions: %w", err)
	}
	if len(open) <= 1 {
		return nil
	}

	// The creating event may leave no status time behind (a payment or an
	// update seen first), so the newcomer also counts as seen at that event.
	keep, keptAt := newestOpen(open, func(c *subscription.Subscription) time.Time {
		seen := c.LastSeenAt()
		if c.ID() == sub.ID() && cmd.Event.EventTime.After(seen) {
			seen = biztime.ToUTC(cmd.Event.EventTime)
		}
		return seen
	})
	superseded, err := supersedeOthers(ctx, uc.subscriptionRepo, keep, keptAt)
	if err != nil {
		return err
	}
	result.Superseded = superseded

	if keep.ID() != sub.ID() {
		reloaded, err := uc.subscriptionRepo.GetByExternalID(ctx, sub.ExternalSubscriptionID())
		if err != nil {
			return fmt.Errorf("failed to reload subscription: %w", err)
		}
		result.Subscription = reloaded
	}
	return nil
}

func (uc *ApplySubscriptionEventUseCase) logOutcome(cmd ApplySubscriptionEventCommand, result *ApplySubscriptionEventResult) {
	fields := []interface{}{
		"external_subscription_id", cmd.ExternalSubscriptionID,
		"event_kind", cmd.Event.Kind.String(),
		"event_time", cmd.Event.EventTime,
		"outcome", result.Transition.Outcome.String(),
	}

	if len(result.Superseded) > 0 {
		uc.logger.Infow("older subscriptions superseded",
			"external_subscription_id", cmd.ExternalSubscriptionID,
			"superseded", result.Superseded,
		)
	}

	switch result.Transition.Outcome {
	case subscription.OutcomeApplied:
		fields = append(fields, "from", result.Transition.From.String(), "to", result.Transition.To.String())
		if result.Transition.OutOfGraph {
			uc.logger.Warnw("status transition outside the lifecycle graph applied", fields...)
			return
		}
		uc.logger.Infow("subscription status changed", fields...)
	case subscription.OutcomeFieldsUpdated:
		uc.logger.Infow("subscription fields updated", fields...)
	case subscription.OutcomeStale:
		uc.logger.Infow("stale subscription event ignored", fields...)
	case subscription.OutcomeTerminalViolation:
		uc.logger.Infow("event after terminal state ignored", fields...)
	case subscription.OutcomeIgnored:
		if cmd.Event.Kind == eventvo.KindUnrecognized {
			uc.logger.Debugw("unrecognized subscription event ignored", fields...)
			return
		}
		uc.logger.Infow("subscription event carried nothing to apply", fields...)
	}
}

// SubscriptionLockKey is the lock key serialising writers of one external subscription.
func SubscriptionLockKey(externalSubscriptionID string) string {
	return "subscription:" + externalSubscriptionID
}

// UserSubscriptionsLockKey is the lock key serialising creation of a user's
// subscriptions. It is always taken after SubscriptionLockKey.
func UserSubscriptionsLockKey(userID string) string {
	return "user-subscriptions:" + userID
}
