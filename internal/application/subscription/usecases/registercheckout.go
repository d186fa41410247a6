package usecases

import (
	"context"
	"fmt"

	"github.com/coachly/coachly/internal/application/subscription/dto"
	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

// RegisterCheckoutCommand links a processor subscription id returned by the
// checkout flow to the signed-in user before any webhook arrives.
type RegisterCheckoutCommand struct {
	UserID                 string
	ExternalSubscriptionID string
	PlanID                 string
}

type RegisterCheckoutUseCase struct {
	subscriptionRepo subscription.Repository
	txMgr            *db.TransactionManager
	locker           keylock.Locker
	syncer           EntitlementSyncer
	logger           logger.Interface
}

func NewRegisterCheckoutUseCase(
	subscriptionRepo subscription.Repository,
	txMgr *db.TransactionManager,
	locker keylock.Locker,
	syncer EntitlementSyncer,
	logger logger.Interface,
) *RegisterCheckoutUseCase {
	return &RegisterCheckoutUseCase{
		subscriptionRepo: subscriptionRepo,
		txMgr:            txMgr,
		locker:           locker,
		syncer:           syncer,
		logger:           logger,
	}
}

func (uc *RegisterCheckoutUseCase) Execute(ctx context.Context, cmd RegisterCheckoutCommand) (*dto.SubscriptionDTO, error) {
	if cmd.UserID == "" {
		return nil, errors.NewUnauthorizedError("user is not signed in")
	}
	if cmd.ExternalSubscriptionID == "" {
		return nil, errors.NewValidationError("subscription ID is required")
	}

	unlock, err := uc.locker.Lock(ctx, SubscriptionLockKey(cmd.ExternalSubscriptionID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscription %s: %w", cmd.ExternalSubscriptionID, err)
	}
	defer unlock()

	unlockUser, err := uc.locker.Lock(ctx, UserSubscriptionsLockKey(cmd.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock subscriptions of user %s: %w", cmd.UserID, err)
	}
	defer unlockUser()

	var (
		registered *subscription.Subscription
		superseded []string
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := uc.subscriptionRepo.GetByExternalID(txCtx, cmd.ExternalSubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		if existing != nil {
			if existing.UserID() != cmd.UserID {
				return errors.NewConflictError("subscription is registered to another user")
			}
			registered = existing
			return nil
		}

		open, err := uc.subscriptionRepo.FindNonTerminalByUser(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to list open subscriptions: %w", err)
		}
		for _, other := range open {
			if other.Status() == vo.StatusActive || other.Status() == vo.StatusSuspended {
				return errors.NewConflictError("user already holds a subscription",
					fmt.Sprintf("subscription %s is %s", other.SID(), other.Status())).
					WithCause(subscription.ErrActiveSubscriptionExists)
			}
		}

		sub, err := subscription.NewSubscription(cmd.ExternalSubscriptionID, cmd.UserID, cmd.PlanID)
		if err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		superseded, err = supersedeOthers(txCtx, uc.subscriptionRepo, sub, biztime.NowUTC())
		if err != nil {
			return err
		}
		registered = sub
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to register checkout",
				"error", err,
				"user_id", cmd.UserID,
				"external_subscription_id", cmd.ExternalSubscriptionID,
			)
		}
		return nil, err
	}

	if err := uc.syncer.Sync(ctx, cmd.UserID); err != nil {
		// Reconciliation repairs the mirror later.
		uc.logger.Warnw("failed to sync entitlement after checkout", "error", err, "user_id", cmd.UserID)
	}

	uc.logger.Infow("checkout registered",
		"user_id", cmd.UserID,
		"external_subscription_id", cmd.ExternalSubscriptionID,
		"subscription_sid", registered.SID(),
		"superseded", superseded,
	)

	return dto.ToSubscriptionDTO(registered), nil
}
