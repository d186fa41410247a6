package usecases

import (
	"context"
	"fmt"

	"github.com/coachly/coachly/internal/domain/entitlement"
	"github.com/coachly/coachly/internal/domain/subscription"
	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

// SyncEntitlementResult describes what a sync wrote.
type SyncEntitlementResult struct {
	// Entitlement is nil for a user without any subscription.
	Entitlement *entitlement.UserEntitlement
	Changed     bool
}

// SyncEntitlementUseCase rewrites a user's cached entitlement from the
// canonical subscription. Syncs for one user never interleave, so the row only
// ever moves toward the canonical state read under the lock.
type SyncEntitlementUseCase struct {
	subscriptionRepo subscription.Repository
	entitlementRepo  entitlement.Repository
	locker           keylock.Locker
	logger           logger.Interface
}

func NewSyncEntitlementUseCase(
	subscriptionRepo subscription.Repository,
	entitlementRepo entitlement.Repository,
	locker keylock.Locker,
	logger logger.Interface,
) *SyncEntitlementUseCase {
	return &SyncEntitlementUseCase{
		subscriptionRepo: subscriptionRepo,
		entitlementRepo:  entitlementRepo,
		locker:           locker,
		logger:           logger,
	}
}

func (uc *SyncEntitlementUseCase) Execute(ctx context.Context, userID string) (*SyncEntitlementResult, error) {
	if userID == "" {
		return nil, entitlement.ErrUserIDRequired
	}

	unlock, err := uc.locker.Lock(ctx, EntitlementLockKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock entitlement of user %s: %w", userID, err)
	}
	defer unlock()

	current, err := uc.subscriptionRepo.FindCurrentByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get canonical subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get canonical subscription: %w", err)
	}
	if current == nil {
		return &SyncEntitlementResult{}, nil
	}

	projected, err := entitlement.Project(userID, current)
	if err != nil {
		return nil, fmt.Errorf("failed to project entitlement: %w", err)
	}

	cached, err := uc.entitlementRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get cached entitlement", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get cached entitlement: %w", err)
	}
	if cached.Equal(projected) {
		return &SyncEntitlementResult{Entitlement: cached}, nil
	}

	if err := uc.entitlementRepo.Upsert(ctx, projected); err != nil {
		uc.logger.Errorw("failed to write entitlement", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to write entitlement: %w", err)
	}

	previous := entitlement.StatusNone
	if cached != nil {
		previous = cached.CachedStatus().String()
	}
	uc.logger.Infow("entitlement synced",
		"user_id", userID,
		"subscription_id", projected.SubscriptionID(),
		"from", previous,
		"to", projected.CachedStatus().String(),
		"synced_as_of", projected.SyncedAsOfEventTime(),
	)

	return &SyncEntitlementResult{Entitlement: projected, Changed: true}, nil
}

// Sync runs Execute and drops the result.
func (uc *SyncEntitlementUseCase) Sync(ctx context.Context, userID string) error {
	_, err := uc.Execute(ctx, userID)
	return err
}

// EntitlementLockKey is the lock key serialising entitlement writes for a user.
func EntitlementLockKey(userID string) string {
	return "entitlement:" + userID
}
