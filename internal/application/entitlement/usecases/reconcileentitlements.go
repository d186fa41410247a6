package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/coachly/coachly/internal/application/entitlement/dto"
	"github.com/coachly/coachly/internal/domain/entitlement"
	"github.com/coachly/coachly/internal/shared/logger"
)

const defaultReconcileBatch = 500

// ReconcileEntitlementsUseCase finds cached entitlements that drifted from
// their canonical subscription and re-syncs them.
type ReconcileEntitlementsUseCase struct {
	entitlementRepo entitlement.Repository
	syncer          Syncer
	batchSize       int
	logger          logger.Interface
}

func NewReconcileEntitlementsUseCase(
	entitlementRepo entitlement.Repository,
	syncer Syncer,
	batchSize int,
	logger logger.Interface,
) *ReconcileEntitlementsUseCase {
	if batchSize <= 0 {
		batchSize = defaultReconcileBatch
	}
	return &ReconcileEntitlementsUseCase{
		entitlementRepo: entitlementRepo,
		syncer:          syncer,
		batchSize:       batchSize,
		logger:          logger,
	}
}

// Execute runs one pass and reports how many users were repaired.
func (uc *ReconcileEntitlementsUseCase) Execute(ctx context.Context) (int, error) {
	result, err := uc.Run(ctx)
	if result == nil {
		return 0, err
	}
	return result.Repaired, err
}

// Run runs one pass. A failing user does not stop the pass; the joined
// errors are returned alongside the partial result.
func (uc *ReconcileEntitlementsUseCase) Run(ctx context.Context) (*dto.ReconcileResultDTO, error) {
	userIDs, err := uc.entitlementRepo.FindDivergentUserIDs(ctx, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to find divergent entitlements", "error", err)
		return nil, fmt.Errorf("failed to find divergent entitlements: %w", err)
	}

	result := &dto.ReconcileResultDTO{Divergent: len(userIDs)}
	var errs []error
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		uc.logger.Warnw("entitlement divergence detected", "user_id", userID)
		if err := uc.syncer.Sync(ctx, userID); err != nil {
			uc.logger.Errorw("failed to repair entitlement", "error", err, "user_id", userID)
			result.Failed = append(result.Failed, userID)
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		result.Repaired++
	}

	if result.Divergent > 0 {
		uc.logger.Infow("entitlement reconciliation finished",
			"divergent", result.Divergent,
			"repaired", result.Repaired,
			"failed", len(result.Failed),
		)
	}

	return result, errors.Join(errs...)
}
