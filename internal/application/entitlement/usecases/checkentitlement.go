package usecases

import (
	"context"

	"github.com/coachly/coachly/internal/application/entitlement/dto"
	"github.com/coachly/coachly/internal/domain/entitlement"
	"github.com/coachly/coachly/internal/shared/logger"
)

// CheckEntitlementUseCase answers the gate from the cached row alone. It
// fails closed: a read error reports the user as not entitled.
type CheckEntitlementUseCase struct {
	entitlementRepo entitlement.Repository
	logger          logger.Interface
}

func NewCheckEntitlementUseCase(
	entitlementRepo entitlement.Repository,
	logger logger.Interface,
) *CheckEntitlementUseCase {
	return &CheckEntitlementUseCase{
		entitlementRepo: entitlementRepo,
		logger:          logger,
	}
}

func (uc *CheckEntitlementUseCase) Execute(ctx context.Context, userID string) *dto.EntitlementDTO {
	if userID == "" {
		return dto.ToEntitlementDTO(userID, nil)
	}

	cached, err := uc.entitlementRepo.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to read entitlement, denying access", "error", err, "user_id", userID)
		return dto.ToEntitlementDTO(userID, nil)
	}

	return dto.ToEntitlementDTO(userID, cached)
}
