package usecases

import (
	"context"
	"fmt"

	"github.com/coachly/coachly/internal/application/subscription/dto"
	"github.com/coachly/coachly/internal/domain/subscription"
	"github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	// Exactly one of SID and ExternalSubscriptionID is set.
	SID                    string
	ExternalSubscriptionID string
}

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	var (
		sub *subscription.Subscription
		err error
	)
	switch {
	case query.SID != "":
		sub, err = uc.subscriptionRepo.GetBySID(ctx, query.SID)
	case query.ExternalSubscriptionID != "":
		sub, err = uc.subscriptionRepo.GetByExternalID(ctx, query.ExternalSubscriptionID)
	default:
		return nil, errors.NewValidationError("subscription ID is required")
	}
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", query.SID, "external_subscription_id", query.ExternalSubscriptionID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}

	return dto.ToSubscriptionDTO(sub), nil
}

// GetCurrentSubscriptionUseCase returns the canonical subscription of a user.
type GetCurrentSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewGetCurrentSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *GetCurrentSubscriptionUseCase {
	return &GetCurrentSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetCurrentSubscriptionUseCase) Execute(ctx context.Context, userID string) (*dto.SubscriptionDTO, error) {
	if userID == "" {
		return nil, errors.NewUnauthorizedError("user is not signed in")
	}

	sub, err := uc.subscriptionRepo.FindCurrentByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get current subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get current subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("no subscription found")
	}

	return dto.ToSubscriptionDTO(sub), nil
}
