package handlers

import (
	"context"

	entitlementdto "github.com/coachly/coachly/internal/application/entitlement/dto"
	subdto "github.com/coachly/coachly/internal/application/subscription/dto"
	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	webhookdto "github.com/coachly/coachly/internal/application/webhook/dto"
	webhookUsecases "github.com/coachly/coachly/internal/application/webhook/usecases"
)

// Use case interfaces consumed by the handlers

type receiveWebhookUseCase interface {
	Execute(ctx context.Context, cmd webhookUsecases.ReceiveWebhookCommand) (*webhookdto.WebhookAckDTO, error)
}

type checkEntitlementUseCase interface {
	Execute(ctx context.Context, userID string) *entitlementdto.EntitlementDTO
}

type registerCheckoutUseCase interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.RegisterCheckoutCommand) (*subdto.SubscriptionDTO, error)
}

type getCurrentSubscriptionUseCase interface {
	Execute(ctx context.Context, userID string) (*subdto.SubscriptionDTO, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, query subscriptionUsecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error)
}

type reconcileEntitlementsUseCase interface {
	Run(ctx context.Context) (*entitlementdto.ReconcileResultDTO, error)
}

type retryPendingEventsUseCase interface {
	Run(ctx context.Context, maxAttempts int) (*webhookdto.RetryResultDTO, error)
}

type getWebhookEventUseCase interface {
	Execute(ctx context.Context, eventID string) (*webhookdto.LedgerRecordDTO, error)
}
