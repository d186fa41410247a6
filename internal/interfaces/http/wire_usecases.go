package http

import (
	"context"

	entitlementdto "github.com/coachly/coachly/internal/application/entitlement/dto"
	entitlementUsecases "github.com/coachly/coachly/internal/application/entitlement/usecases"
	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	webhookUsecases "github.com/coachly/coachly/internal/application/webhook/usecases"
	"github.com/coachly/coachly/internal/infrastructure/queue"
)

type reconcileRunner interface {
	Run(ctx context.Context) (*entitlementdto.ReconcileResultDTO, error)
}

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Subscription
	applySubscriptionEvent *subscriptionUsecases.ApplySubscriptionEventUseCase
	registerCheckout       *subscriptionUsecases.RegisterCheckoutUseCase
	getSubscription        *subscriptionUsecases.GetSubscriptionUseCase
	getCurrentSubscription *subscriptionUsecases.GetCurrentSubscriptionUseCase

	// Entitlement
	syncEntitlement       *entitlementUsecases.SyncEntitlementUseCase
	reconcileEntitlements *entitlementUsecases.ReconcileEntitlementsUseCase
	checkEntitlement      *entitlementUsecases.CheckEntitlementUseCase

	// Webhook
	processEvent            *webhookUsecases.ProcessEventUseCase
	receiveWebhook          *webhookUsecases.ReceiveWebhookUseCase
	retryPendingEvents      *webhookUsecases.RetryPendingEventsUseCase
	purgeIdempotencyRecords *webhookUsecases.PurgeIdempotencyRecordsUseCase
	getWebhookEvent         *webhookUsecases.GetWebhookEventUseCase
}

func (c *Container) initUseCases() {
	ucs := &allUseCases{}
	repos := c.repos
	billing := c.cfg.Billing
	hooks := c.cfg.Webhook

	ucs.syncEntitlement = entitlementUsecases.NewSyncEntitlementUseCase(
		repos.subscriptionRepo, repos.entitlementRepo, c.locker, c.log.Named("entitlement-sync"),
	)
	ucs.reconcileEntitlements = entitlementUsecases.NewReconcileEntitlementsUseCase(
		repos.entitlementRepo, ucs.syncEntitlement, billing.ReconcileBatch, c.log.Named("entitlement-reconcile"),
	)
	ucs.checkEntitlement = entitlementUsecases.NewCheckEntitlementUseCase(repos.entitlementRepo, c.log.Named("entitlement-gate"))

	ucs.applySubscriptionEvent = subscriptionUsecases.NewApplySubscriptionEventUseCase(
		repos.subscriptionRepo, c.txMgr, c.locker, billing.PeriodMonths, c.log.Named("subscription"),
	)
	ucs.registerCheckout = subscriptionUsecases.NewRegisterCheckoutUseCase(
		repos.subscriptionRepo, c.txMgr, c.locker, ucs.syncEntitlement, c.log.Named("checkout"),
	)
	ucs.getSubscription = subscriptionUsecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, c.log)
	ucs.getCurrentSubscription = subscriptionUsecases.NewGetCurrentSubscriptionUseCase(repos.subscriptionRepo, c.log)

	ucs.processEvent = webhookUsecases.NewProcessEventUseCase(
		ucs.applySubscriptionEvent, ucs.syncEntitlement, repos.ledgerRepo, c.log.Named("webhook-process"),
	)

	// The queue interface stays nil in sync mode.
	var eventQueue webhookUsecases.EventQueue
	if hooks.IsAsync() {
		c.eventQ = queue.NewEventQueue(hooks.QueueSize, hooks.Workers, hooks.ProcessTimeout, ucs.processEvent.Execute, c.log.Named("webhook-queue"))
		eventQueue = c.eventQ
	}

	ucs.receiveWebhook = webhookUsecases.NewReceiveWebhookUseCase(
		c.verifier,
		repos.ledgerRepo,
		ucs.processEvent,
		eventQueue,
		webhookUsecases.ReceiveWebhookOptions{
			Async:          hooks.IsAsync(),
			ProcessTimeout: hooks.ProcessTimeout,
			Lease:          hooks.Lease,
		},
		c.log.Named("webhook-receive"),
	)
	ucs.retryPendingEvents = webhookUsecases.NewRetryPendingEventsUseCase(
		repos.ledgerRepo, ucs.processEvent, hooks.Lease, billing.RetryMaxAttempts, 0, c.log.Named("webhook-retry"),
	)
	ucs.purgeIdempotencyRecords = webhookUsecases.NewPurgeIdempotencyRecordsUseCase(
		repos.ledgerRepo, billing.IdempotencyRetention, c.log.Named("ledger-purge"),
	)
	ucs.getWebhookEvent = webhookUsecases.NewGetWebhookEventUseCase(repos.ledgerRepo, c.log)

	c.ucs = ucs
}
