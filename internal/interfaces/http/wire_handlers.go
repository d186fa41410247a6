package http

import (
	"github.com/coachly/coachly/internal/interfaces/http/handlers"
	"github.com/coachly/coachly/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	webhookHandler      *handlers.WebhookHandler
	subscriptionHandler *handlers.SubscriptionHandler
	entitlementHandler  *handlers.EntitlementHandler
	billingAdminHandler *handlers.BillingAdminHandler
}

func newHandlers(ucs *allUseCases, log logger.Interface) *allHandlers {
	return &allHandlers{
		webhookHandler:      handlers.NewWebhookHandler(ucs.receiveWebhook, log.Named("webhook-handler")),
		subscriptionHandler: handlers.NewSubscriptionHandler(ucs.registerCheckout, ucs.getCurrentSubscription, log.Named("subscription-handler")),
		entitlementHandler:  handlers.NewEntitlementHandler(ucs.checkEntitlement, log.Named("entitlement-handler")),
		billingAdminHandler: handlers.NewBillingAdminHandler(
			ucs.getSubscription,
			ucs.reconcileEntitlements,
			ucs.retryPendingEvents,
			ucs.getWebhookEvent,
			log.Named("billing-admin-handler"),
		),
	}
}
