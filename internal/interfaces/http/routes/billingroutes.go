package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/interfaces/http/handlers"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
)

// BillingRouteConfig holds dependencies for the signed-in user's billing routes.
type BillingRouteConfig struct {
	SubscriptionHandler   *handlers.SubscriptionHandler
	EntitlementHandler    *handlers.EntitlementHandler
	AuthMiddleware        *middleware.AuthMiddleware
	EntitlementMiddleware *middleware.EntitlementMiddleware
}

// SetupBillingRoutes configures checkout registration, the self-service views
// and the paid area behind the entitlement gate.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	me := engine.Group("/me")
	me.Use(cfg.AuthMiddleware.RequireAuth())
	{
		me.GET("/entitlement", cfg.EntitlementHandler.GetMyEntitlement)
		me.GET("/subscription", cfg.SubscriptionHandler.GetMySubscription)
	}

	subscriptions := engine.Group("/subscriptions")
	subscriptions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscriptions.POST("/checkout", cfg.SubscriptionHandler.RegisterCheckout)
	}

	paid := engine.Group("/app")
	paid.Use(cfg.AuthMiddleware.RequireAuth(), cfg.EntitlementMiddleware.RequireEntitlement())
	{
		paid.GET("/access", cfg.EntitlementHandler.GetPaidAccess)
	}
}
