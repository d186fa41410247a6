package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/infrastructure/permission"
	"github.com/coachly/coachly/internal/interfaces/http/handlers"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	BillingAdminHandler  *handlers.BillingAdminHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures the billing operator endpoints.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	canRead := cfg.PermissionMiddleware.RequirePermission(permission.ResourceBilling, permission.ActionRead)
	canWrite := cfg.PermissionMiddleware.RequirePermission(permission.ResourceBilling, permission.ActionWrite)

	billing := engine.Group("/admin/billing")
	billing.Use(cfg.AuthMiddleware.RequireAuth())
	{
		billing.GET("/subscriptions/:external_id", canRead, cfg.BillingAdminHandler.GetSubscription)
		billing.GET("/events/:event_id", canRead, cfg.BillingAdminHandler.GetWebhookEvent)

		billing.POST("/reconcile", canWrite, cfg.BillingAdminHandler.Reconcile)
		billing.POST("/events/retry", canWrite, cfg.BillingAdminHandler.RetryEvents)
	}
}
