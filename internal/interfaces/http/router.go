package http

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/coachly/coachly/internal/interfaces/http/handlers"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
	"github.com/coachly/coachly/internal/interfaces/http/routes"

	_ "github.com/coachly/coachly/docs"
)

// setupRoutes configures the global middleware chain and all HTTP routes.
func (c *Container) setupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log.Named("recovery")))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	c.engine.GET("/health", handlers.HealthCheck)

	routes.SetupWebhookRoutes(c.engine, &routes.WebhookRouteConfig{
		WebhookHandler: c.hdlrs.webhookHandler,
	})

	routes.SetupBillingRoutes(c.engine, &routes.BillingRouteConfig{
		SubscriptionHandler:   c.hdlrs.subscriptionHandler,
		EntitlementHandler:    c.hdlrs.entitlementHandler,
		AuthMiddleware:        c.authMiddleware,
		EntitlementMiddleware: c.entitlementMiddleware,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		BillingAdminHandler:  c.hdlrs.billingAdminHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
