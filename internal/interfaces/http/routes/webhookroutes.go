package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/interfaces/http/handlers"
)

// WebhookRouteConfig holds dependencies for processor webhook routes.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
}

// SetupWebhookRoutes configures the unauthenticated webhook endpoint. Deliveries
// are authenticated by their signature instead.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	{
		webhooks.POST("/subscriptions", cfg.WebhookHandler.Receive)
	}
}
