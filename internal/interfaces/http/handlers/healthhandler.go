package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary		Health check
// @Description	Check if the service is healthy
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string	"Service is healthy"
// @Router			/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "coachly-billing",
	})
}
