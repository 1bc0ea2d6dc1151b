package controllers

import (
	"net/http"

	"github.com/blogem/telemetry-log/services"
)

// HealthController reports service liveness
type HealthController struct {
	services    *services.Services
	serviceName string
}

// NewHealthController creates a new health controller
func NewHealthController(services *services.Services, serviceName string) *HealthController {
	if serviceName == "" {
		serviceName = "telemetry-log"
	}
	return &HealthController{
		services:    services,
		serviceName: serviceName,
	}
}

// Health handles GET /health
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.services.Telemetry.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": c.serviceName,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": c.serviceName,
	})
}
