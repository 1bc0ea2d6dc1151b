package services

import (
	"log/slog"

	"github.com/blogem/telemetry-log/repositories"
)

// Services holds all service instances
type Services struct {
	Telemetry TelemetryService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, logger *slog.Logger) *Services {
	return &Services{
		Telemetry: NewTelemetryService(repos.Telemetry, logger),
	}
}
