package repositories

import (
	"github.com/blogem/telemetry-log/database"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Telemetry TelemetryRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(store *database.JSONFile) *Repositories {
	return &Repositories{
		Telemetry: NewTelemetryRepository(store),
	}
}
