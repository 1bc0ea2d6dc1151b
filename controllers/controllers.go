package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/blogem/telemetry-log/models"
	"github.com/blogem/telemetry-log/services"
)

// writeJSON encodes data as the response body with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeRawJSON writes an already encoded JSON value
func writeRawJSON(w http.ResponseWriter, statusCode int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(raw)
}

// writeError writes the {status, message} error shape
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, models.StatusResponse{Status: "error", Message: message})
}

// Options tune request handling limits
type Options struct {
	MaxBodyBytes    int64
	HistoryLimit    int
	MaxHistoryLimit int
	ServiceName     string
}

// Controllers holds all controller instances
type Controllers struct {
	Telemetry *TelemetryController
	Health    *HealthController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	return &Controllers{
		Telemetry: NewTelemetryController(services, opts),
		Health:    NewHealthController(services, opts.ServiceName),
	}
}
