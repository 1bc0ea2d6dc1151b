package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/blogem/telemetry-log/models"
	"github.com/blogem/telemetry-log/services"
)

// TelemetryController handles telemetry ingest and dashboard requests
type TelemetryController struct {
	services *services.Services
	opts     Options
}

// NewTelemetryController creates a new telemetry controller
func NewTelemetryController(services *services.Services, opts Options) *TelemetryController {
	return &TelemetryController{
		services: services,
		opts:     opts,
	}
}

// LogTelemetry handles POST /log-telemetry
func (c *TelemetryController) LogTelemetry(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload exceeds "+strconv.FormatInt(maxErr.Limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read body: "+err.Error())
		return
	}

	if _, err := c.services.Telemetry.LogTelemetry(r.Context(), body); err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyPayload):
			writeError(w, http.StatusBadRequest, "No data received")
		case errors.Is(err, services.ErrInvalidPayload):
			writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "telemetry archived",
	})
}

// GetDashboardData handles GET /get-dashboard-data
func (c *TelemetryController) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	entry, err := c.services.Telemetry.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoTelemetry) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeRawJSON(w, http.StatusOK, entry)
}

// GetHistory handles GET /api/data
func (c *TelemetryController) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := c.opts.HistoryLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	if limit > c.opts.MaxHistoryLimit {
		limit = c.opts.MaxHistoryLimit
	}

	history, err := c.services.Telemetry.GetHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, history)
}
