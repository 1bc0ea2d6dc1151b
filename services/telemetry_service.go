package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blogem/telemetry-log/database"
	"github.com/blogem/telemetry-log/metrics"
	"github.com/blogem/telemetry-log/models"
	"github.com/blogem/telemetry-log/repositories"
)

var (
	// ErrEmptyPayload means the request carried no data
	ErrEmptyPayload = errors.New("no data received")
	// ErrInvalidPayload means the request body is not JSON
	ErrInvalidPayload = errors.New("payload is not valid JSON")
	// ErrNoTelemetry means there is nothing to show: the store is missing,
	// empty, or corrupt (a corrupt store counts as empty)
	ErrNoTelemetry = errors.New("no telemetry available")
)

// TelemetryService interface defines telemetry log business logic
type TelemetryService interface {
	LogTelemetry(ctx context.Context, body []byte) (*repositories.AppendResult, error)
	GetLatest(ctx context.Context) (models.LogEntry, error)
	GetHistory(ctx context.Context, limit int) (*models.DashboardHistory, error)
	CheckHealth(ctx context.Context) error
}

// telemetryService implements TelemetryService interface
type telemetryService struct {
	telemetryRepo repositories.TelemetryRepository
	logger        *slog.Logger
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(telemetryRepo repositories.TelemetryRepository, logger *slog.Logger) TelemetryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &telemetryService{
		telemetryRepo: telemetryRepo,
		logger:        logger,
	}
}

// LogTelemetry validates body and appends it to the store
func (s *telemetryService) LogTelemetry(ctx context.Context, body []byte) (*repositories.AppendResult, error) {
	entry, err := normalizePayload(body)
	if err != nil {
		reason := "empty"
		if errors.Is(err, ErrInvalidPayload) {
			reason = "invalid"
		}
		metrics.PayloadsRejected.WithLabelValues(reason).Inc()
		return nil, err
	}

	s.logger.Debug("telemetry received", "payload", string(entry))

	result, err := s.telemetryRepo.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to archive telemetry: %w", err)
	}

	if result.QuarantinedTo != "" {
		metrics.StoreCorruptions.Inc()
		s.logger.Warn("corrupt telemetry store replaced",
			"quarantined_to", result.QuarantinedTo)
	}

	metrics.EntriesIngested.Inc()
	metrics.StoreEntries.Set(float64(result.Count))
	s.logger.Info("telemetry archived", "entries", result.Count)

	return result, nil
}

// GetLatest returns the most recently archived entry
func (s *telemetryService) GetLatest(ctx context.Context) (models.LogEntry, error) {
	entry, err := s.telemetryRepo.GetLatest(ctx)
	if err != nil {
		if isNoTelemetry(err) {
			return nil, fmt.Errorf("%w: %w", ErrNoTelemetry, err)
		}
		return nil, fmt.Errorf("failed to read telemetry store: %w", err)
	}

	return entry, nil
}

// GetHistory returns up to limit of the newest entries plus store vitals.
// A missing, empty or corrupt store yields an empty history.
func (s *telemetryService) GetHistory(ctx context.Context, limit int) (*models.DashboardHistory, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid history limit: %d (must be positive)", limit)
	}

	history := &models.DashboardHistory{
		History: []models.LogEntry{},
		Vitals:  models.Vitals{UplinkStatus: models.UplinkActive},
	}

	entries, total, err := s.telemetryRepo.GetRecent(ctx, limit)
	if err != nil {
		if isNoTelemetry(err) {
			s.logger.Debug("history requested with no telemetry", "reason", err.Error())
			return history, nil
		}
		return nil, fmt.Errorf("failed to read telemetry history: %w", err)
	}

	if entries != nil {
		history.History = entries
	}
	history.Vitals.EntryCount = total
	metrics.StoreEntries.Set(float64(total))

	return history, nil
}

// CheckHealth reports whether the store can be reached
func (s *telemetryService) CheckHealth(ctx context.Context) error {
	return s.telemetryRepo.Ping(ctx)
}

// normalizePayload returns body as compact JSON, rejecting absent, malformed
// and empty values
func normalizePayload(body []byte) (models.LogEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	if !json.Valid(trimmed) {
		return nil, ErrInvalidPayload
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	entry := models.LogEntry(buf.Bytes())
	if models.IsEmptyEntry(entry) {
		return nil, ErrEmptyPayload
	}

	return entry, nil
}

func isNoTelemetry(err error) bool {
	return errors.Is(err, database.ErrStoreNotFound) ||
		errors.Is(err, database.ErrStoreCorrupt) ||
		errors.Is(err, repositories.ErrNoEntries)
}
