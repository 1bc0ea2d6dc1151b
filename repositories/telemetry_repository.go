package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blogem/telemetry-log/database"
	"github.com/blogem/telemetry-log/models"
)

// ErrNoEntries is returned when the store exists but holds nothing
var ErrNoEntries = errors.New("telemetry store is empty")

// AppendResult describes what an append did to the store
type AppendResult struct {
	Count         int    // entries in the store after the append
	QuarantinedTo string // set when a corrupt store was moved aside
}

// TelemetryRepository interface defines log store operations
type TelemetryRepository interface {
	Append(ctx context.Context, entry models.LogEntry) (*AppendResult, error)
	GetAll(ctx context.Context) ([]models.LogEntry, error)
	GetLatest(ctx context.Context) (models.LogEntry, error)
	GetRecent(ctx context.Context, limit int) ([]models.LogEntry, int, error)
	Ping(ctx context.Context) error
}

// fileTelemetryRepository implements TelemetryRepository on a JSON file
type fileTelemetryRepository struct {
	store *database.JSONFile
	mu    sync.Mutex
}

// NewTelemetryRepository creates a new telemetry repository
func NewTelemetryRepository(store *database.JSONFile) TelemetryRepository {
	return &fileTelemetryRepository{store: store}
}

// Append adds entry to the end of the store. A missing store is recreated and
// a corrupt one is copied aside and replaced by a fresh array.
func (r *fileTelemetryRepository) Append(ctx context.Context, entry models.LogEntry) (*AppendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result := &AppendResult{}

	entries, err := r.store.Read()
	switch {
	case err == nil:
	case errors.Is(err, database.ErrStoreNotFound):
		entries = nil
	case errors.Is(err, database.ErrStoreCorrupt):
		dest, qErr := r.store.Quarantine()
		if qErr != nil {
			return nil, fmt.Errorf("failed to quarantine corrupt store: %w", qErr)
		}
		result.QuarantinedTo = dest
		entries = nil
	default:
		return nil, fmt.Errorf("failed to load telemetry store: %w", err)
	}

	entries = append(entries, entry)
	if err := r.store.Write(entries); err != nil {
		return nil, fmt.Errorf("failed to save telemetry store: %w", err)
	}

	result.Count = len(entries)
	return result, nil
}

// GetAll returns every entry, oldest first
func (r *fileTelemetryRepository) GetAll(ctx context.Context) ([]models.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetLatest returns the most recently appended entry
func (r *fileTelemetryRepository) GetLatest(ctx context.Context) (models.LogEntry, error) {
	entries, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	return entries[len(entries)-1], nil
}

// GetRecent returns up to limit entries from the end of the store, oldest
// first, along with the total number of stored entries
func (r *fileTelemetryRepository) GetRecent(ctx context.Context, limit int) ([]models.LogEntry, int, error) {
	if limit <= 0 {
		return nil, 0, fmt.Errorf("invalid limit: %d (must be positive)", limit)
	}

	entries, err := r.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(entries)
	if total > limit {
		entries = entries[total-limit:]
	}

	return entries, total, nil
}

// Ping checks that the store location is usable
func (r *fileTelemetryRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Ping()
}
