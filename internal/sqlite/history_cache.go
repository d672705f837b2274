package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/repository"
)

// HistoryCacheRepository implements repository.HistoryCacheRepository for SQLite
type HistoryCacheRepository struct {
	db  *DB
	now func() time.Time
}

// NewHistoryCacheRepository creates a new HistoryCacheRepository
func NewHistoryCacheRepository(db *DB) *HistoryCacheRepository {
	return &HistoryCacheRepository{db: db, now: time.Now}
}

var _ repository.HistoryCacheRepository = (*HistoryCacheRepository)(nil)

// Get returns the cached events of a run, if present
func (r *HistoryCacheRepository) Get(ctx context.Context, key history.CacheKey) ([]event.RawEvent, bool, error) {
	query := `
		SELECT events
		FROM history_cache
		WHERE namespace = ? AND workflow_id = ? AND run_id = ?
	`

	var data string
	err := r.db.QueryRowContext(ctx, query, key.Namespace, key.WorkflowID, key.RunID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached history: %w", err)
	}

	var events []event.RawEvent
	if err := json.Unmarshal([]byte(data), &events); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached history: %w", err)
	}
	return events, true, nil
}

// Put stores the events of a run, replacing any previous entry
func (r *HistoryCacheRepository) Put(ctx context.Context, key history.CacheKey, events []event.RawEvent) error {
	if key.WorkflowID == "" || key.RunID == "" {
		return fmt.Errorf("%w: workflow id and run id are required", repository.ErrInvalidInput)
	}

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	query := `
		INSERT INTO history_cache (namespace, workflow_id, run_id, event_count, events, cached_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (namespace, workflow_id, run_id) DO UPDATE SET
			event_count = excluded.event_count,
			events = excluded.events,
			cached_at = excluded.cached_at
	`
	_, err = r.db.ExecContext(ctx, query,
		key.Namespace,
		key.WorkflowID,
		key.RunID,
		len(events),
		string(data),
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache history: %w", err)
	}
	return nil
}

// Purge removes entries cached before olderThan and returns how many were removed
func (r *HistoryCacheRepository) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_cache WHERE cached_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge history cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged histories: %w", err)
	}
	return n, nil
}
