package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aipulse/aipulse/internal/models"
)

// ForecastRepository stores generated forecast snapshots so dashboard
// reads hit a precomputed result instead of recomputing per request.
type ForecastRepository struct {
	db *sql.DB
}

// NewForecastRepository creates a new forecast repository.
func NewForecastRepository(db *sql.DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// CreateSnapshot persists one forecast result and returns its id.
func (r *ForecastRepository) CreateSnapshot(ctx context.Context, result models.ForecastResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal forecast result: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO forecast_snapshots (id, topic, timeframe, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query, id, result.Topic, result.Timeframe, payload, time.Now()); err != nil {
		return "", fmt.Errorf("failed to insert forecast snapshot: %w", err)
	}

	return id, nil
}

// LatestSnapshot returns the most recent snapshot for (topic, timeframe),
// or nil when none exists.
func (r *ForecastRepository) LatestSnapshot(ctx context.Context, topic, timeframe string) (*models.ForecastSnapshot, error) {
	query := `
		SELECT id, topic, timeframe, result, created_at
		FROM forecast_snapshots
		WHERE topic = $1 AND timeframe = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var snapshot models.ForecastSnapshot
	var payload []byte

	err := r.db.QueryRowContext(ctx, query, topic, timeframe).Scan(
		&snapshot.ID,
		&snapshot.Topic,
		&snapshot.Timeframe,
		&payload,
		&snapshot.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	if err := json.Unmarshal(payload, &snapshot.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot result: %w", err)
	}

	return &snapshot, nil
}

// DeleteOlderThan removes snapshots created before the cutoff, returning
// the number deleted. The scheduler uses this for retention.
func (r *ForecastRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM forecast_snapshots WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete count: %w", err)
	}
	return deleted, nil
}
