package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pool_monitor/internal/models"
)

type ThresholdSQLite struct {
	db *sql.DB
}

func NewThresholdSQLite(db *sql.DB) *ThresholdSQLite {
	return &ThresholdSQLite{db: db}
}

var _ ThresholdRepo = (*ThresholdSQLite)(nil)

const (
	upsertThresholdSQL = `
		INSERT INTO threshold_settings (user_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectThresholdSQL = `SELECT payload FROM threshold_settings WHERE user_id = ?`
)

// Get returns the user's override record, or (nil, nil) when none was saved.
func (r *ThresholdSQLite) Get(ctx context.Context, userID int) (*models.ThresholdSettings, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, selectThresholdSQL, userID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select thresholds for user %d: %w", userID, err)
	}

	var s models.ThresholdSettings
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("unmarshal thresholds for user %d: %w", userID, err)
	}
	return &s, nil
}

// Save upserts the user's override record.
func (r *ThresholdSQLite) Save(ctx context.Context, userID int, s models.ThresholdSettings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal thresholds: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertThresholdSQL, userID, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("save thresholds for user %d: %w", userID, err)
	}
	return nil
}
