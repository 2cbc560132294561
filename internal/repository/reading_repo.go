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

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	latestReadingRowID = 1

	upsertReadingSQL = `
		INSERT INTO latest_reading (id, payload, received_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload=excluded.payload,
			received_at=excluded.received_at
	`

	selectReadingSQL = `SELECT payload, received_at FROM latest_reading WHERE id=?`
)

// Save replaces the latest_reading row (id always 1).
func (r *ReadingSQLite) Save(ctx context.Context, snap models.ReadingSnapshot) error {
	payload, err := json.Marshal(snap.Reading)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	ts := snap.ReceivedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertReadingSQL, latestReadingRowID, string(payload), ts); err != nil {
		return fmt.Errorf("save latest reading: %w", err)
	}
	return nil
}

// Load fetches the latest reading. A zero snapshot means nothing was stored yet.
func (r *ReadingSQLite) Load(ctx context.Context) (models.ReadingSnapshot, error) {
	var (
		payload string
		snap    models.ReadingSnapshot
	)
	err := r.db.QueryRowContext(ctx, selectReadingSQL, latestReadingRowID).Scan(&payload, &snap.ReceivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReadingSnapshot{}, nil
		}
		return models.ReadingSnapshot{}, fmt.Errorf("load latest reading: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &snap.Reading); err != nil {
		return models.ReadingSnapshot{}, fmt.Errorf("unmarshal reading: %w", err)
	}
	snap.ReceivedAt = snap.ReceivedAt.UTC()
	return snap, nil
}
