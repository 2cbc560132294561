package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pool_monitor/internal/models"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertRepo = (*AlertSQLite)(nil)

const (
	insertAlertSQL = `INSERT INTO alerts (id, type, message, value, ts, read) VALUES (?, ?, ?, ?, ?, ?)`

	selectAlertColumns = `SELECT id, type, message, value, ts, read FROM alerts`

	// rowid breaks ties between alerts written in the same millisecond.
	selectRecentAlertsSQL = selectAlertColumns + ` ORDER BY ts DESC, rowid DESC LIMIT ?`

	deleteAlertsSQL = `DELETE FROM alerts`
)

// Append inserts rec. An empty ID gets a fresh UUID and a zero Timestamp is
// set to now. The stored record is returned.
func (r *AlertSQLite) Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}
	rec.Type = strings.TrimSpace(rec.Type)

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		rec.ID,
		rec.Type,
		rec.Message,
		rec.Value,
		rec.Timestamp,
		rec.Read,
	)
	if err != nil {
		return models.AlertRecord{}, fmt.Errorf("insert alert %s: %w", rec.Type, err)
	}
	return rec, nil
}

// Recent returns at most limit alerts ordered by timestamp, newest first.
func (r *AlertSQLite) Recent(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	if limit <= 0 {
		return []models.AlertRecord{}, nil
	}
	rows, err := r.db.QueryContext(ctx, selectRecentAlertsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows, limit)
}

// List returns alerts filtered by [from, to] (inclusive) and/or metric type, ordered ASC.
func (r *AlertSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.AlertRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, from.UnixMilli())
	}
	if !to.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, to.UnixMilli())
	}
	if typ = strings.TrimSpace(typ); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectAlertColumns
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY ts ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows, 64)
}

// Clear deletes every alert and returns how many were removed.
func (r *AlertSQLite) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteAlertsSQL)
	if err != nil {
		return 0, fmt.Errorf("clear alerts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear alerts rows affected: %w", err)
	}
	return n, nil
}

func scanAlerts(rows *sql.Rows, capHint int) ([]models.AlertRecord, error) {
	out := make([]models.AlertRecord, 0, capHint)
	for rows.Next() {
		var rec models.AlertRecord
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Message, &rec.Value, &rec.Timestamp, &rec.Read); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return out, nil
}
