package repository

import (
	"context"
	"database/sql"
	"time"

	"pool_monitor/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	SetRole(username, role string) error
}

// AlertRepo is the append-only alert log.
type AlertRepo interface {
	Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error)
	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.AlertRecord, error)
	// List returns records in [from, to] (zero bounds are open) of type typ, oldest first.
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AlertRecord, error)
	Clear(ctx context.Context) (int64, error)
}

// ReadingRepo keeps the single latest sensor snapshot.
type ReadingRepo interface {
	Save(ctx context.Context, snap models.ReadingSnapshot) error
	Load(ctx context.Context) (models.ReadingSnapshot, error)
}

// ThresholdRepo stores per-user threshold overrides.
type ThresholdRepo interface {
	Get(ctx context.Context, userID int) (*models.ThresholdSettings, error)
	Save(ctx context.Context, userID int, s models.ThresholdSettings) error
}

type Repository struct {
	AlertRepo     AlertRepo
	ReadingRepo   ReadingRepo
	ThresholdRepo ThresholdRepo
	Auth          Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		AlertRepo:     NewAlertSQLite(db),
		ReadingRepo:   NewReadingSQLite(db),
		ThresholdRepo: NewThresholdSQLite(db),
		Auth:          NewUserRepository(db),
	}
}
