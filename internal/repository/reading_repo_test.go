package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"pool_monitor/internal/models"
	"pool_monitor/internal/repository"
)

func TestReadingSQLite_Save_SetsUTCNow_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO latest_reading")).
		WithArgs(1, `{"tempAgua":26.5}`, isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	snap := models.ReadingSnapshot{Reading: models.SensorReading{models.MetricWaterTemp: 26.5}}
	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadingSQLite_Save_ConvertsToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	madrid := time.FixedZone("CEST", 2*60*60)
	original := time.Date(2024, 7, 1, 14, 0, 0, 0, madrid)

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(original) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO latest_reading")).
		WithArgs(1, sqlmock.AnyArg(), isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	snap := models.ReadingSnapshot{
		Reading:    models.SensorReading{models.MetricRSSI: -60},
		ReceivedAt: original,
	}
	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadingSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO latest_reading")).
		WillReturnError(errors.New("db down"))

	if err := repo.Save(context.Background(), models.ReadingSnapshot{}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestReadingSQLite_Load_NoRowsReturnsZeroValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload, received_at FROM latest_reading")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, models.ReadingSnapshot{}) {
		t.Fatalf("Load() expected zero snapshot, got: %+v", got)
	}
}

func TestReadingSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload, received_at FROM latest_reading")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "received_at"}).
			AddRow(`{"tempAgua":27.1,"phVoltaje":2.4}`, nonUTC))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.Reading[models.MetricWaterTemp] != 27.1 || got.Reading[models.MetricPHVoltage] != 2.4 {
		t.Fatalf("Load() unexpected reading: %+v", got.Reading)
	}
	if got.ReceivedAt.Location() != time.UTC || !got.ReceivedAt.Equal(nonUTC) {
		t.Fatalf("Load() ReceivedAt not UTC: %v", got.ReceivedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadingSQLite_Load_InvalidPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload, received_at FROM latest_reading")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "received_at"}).
			AddRow(`[1,2,3]`, time.Now()))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error for invalid payload, got nil")
	}
}

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
