package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"pool_monitor/internal/models"
)

func newThresholdMock(t *testing.T) (*ThresholdSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewThresholdSQLite(db), mock
}

func TestThresholdSQLite_Get(t *testing.T) {
	tests := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		want    *models.ThresholdSettings
		wantErr bool
	}{
		{
			name: "found",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectThresholdSQL)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"payload"}).
						AddRow(`{"waterTemp":{"enabled":true,"min":20,"max":30}}`))
			},
			want: &models.ThresholdSettings{
				WaterTemp: models.ThresholdOverride{Enabled: true, Min: 20, Max: 30},
			},
		},
		{
			name: "none saved",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectThresholdSQL)).
					WithArgs(5).
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "query error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectThresholdSQL)).
					WithArgs(5).
					WillReturnError(errors.New("boom"))
			},
			wantErr: true,
		},
		{
			name: "corrupt payload",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectThresholdSQL)).
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newThresholdMock(t)
			tt.expect(mock)

			got, err := repo.Get(ctx(t), 5)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil settings, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestThresholdSQLite_Save(t *testing.T) {
	repo, mock := newThresholdMock(t)

	s := models.ThresholdSettings{Humidity: models.ThresholdOverride{Enabled: true, Min: 40, Max: 60}}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO threshold_settings")).
		WithArgs(9,
			`{"waterTemp":{"enabled":false,"min":0,"max":0},"airTemp":{"enabled":false,"min":0,"max":0},"humidity":{"enabled":true,"min":40,"max":60}}`,
			sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(ctx(t), 9, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestThresholdSQLite_Save_Error(t *testing.T) {
	repo, mock := newThresholdMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO threshold_settings")).
		WillReturnError(errors.New("constraint failed"))

	if err := repo.Save(ctx(t), 9, models.ThresholdSettings{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
