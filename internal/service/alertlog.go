package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pool_monitor/internal/feed"
	"pool_monitor/internal/models"
	"pool_monitor/internal/repository"
)

type AlertLogService struct {
	alertRepo repository.AlertRepo
	changes   *feed.Topic[LogChange]
}

func NewAlertLogService(alertRepo repository.AlertRepo, changes *feed.Topic[LogChange]) *AlertLogService {
	return &AlertLogService{alertRepo: alertRepo, changes: changes}
}

var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Type: strings.TrimSpace(f.Type),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	return out, nil
}

// Append stores rec and announces it on the change topic.
func (s *AlertLogService) Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	stored, err := s.alertRepo.Append(ctx, rec)
	if err != nil {
		return models.AlertRecord{}, err
	}
	s.changes.Publish(LogChange{Kind: LogAppended, Record: &stored})
	return stored, nil
}

func (s *AlertLogService) List(ctx context.Context, f LogFilter) ([]models.AlertRecord, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.alertRepo.List(ctx, f.From, f.To, f.Type)
}

// Recent returns at most limit records, newest first.
func (s *AlertLogService) Recent(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	return s.alertRepo.Recent(ctx, limit)
}

// Clear removes every record and announces it on the change topic.
func (s *AlertLogService) Clear(ctx context.Context) (int64, error) {
	n, err := s.alertRepo.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.changes.Publish(LogChange{Kind: LogCleared, Removed: n})
	return n, nil
}
