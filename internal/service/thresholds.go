package service

import (
	"context"
	"fmt"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/models"
	"pool_monitor/internal/repository"
)

type ThresholdService struct {
	repo repository.ThresholdRepo
}

func NewThresholdService(repo repository.ThresholdRepo) *ThresholdService {
	return &ThresholdService{repo: repo}
}

// Settings returns the user's stored overrides; all disabled when none were saved.
func (s *ThresholdService) Settings(ctx context.Context, userID int) (models.ThresholdSettings, error) {
	if userID <= 0 {
		return models.ThresholdSettings{}, nil
	}
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		return models.ThresholdSettings{}, err
	}
	if stored == nil {
		return models.ThresholdSettings{}, nil
	}
	return *stored, nil
}

// Active returns the defaults merged with the user's enabled overrides.
func (s *ThresholdService) Active(ctx context.Context, userID int) (alerts.Thresholds, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return alerts.Merge(alerts.DefaultThresholds(), &settings), nil
}

// Get returns the active ranges in check order.
func (s *ThresholdService) Get(ctx context.Context, userID int) ([]models.ThresholdRange, error) {
	active, err := s.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ThresholdRange, 0, len(alerts.MonitoredMetrics))
	for _, m := range alerts.MonitoredMetrics {
		if r, ok := active[m]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Save validates and stores the user's overrides. Invalid ranges yield an
// error wrapping alerts.ErrInvalidThreshold and nothing is written.
func (s *ThresholdService) Save(ctx context.Context, userID int, settings models.ThresholdSettings) error {
	if userID <= 0 {
		return fmt.Errorf("save thresholds: invalid user id %d", userID)
	}
	if err := alerts.ValidateSettings(settings); err != nil {
		return err
	}
	return s.repo.Save(ctx, userID, settings)
}

// ThresholdSource yields the ranges the monitor checks on each update.
type ThresholdSource interface {
	Active(ctx context.Context) (alerts.Thresholds, error)
}

type staticThresholds alerts.Thresholds

// StaticThresholds always returns th.
func StaticThresholds(th alerts.Thresholds) ThresholdSource {
	return staticThresholds(th)
}

func (s staticThresholds) Active(context.Context) (alerts.Thresholds, error) {
	return alerts.Thresholds(s), nil
}

type userThresholds struct {
	svc    Thresholds
	userID int
}

// UserThresholds reads userID's merged ranges on every call.
func UserThresholds(svc Thresholds, userID int) ThresholdSource {
	return userThresholds{svc: svc, userID: userID}
}

func (u userThresholds) Active(ctx context.Context) (alerts.Thresholds, error) {
	return u.svc.Active(ctx, u.userID)
}
