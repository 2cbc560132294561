package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pool_monitor/internal/models"
)

// fakeAlertRepo is an in-memory repository.AlertRepo.
type fakeAlertRepo struct {
	mu        sync.Mutex
	records   []models.AlertRecord
	appendErr error
	seq       int

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	gotLim  int
}

func (f *fakeAlertRepo) Append(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return models.AlertRecord{}, f.appendErr
	}
	if rec.ID == "" {
		f.seq++
		rec.ID = fmt.Sprintf("alert-%d", f.seq)
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAlertRepo) Recent(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLim = limit
	out := append([]models.AlertRecord(nil), f.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAlertRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.AlertRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return append([]models.AlertRecord(nil), f.records...), nil
}

func (f *fakeAlertRepo) Clear(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.records))
	f.records = nil
	return n, nil
}

func (f *fakeAlertRepo) all() []models.AlertRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AlertRecord(nil), f.records...)
}

// fakeReadingRepo is an in-memory repository.ReadingRepo.
type fakeReadingRepo struct {
	snap    models.ReadingSnapshot
	saveErr error
	loadErr error
	saves   int
}

func (f *fakeReadingRepo) Save(ctx context.Context, snap models.ReadingSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.snap = snap
	return nil
}

func (f *fakeReadingRepo) Load(ctx context.Context) (models.ReadingSnapshot, error) {
	return f.snap, f.loadErr
}

// fakeThresholdRepo is an in-memory repository.ThresholdRepo.
type fakeThresholdRepo struct {
	byUser map[int]models.ThresholdSettings
	getErr error
	saves  int
}

func (f *fakeThresholdRepo) Get(ctx context.Context, userID int) (*models.ThresholdSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.byUser[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeThresholdRepo) Save(ctx context.Context, userID int, s models.ThresholdSettings) error {
	if f.byUser == nil {
		f.byUser = make(map[int]models.ThresholdSettings)
	}
	f.saves++
	f.byUser[userID] = s
	return nil
}

// fakeCache is an in-memory LatestCache.
type fakeCache struct {
	snap   models.ReadingSnapshot
	has    bool
	getErr error
	setErr error
}

func (f *fakeCache) SetLatest(ctx context.Context, snap models.ReadingSnapshot) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.snap, f.has = snap, true
	return nil
}

func (f *fakeCache) GetLatest(ctx context.Context) (models.ReadingSnapshot, bool, error) {
	return f.snap, f.has, f.getErr
}

// manualClock is a settable time source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
