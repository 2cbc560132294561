package alerts

import "time"

// DefaultCooldown is the minimum time between two emitted alerts of one metric.
const DefaultCooldown = time.Hour

// CooldownTracker gates alert emission per metric. It is owned by a single
// monitor and is not safe for concurrent use.
type CooldownTracker struct {
	window time.Duration
	last   map[string]int64 // metric -> epoch ms of last emission
}

// NewCooldownTracker returns an empty tracker; window <= 0 selects DefaultCooldown.
func NewCooldownTracker(window time.Duration) *CooldownTracker {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &CooldownTracker{
		window: window,
		last:   make(map[string]int64),
	}
}

// Window returns the configured cooldown window.
func (t *CooldownTracker) Window() time.Duration {
	return t.window
}

// ShouldEmit reports whether metric has never emitted or its window has elapsed.
func (t *CooldownTracker) ShouldEmit(metric string, now time.Time) bool {
	last, ok := t.last[metric]
	if !ok {
		return true
	}
	return now.UnixMilli()-last > t.window.Milliseconds()
}

// RecordEmission marks metric as emitted at now. Call it only after the
// alert has been persisted.
func (t *CooldownTracker) RecordEmission(metric string, now time.Time) {
	t.last[metric] = now.UnixMilli()
}

// LastEmitted returns when metric last emitted, if ever.
func (t *CooldownTracker) LastEmitted(metric string) (time.Time, bool) {
	last, ok := t.last[metric]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(last).UTC(), true
}
