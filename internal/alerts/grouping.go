package alerts

import (
	"fmt"
	"sort"
	"time"

	"pool_monitor/internal/models"
)

// DefaultGroupWindow is how close two alerts must be to collapse into one group.
const DefaultGroupWindow = 15 * time.Minute

// GroupPolicy selects which timestamp of a group the window is measured against.
type GroupPolicy string

const (
	// GroupByLatest measures against the group's latest timestamp, so a steady
	// drip of alerts keeps extending the same group.
	GroupByLatest GroupPolicy = "latest"
	// GroupByFirst measures against the group's first member, capping a group's span.
	GroupByFirst GroupPolicy = "first"
)

// ParseGroupPolicy converts a config string to a GroupPolicy.
func ParseGroupPolicy(s string) (GroupPolicy, error) {
	switch GroupPolicy(s) {
	case "", GroupByLatest:
		return GroupByLatest, nil
	case GroupByFirst:
		return GroupByFirst, nil
	default:
		return "", fmt.Errorf("unknown group policy %q (want %q or %q)", s, GroupByLatest, GroupByFirst)
	}
}

// Processor turns a snapshot of the alert log into classified, grouped alerts.
type Processor struct {
	classifier *Classifier
	window     time.Duration
	policy     GroupPolicy
}

// NewProcessor builds a processor. window <= 0 selects DefaultGroupWindow.
func NewProcessor(classifier *Classifier, window time.Duration, policy GroupPolicy) *Processor {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	if window <= 0 {
		window = DefaultGroupWindow
	}
	if policy == "" {
		policy = GroupByLatest
	}
	return &Processor{classifier: classifier, window: window, policy: policy}
}

// Classify attaches severity and suspicion to every record, once per record.
func (p *Processor) Classify(records []models.AlertRecord) []models.ProcessedAlert {
	out := make([]models.ProcessedAlert, len(records))
	for i, rec := range records {
		c := p.classifier.Classify(rec.Type, rec.Value)
		out[i] = models.ProcessedAlert{
			AlertRecord:  rec,
			IsSuspicious: c.Suspicious,
			Severity:     c.Severity,
		}
	}
	return out
}

// Process classifies records, drops suspicious ones unless showSuspicious,
// groups the rest oldest first and returns the groups ordered by latest
// activity, newest first. records may arrive in any order; the log reads
// newest first.
func (p *Processor) Process(records []models.AlertRecord, showSuspicious bool) []models.GroupedAlert {
	processed := p.Classify(oldestFirst(records))

	groups := make([]*models.GroupedAlert, 0, len(processed))
	for _, pa := range processed {
		if pa.IsSuspicious && !showSuspicious {
			continue
		}
		if g := p.findGroup(groups, pa); g != nil {
			g.Count++
			g.Alerts = append(g.Alerts, pa)
			if pa.Timestamp > g.LatestTimestamp {
				g.LatestTimestamp = pa.Timestamp
			}
			continue
		}
		groups = append(groups, &models.GroupedAlert{
			ProcessedAlert:  pa,
			Count:           1,
			FirstTimestamp:  pa.Timestamp,
			LatestTimestamp: pa.Timestamp,
			Alerts:          []models.ProcessedAlert{pa},
		})
	}

	out := make([]models.GroupedAlert, len(groups))
	for i, g := range groups {
		g.Title = Title(g.ProcessedAlert)
		g.Description = Description(g.ProcessedAlert)
		out[i] = *g
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestTimestamp > out[j].LatestTimestamp
	})
	return out
}

func (p *Processor) findGroup(groups []*models.GroupedAlert, pa models.ProcessedAlert) *models.GroupedAlert {
	window := p.window.Milliseconds()
	for _, g := range groups {
		if g.Type != pa.Type || g.Message != pa.Message {
			continue
		}
		anchor := g.LatestTimestamp
		if p.policy == GroupByFirst {
			anchor = g.FirstTimestamp
		}
		if absInt64(anchor-pa.Timestamp) < window {
			return g
		}
	}
	return nil
}

// oldestFirst returns a copy of records sorted by timestamp ascending. Equal
// timestamps keep their relative order reversed, undoing a newest-first read.
func oldestFirst(records []models.AlertRecord) []models.AlertRecord {
	out := make([]models.AlertRecord, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
