package models

// Severity tiers, ordered by how far a value deviates from its ideal range.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertRecord is a persisted alert log entry. Timestamp is epoch milliseconds.
type AlertRecord struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"` // metric name
	Message   string  `json:"message"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Read      bool    `json:"read"`
}

// ProcessedAlert is an AlertRecord classified on read; never stored.
type ProcessedAlert struct {
	AlertRecord
	IsSuspicious bool     `json:"isSuspicious"`
	Severity     Severity `json:"severity"`
}

// GroupedAlert collapses ProcessedAlerts of the same type and message
// that arrived within the grouping window.
type GroupedAlert struct {
	ProcessedAlert
	Count           int              `json:"count"`
	FirstTimestamp  int64            `json:"firstTimestamp"`
	LatestTimestamp int64            `json:"latestTimestamp"`
	Alerts          []ProcessedAlert `json:"alerts"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
}

// Toast is a transient user-facing notification raised when an alert is emitted.
type Toast struct {
	AlertID   string  `json:"alert_id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}
