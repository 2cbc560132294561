package service

import (
	"time"

	"pool_monitor/internal/models"
)

// LogFilter selects alert log entries by time range and metric type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // metric name, e.g. "tempAgua"; empty means all
}

// FeedOptions controls one grouped alert view.
type FeedOptions struct {
	ShowSuspicious bool
	Limit          int // <= 0 selects the default
}

// FeedLimits bounds how much of the log a view reads.
type FeedLimits struct {
	Default int
	Max     int
}

// LogChange kinds.
const (
	LogAppended = "append"
	LogCleared  = "clear"
)

// LogChange is published after every successful alert log mutation.
type LogChange struct {
	Kind    string              `json:"kind"`
	Record  *models.AlertRecord `json:"record,omitempty"`
	Removed int64               `json:"removed,omitempty"`
}
