// Package metrics exports pool monitor counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsReceived counts sensor readings accepted by the telemetry service.
	ReadingsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolmon_readings_received_total",
			Help: "Total number of sensor readings accepted",
		},
	)

	// AlertsEmitted counts alerts written to the log, by metric.
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolmon_alerts_emitted_total",
			Help: "Total number of alerts persisted",
		},
		[]string{"metric"},
	)

	// AlertsSuppressed counts out-of-range values held back by the cooldown.
	AlertsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolmon_alerts_suppressed_total",
			Help: "Total number of out-of-range values suppressed by cooldown",
		},
		[]string{"metric"},
	)

	// AlertWriteFailures counts alert log writes that failed.
	AlertWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolmon_alert_write_failures_total",
			Help: "Total number of failed alert log writes",
		},
	)

	// FeedProcessDuration measures how long one grouped alert view takes to build.
	FeedProcessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poolmon_alert_feed_process_seconds",
			Help:    "Time to classify and group the recent alert log",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	// WSClients is the number of connected websocket clients.
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolmon_ws_clients",
			Help: "Current number of websocket clients",
		},
	)

	// IngestRejected counts ingest requests refused, by reason.
	IngestRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolmon_ingest_rejected_total",
			Help: "Total number of rejected ingest requests",
		},
		[]string{"reason"},
	)
)
