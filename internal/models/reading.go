package models

import "time"

// Metric names reported by the pool sensor board.
const (
	MetricWaterTemp = "tempAgua"
	MetricAirTemp   = "tempAire"
	MetricHumidity  = "humedadAire"
	MetricPHVoltage = "phVoltaje"
	MetricRSSI      = "rssi"
	MetricUptime    = "uptime"

	// MetricPH is derived from MetricPHVoltage, never reported directly.
	MetricPH = "ph"
)

// SensorReading is one feed update: metric name -> value.
// A missing key means the device did not report that metric.
type SensorReading map[string]float64

// Get returns the value for a metric and whether it was reported.
func (r SensorReading) Get(metric string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	v, ok := r[metric]
	return v, ok
}

// IsEmpty reports whether the reading carries no values at all.
func (r SensorReading) IsEmpty() bool {
	return len(r) == 0
}

// ReadingSnapshot is the latest reading as shown on the dashboard.
type ReadingSnapshot struct {
	Reading    SensorReading `json:"reading"`
	PH         *float64      `json:"ph,omitempty"` // derived from phVoltaje
	ReceivedAt time.Time     `json:"received_at"`
}
