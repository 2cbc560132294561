package models

// ThresholdRange is the acceptable [Min, Max] band for one metric.
type ThresholdRange struct {
	Metric string  `json:"metric"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Label  string  `json:"label"`
	Unit   string  `json:"unit"`
}

// ThresholdOverride is a single user customisation; ignored unless Enabled.
type ThresholdOverride struct {
	Enabled bool    `json:"enabled"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ThresholdSettings is the per-user override record.
type ThresholdSettings struct {
	WaterTemp ThresholdOverride `json:"waterTemp"`
	AirTemp   ThresholdOverride `json:"airTemp"`
	Humidity  ThresholdOverride `json:"humidity"`
}
