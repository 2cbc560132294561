package alerts

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"pool_monitor/internal/models"
)

// ErrInvalidThreshold is returned when an override has min >= max.
var ErrInvalidThreshold = errors.New("invalid threshold: min must be lower than max")

// MonitoredMetrics lists the metrics checked on every feed update, in check order.
var MonitoredMetrics = []string{
	models.MetricWaterTemp,
	models.MetricAirTemp,
	models.MetricHumidity,
	models.MetricPH,
	models.MetricRSSI,
}

// Thresholds maps a metric name to its active range.
type Thresholds map[string]models.ThresholdRange

// DefaultThresholds returns a fresh copy of the system default ranges.
func DefaultThresholds() Thresholds {
	return Thresholds{
		models.MetricWaterTemp: {Metric: models.MetricWaterTemp, Min: 18, Max: 28, Label: "Temperatura del agua", Unit: "°C"},
		models.MetricAirTemp:   {Metric: models.MetricAirTemp, Min: 10, Max: 35, Label: "Temperatura del aire", Unit: "°C"},
		models.MetricHumidity:  {Metric: models.MetricHumidity, Min: 30, Max: 80, Label: "Humedad del aire", Unit: "%"},
		models.MetricPH:        {Metric: models.MetricPH, Min: 7.2, Max: 7.6, Label: "pH", Unit: ""},
		models.MetricRSSI:      {Metric: models.MetricRSSI, Min: -85, Max: 0, Label: "Señal WiFi", Unit: "dBm"},
	}
}

// Merge applies the enabled overrides in s on top of base and returns a new set.
// Disabled or absent overrides keep the base values.
func Merge(base Thresholds, s *models.ThresholdSettings) Thresholds {
	out := make(Thresholds, len(base))
	for k, v := range base {
		out[k] = v
	}
	if s == nil {
		return out
	}
	apply := func(metric string, o models.ThresholdOverride) {
		r, ok := out[metric]
		if !ok || !o.Enabled {
			return
		}
		r.Min, r.Max = o.Min, o.Max
		out[metric] = r
	}
	apply(models.MetricWaterTemp, s.WaterTemp)
	apply(models.MetricAirTemp, s.AirTemp)
	apply(models.MetricHumidity, s.Humidity)
	return out
}

// ValidateSettings rejects any enabled override whose min is not below its max.
func ValidateSettings(s models.ThresholdSettings) error {
	for name, o := range map[string]models.ThresholdOverride{
		"waterTemp": s.WaterTemp,
		"airTemp":   s.AirTemp,
		"humidity":  s.Humidity,
	} {
		if !o.Enabled {
			continue
		}
		if math.IsNaN(o.Min) || math.IsNaN(o.Max) || o.Min >= o.Max {
			return fmt.Errorf("%s [%v, %v]: %w", name, o.Min, o.Max, ErrInvalidThreshold)
		}
	}
	return nil
}

// OutOfRange reports whether value lies strictly outside r.
func OutOfRange(r models.ThresholdRange, value float64) bool {
	return value < r.Min || value > r.Max
}

// FormatAlertMessage builds the human-readable alert text, e.g.
// "Temperatura del agua fuera de rango: 85°C".
func FormatAlertMessage(r models.ThresholdRange, value float64) string {
	return r.Label + " fuera de rango: " + formatValue(value) + r.Unit
}

// formatValue prints the shortest decimal that round-trips v, unrounded.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// metricLabel returns the display label of a metric, or the metric name itself.
func metricLabel(metric string) string {
	if r, ok := DefaultThresholds()[metric]; ok {
		return r.Label
	}
	return metric
}
