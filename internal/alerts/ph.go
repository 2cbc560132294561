package alerts

import "math"

const (
	phNeutral        = 7.0
	phNeutralVoltage = 2.5
	phVoltsPerUnit   = 3.5
	phMin            = 0.0
	phMax            = 14.0
)

// PHFromVoltage converts the raw probe voltage to pH, clamped to [0, 14].
func PHFromVoltage(voltage float64) float64 {
	ph := phNeutral - (voltage-phNeutralVoltage)*phVoltsPerUnit
	return math.Min(phMax, math.Max(phMin, ph))
}
