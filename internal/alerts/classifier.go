// Package alerts holds the alert decision logic for pool sensor readings:
// range classification, cooldown gating and grouping of the alert log.
package alerts

import (
	"fmt"

	"pool_monitor/internal/models"
)

// Plausibility bounds for temperature probes. A disconnected probe reports
// values far outside these, so such readings are flagged as sensor faults.
const (
	suspiciousTempMax = 50.0
	suspiciousTempMin = -10.0
)

// Bounds is a closed [Min, Max] interval; values on the edges are inside.
type Bounds struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

// Contains reports whether v lies inside b (boundaries included).
func (b Bounds) Contains(v float64) bool {
	return !(v < b.Min || v > b.Max)
}

// SeverityRule holds the nested critical and warning bands of a metric.
type SeverityRule struct {
	Critical Bounds `mapstructure:"critical" json:"critical"`
	Warning  Bounds `mapstructure:"warning" json:"warning"`
}

// Validate checks that both bands are well formed and warning ⊂ critical.
func (r SeverityRule) Validate() error {
	if r.Critical.Min >= r.Critical.Max {
		return fmt.Errorf("critical band [%v, %v] is empty", r.Critical.Min, r.Critical.Max)
	}
	if r.Warning.Min >= r.Warning.Max {
		return fmt.Errorf("warning band [%v, %v] is empty", r.Warning.Min, r.Warning.Max)
	}
	if r.Warning.Min < r.Critical.Min || r.Warning.Max > r.Critical.Max {
		return fmt.Errorf("warning band [%v, %v] must be nested in critical band [%v, %v]",
			r.Warning.Min, r.Warning.Max, r.Critical.Min, r.Critical.Max)
	}
	return nil
}

// SignalRule is the single-sided rule used for WiFi RSSI (dBm).
type SignalRule struct {
	Critical float64 `mapstructure:"critical" json:"critical"`
	Warning  float64 `mapstructure:"warning" json:"warning"`
}

// Classification is the result of classifying one metric value.
type Classification struct {
	Severity   models.Severity
	Suspicious bool
}

// DefaultSeverityRules returns the built-in severity bands.
func DefaultSeverityRules() map[string]SeverityRule {
	return map[string]SeverityRule{
		models.MetricWaterTemp: {Critical: Bounds{15, 35}, Warning: Bounds{24, 31}},
		models.MetricAirTemp:   {Critical: Bounds{0, 40}, Warning: Bounds{10, 32}},
		models.MetricHumidity:  {Critical: Bounds{20, 90}, Warning: Bounds{30, 70}},
		models.MetricPH:        {Critical: Bounds{6.8, 8.0}, Warning: Bounds{7.2, 7.8}},
	}
}

// DefaultSignalRule returns the built-in RSSI rule.
func DefaultSignalRule() SignalRule {
	return SignalRule{Critical: -90, Warning: -80}
}

// Classifier maps (metric, value) to a severity tier and a suspicion flag.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules  map[string]SeverityRule
	signal SignalRule
}

// NewClassifier validates rules and returns a classifier using them.
// A nil rules map selects the defaults.
func NewClassifier(rules map[string]SeverityRule, signal SignalRule) (*Classifier, error) {
	if rules == nil {
		rules = DefaultSeverityRules()
	}
	copied := make(map[string]SeverityRule, len(rules))
	for metric, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("severity rule %q: %w", metric, err)
		}
		copied[metric] = r
	}
	if signal.Critical >= signal.Warning {
		return nil, fmt.Errorf("signal rule: critical (%v) must be below warning (%v)", signal.Critical, signal.Warning)
	}
	return &Classifier{rules: copied, signal: signal}, nil
}

// DefaultClassifier returns a classifier using the built-in rules.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(nil, DefaultSignalRule())
	if err != nil {
		panic(err) // built-in rules are static
	}
	return c
}

// Classify returns the severity and suspicion flag for value.
// Metrics without a rule are info and never suspicious.
func (c *Classifier) Classify(metric string, value float64) Classification {
	return Classification{
		Severity:   c.severity(metric, value),
		Suspicious: IsSuspicious(metric, value),
	}
}

func (c *Classifier) severity(metric string, value float64) models.Severity {
	if metric == models.MetricRSSI {
		switch {
		case value < c.signal.Critical:
			return models.SeverityCritical
		case value < c.signal.Warning:
			return models.SeverityWarning
		default:
			return models.SeverityInfo
		}
	}

	rule, ok := c.rules[metric]
	if !ok {
		return models.SeverityInfo
	}
	switch {
	case !rule.Critical.Contains(value):
		return models.SeverityCritical
	case !rule.Warning.Contains(value):
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// IsSuspicious flags temperature values that are physically implausible.
func IsSuspicious(metric string, value float64) bool {
	switch metric {
	case models.MetricWaterTemp, models.MetricAirTemp:
		return value > suspiciousTempMax || value < suspiciousTempMin
	default:
		return false
	}
}
