package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPHFromVoltage(t *testing.T) {
	cases := []struct {
		name    string
		voltage float64
		want    float64
	}{
		{"neutral", 2.5, 7.0},
		{"alkaline", 2.0, 8.75},
		{"acidic", 3.0, 5.25},
		{"clamped high", 0, 14},
		{"clamped low", 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, PHFromVoltage(tc.voltage), 1e-9)
		})
	}
}
