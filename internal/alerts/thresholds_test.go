package alerts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pool_monitor/internal/models"
)

func TestMerge_OnlyEnabledOverridesApply(t *testing.T) {
	base := DefaultThresholds()
	merged := Merge(base, &models.ThresholdSettings{
		WaterTemp: models.ThresholdOverride{Enabled: true, Min: 20, Max: 30},
		AirTemp:   models.ThresholdOverride{Enabled: false, Min: -50, Max: 50},
	})

	water := merged[models.MetricWaterTemp]
	assert.Equal(t, 20.0, water.Min)
	assert.Equal(t, 30.0, water.Max)
	assert.Equal(t, "Temperatura del agua", water.Label, "label is kept from defaults")

	assert.Equal(t, base[models.MetricAirTemp], merged[models.MetricAirTemp])
	assert.Equal(t, base[models.MetricHumidity], merged[models.MetricHumidity])

	// base is not mutated
	assert.Equal(t, 18.0, base[models.MetricWaterTemp].Min)
}

func TestMerge_NilSettingsReturnsDefaults(t *testing.T) {
	assert.Equal(t, DefaultThresholds(), Merge(DefaultThresholds(), nil))
}

func TestValidateSettings(t *testing.T) {
	err := ValidateSettings(models.ThresholdSettings{
		Humidity: models.ThresholdOverride{Enabled: true, Min: 60, Max: 60},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidThreshold))
	assert.Contains(t, err.Error(), "humidity")

	// disabled entries are not validated
	assert.NoError(t, ValidateSettings(models.ThresholdSettings{
		AirTemp: models.ThresholdOverride{Enabled: false, Min: 10, Max: 5},
	}))

	assert.NoError(t, ValidateSettings(models.ThresholdSettings{
		WaterTemp: models.ThresholdOverride{Enabled: true, Min: 22, Max: 29},
	}))
}

func TestOutOfRangeIsStrict(t *testing.T) {
	r := models.ThresholdRange{Min: 18, Max: 28}
	assert.False(t, OutOfRange(r, 18))
	assert.False(t, OutOfRange(r, 28))
	assert.True(t, OutOfRange(r, 17.99))
	assert.True(t, OutOfRange(r, 28.01))
}

func TestFormatAlertMessage(t *testing.T) {
	d := DefaultThresholds()
	assert.Equal(t, "Temperatura del agua fuera de rango: 85°C", FormatAlertMessage(d[models.MetricWaterTemp], 85))
	assert.Equal(t, "pH fuera de rango: 8.75", FormatAlertMessage(d[models.MetricPH], 8.75))
	// the value is printed as is, so near-equal readings keep distinct messages
	assert.Equal(t, "pH fuera de rango: 7.455000000000001", FormatAlertMessage(d[models.MetricPH], 7.455000000000001))
	assert.Equal(t, "pH fuera de rango: 7.8125", FormatAlertMessage(d[models.MetricPH], 7.8125))
	assert.Equal(t, "Señal WiFi fuera de rango: -91dBm", FormatAlertMessage(d[models.MetricRSSI], -91))
}
