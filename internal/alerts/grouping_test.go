package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pool_monitor/internal/models"
)

const minute = int64(time.Minute / time.Millisecond)

func rec(id, typ, msg string, value float64, ts int64) models.AlertRecord {
	return models.AlertRecord{ID: id, Type: typ, Message: msg, Value: value, Timestamp: ts}
}

func TestProcess_GroupsWithinWindow(t *testing.T) {
	p := NewProcessor(nil, 0, GroupByLatest)
	base := int64(1_700_000_000_000)
	msg := "Señal WiFi fuera de rango: -92dBm"

	groups := p.Process([]models.AlertRecord{
		rec("b", models.MetricRSSI, msg, -92, base+5*minute),
		rec("a", models.MetricRSSI, msg, -92, base),
	}, false)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, base+5*minute, groups[0].LatestTimestamp)
	assert.Len(t, groups[0].Alerts, 2)

	groups = p.Process([]models.AlertRecord{
		rec("b", models.MetricRSSI, msg, -92, base+20*minute),
		rec("a", models.MetricRSSI, msg, -92, base),
	}, false)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, 1, groups[1].Count)
}

func TestProcess_DifferentMessageStartsNewGroup(t *testing.T) {
	p := NewProcessor(nil, 0, GroupByLatest)
	base := int64(1_700_000_000_000)

	groups := p.Process([]models.AlertRecord{
		rec("a", models.MetricRSSI, "Señal WiFi fuera de rango: -92dBm", -92, base),
		rec("b", models.MetricRSSI, "Señal WiFi fuera de rango: -95dBm", -95, base+time.Minute.Milliseconds()),
		rec("c", models.MetricPH, "Señal WiFi fuera de rango: -92dBm", -92, base),
	}, false)
	assert.Len(t, groups, 3)
}

func TestProcess_SuspiciousToggle(t *testing.T) {
	p := NewProcessor(nil, 0, GroupByLatest)
	base := int64(1_700_000_000_000)

	records := []models.AlertRecord{
		rec("s1", models.MetricWaterTemp, "Temperatura del agua fuera de rango: 85°C", 85, base),
		rec("s2", models.MetricWaterTemp, "Temperatura del agua fuera de rango: 90°C", 90, base+30*minute),
		rec("s3", models.MetricAirTemp, "Temperatura del aire fuera de rango: -20°C", -20, base+60*minute),
		rec("n1", models.MetricPH, "pH fuera de rango: 8.1", 8.1, base+90*minute),
		rec("n2", models.MetricHumidity, "Humedad del aire fuera de rango: 95%", 95, base+120*minute),
	}

	hidden := p.Process(records, false)
	require.Len(t, hidden, 2)
	for _, g := range hidden {
		assert.False(t, g.IsSuspicious)
	}

	shown := p.Process(records, true)
	assert.Len(t, shown, 5)
}

func TestProcess_ChainingDependsOnPolicy(t *testing.T) {
	base := int64(1_700_000_000_000)
	msg := "pH fuera de rango: 8.2"

	// ascending arrival, 10 minutes apart: each record is within the window of
	// the previous one but the last is 40 minutes after the first.
	var records []models.AlertRecord
	for i := int64(0); i < 5; i++ {
		records = append(records, rec(string(rune('a'+i)), models.MetricPH, msg, 8.2, base+i*10*minute))
	}

	latest := NewProcessor(nil, 15*time.Minute, GroupByLatest).Process(records, false)
	require.Len(t, latest, 1)
	assert.Equal(t, 5, latest[0].Count)
	assert.Equal(t, base, latest[0].FirstTimestamp)
	assert.Equal(t, base+40*minute, latest[0].LatestTimestamp)

	first := NewProcessor(nil, 15*time.Minute, GroupByFirst).Process(records, false)
	require.Len(t, first, 3)
	// newest activity first
	assert.Equal(t, base+40*minute, first[0].LatestTimestamp)
	assert.Equal(t, 1, first[0].Count)
	assert.Equal(t, 2, first[1].Count)
	assert.Equal(t, 2, first[2].Count)
}

func TestProcess_NewestFirstInputChainsLikeAscending(t *testing.T) {
	base := int64(1_700_000_000_000)
	msg := "Señal WiFi fuera de rango: -92dBm"

	// the alert log reads newest first
	var records []models.AlertRecord
	for i := int64(4); i >= 0; i-- {
		records = append(records, rec(string(rune('a'+i)), models.MetricRSSI, msg, -92, base+i*10*minute))
	}

	latest := NewProcessor(nil, 15*time.Minute, GroupByLatest).Process(records, false)
	require.Len(t, latest, 1)
	assert.Equal(t, 5, latest[0].Count)
	assert.Equal(t, base, latest[0].FirstTimestamp)
	assert.Equal(t, base+40*minute, latest[0].LatestTimestamp)
	assert.Equal(t, "a", latest[0].Alerts[0].ID)

	first := NewProcessor(nil, 15*time.Minute, GroupByFirst).Process(records, false)
	require.Len(t, first, 3)
	assert.Equal(t, []int{1, 2, 2}, []int{first[0].Count, first[1].Count, first[2].Count})
}

func TestProcess_PresentsTitlesAndDescriptions(t *testing.T) {
	p := NewProcessor(nil, 0, GroupByLatest)
	base := int64(1_700_000_000_000)

	groups := p.Process([]models.AlertRecord{
		rec("s", models.MetricWaterTemp, "Temperatura del agua fuera de rango: 85°C", 85, base+3*60*minute),
		rec("c", models.MetricPH, "pH fuera de rango: 8.5", 8.5, base+2*60*minute),
		rec("w", models.MetricPH, "pH fuera de rango: 7.9", 7.9, base+60*minute),
		rec("i", models.MetricRSSI, "Señal WiFi fuera de rango: -78dBm", -78, base),
	}, true)
	require.Len(t, groups, 4)

	assert.Equal(t, "Posible fallo de sensor", groups[0].Title)
	assert.Equal(t, models.SeverityCritical, groups[0].Severity)
	assert.Contains(t, groups[0].Description, "Temperatura del agua")
	assert.Contains(t, groups[0].Description, "85")

	assert.Equal(t, "Alerta crítica", groups[1].Title)
	assert.Equal(t, "pH fuera de rango: 8.5", groups[1].Description)

	assert.Equal(t, "Advertencia", groups[2].Title)
	assert.Equal(t, "Aviso", groups[3].Title)
}

func TestProcess_EmptyLog(t *testing.T) {
	p := NewProcessor(nil, 0, "")
	assert.Empty(t, p.Process(nil, false))
}

func TestParseGroupPolicy(t *testing.T) {
	got, err := ParseGroupPolicy("")
	require.NoError(t, err)
	assert.Equal(t, GroupByLatest, got)

	got, err = ParseGroupPolicy("first")
	require.NoError(t, err)
	assert.Equal(t, GroupByFirst, got)

	_, err = ParseGroupPolicy("sliding")
	assert.Error(t, err)
}
