package alerts

import "pool_monitor/internal/models"

const titleSensorFault = "Posible fallo de sensor"

var severityTitles = map[models.Severity]string{
	models.SeverityCritical: "Alerta crítica",
	models.SeverityWarning:  "Advertencia",
	models.SeverityInfo:     "Aviso",
}

// Title returns the display title of an alert.
func Title(pa models.ProcessedAlert) string {
	if pa.IsSuspicious {
		return titleSensorFault
	}
	if t, ok := severityTitles[pa.Severity]; ok {
		return t
	}
	return severityTitles[models.SeverityInfo]
}

// Description returns the display text: an explanation for sensor faults,
// otherwise the stored message.
func Description(pa models.ProcessedAlert) string {
	if !pa.IsSuspicious {
		return pa.Message
	}
	return "Lectura anómala de " + metricLabel(pa.Type) + " (" + formatValue(pa.Value) +
		"): el sensor podría estar desconectado o averiado."
}
