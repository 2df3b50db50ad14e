package mqttpub

import "strconv"

// formatValue renders a reading as the plain decimal string MQTT sensor
// consumers (including Home Assistant's mqtt sensor) expect as payload.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
