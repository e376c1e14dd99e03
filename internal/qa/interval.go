package qa

import (
	"strconv"
	"strings"
	"time"

	"sensoringest"
)

// StationInterval finds the sampling interval in a station table: the first column whose
// name contains "interval", holding whole minutes. It returns fallback when no such
// column exists or its value does not parse.
func StationInterval(station sensoringest.Table, fallback time.Duration) time.Duration {
	for i, col := range station.Columns {
		if !strings.Contains(strings.ToLower(col), "interval") {
			continue
		}
		raw := strings.TrimSpace(station.Cell(0, i))
		raw = strings.TrimSuffix(strings.TrimSuffix(raw, "min"), "m")
		minutes, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || minutes <= 0 {
			return fallback
		}
		return time.Duration(minutes * float64(time.Minute))
	}
	return fallback
}
