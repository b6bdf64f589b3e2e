package repository

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"sensorapi/internal/modules/readings/types"
)

// clockPattern matches the textual form drivers use for a time span:
// MySQL TIME ("838:59:59", "-01:30:00", "14:05:30.250000") and the same text
// stored in SQLite.
var clockPattern = regexp.MustCompile(`^(-)?(\d+):([0-5]\d):([0-5]\d)(?:\.(\d{1,6}))?$`)

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	var out []types.Reading
	for rows.Next() {
		var (
			rec                   types.Reading
			temperature, humidity sql.NullFloat64
			date, clock           any
			alertTemp, alertHum   sql.NullBool
		)
		if err := rows.Scan(&rec.ID, &temperature, &humidity, &date, &clock, &alertTemp, &alertHum); err != nil {
			return nil, err
		}
		if temperature.Valid {
			rec.Temperature = &temperature.Float64
		}
		if humidity.Valid {
			rec.Humidity = &humidity.Float64
		}
		if alertTemp.Valid {
			rec.AlertTemperature = &alertTemp.Bool
		}
		if alertHum.Valid {
			rec.AlertHumidity = &alertHum.Bool
		}
		rec.Date = dateString(date)
		rec.Clock = timeOfDay(clock)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// dateString renders the stored date the way it reads in the database.
// NULL and zero dates become "", which later fails normalization.
func dateString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func timeOfDay(v any) types.TimeOfDay {
	var s string
	switch t := v.(type) {
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return types.TimeOfDay{}
	}
	span, ok := parseSpan(s)
	if !ok {
		return types.TimeOfDay{}
	}
	return types.TimeOfDay{Span: span, Valid: true}
}

func parseSpan(s string) (time.Duration, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || hours > 1<<20 {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[3])
	seconds, _ := strconv.Atoi(m[4])

	span := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	if m[5] != "" {
		frac := m[5]
		for len(frac) < 6 {
			frac += "0"
		}
		micros, _ := strconv.Atoi(frac)
		span += time.Duration(micros) * time.Microsecond
	}
	if m[1] == "-" {
		span = -span
	}
	return span, true
}
