package service

import (
	"fmt"
	"time"

	"sensorapi/internal/metrics"
	"sensorapi/internal/modules/readings/types"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"

	// midnight stands in for a clock that was NULL or not a time span.
	midnight = "00:00:00"
)

// NormalizationError reports a reading whose date and clock do not combine
// into a valid timestamp.
type NormalizationError struct {
	ReadingID int64
	Value     string
	Err       error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("Time conversion failed: reading %d: %v", e.ReadingID, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// Normalizer turns stored readings into their wire form. It never touches
// the store and is safe for concurrent use.
type Normalizer struct {
	metrics *metrics.Metrics
}

func NewNormalizer(m *metrics.Metrics) *Normalizer {
	return &Normalizer{metrics: m}
}

// Normalize renders the clock as HH:MM:SS, parses it together with the date
// and re-derives both fields from the parsed value.
func (n *Normalizer) Normalize(r types.Reading) (types.NormalizedReading, error) {
	value := r.Date + " " + renderClock(r.Clock)
	t, err := time.Parse(dateTimeLayout, value)
	if err != nil {
		n.metrics.NormalizationFailed()
		return types.NormalizedReading{}, &NormalizationError{ReadingID: r.ID, Value: value, Err: err}
	}
	return types.NormalizedReading{
		ID:               r.ID,
		Temperature:      r.Temperature,
		Humidity:         r.Humidity,
		Date:             t.Format(dateLayout),
		Time:             t.Format(clockLayout),
		AlertTemperature: r.AlertTemperature,
		AlertHumidity:    r.AlertHumidity,
	}, nil
}

// NormalizeAll normalizes the batch in order. The first failure aborts it.
func (n *Normalizer) NormalizeAll(readings []types.Reading) ([]types.NormalizedReading, error) {
	out := make([]types.NormalizedReading, 0, len(readings))
	for _, r := range readings {
		nr, err := n.Normalize(r)
		if err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	return out, nil
}

// renderClock formats a span as zero-padded HH:MM:SS. Fractional seconds are
// dropped. Negative spans keep their sign and spans of a day or more keep
// their full hour count, so neither parses as a time of day.
func renderClock(c types.TimeOfDay) string {
	if !c.Valid {
		return midnight
	}
	span := c.Span
	sign := ""
	if span < 0 {
		sign = "-"
		span = -span
	}
	h := span / time.Hour
	span -= h * time.Hour
	m := span / time.Minute
	span -= m * time.Minute
	s := span / time.Second
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
