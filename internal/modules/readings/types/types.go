package types

import "time"

// DefaultLimit is the page size used when the caller does not pass one.
const DefaultLimit = 20

// TimeOfDay is the stored clock column. Valid is false when the column was
// NULL or held something other than a time span.
type TimeOfDay struct {
	Span  time.Duration
	Valid bool
}

// Reading is one row of the readings table as the driver returned it.
type Reading struct {
	ID               int64
	Temperature      *float64
	Humidity         *float64
	Date             string
	Clock            TimeOfDay
	AlertTemperature *bool
	AlertHumidity    *bool
}

// NormalizedReading is a Reading with the clock replaced by a validated
// HH:MM:SS time and the date re-rendered as YYYY-MM-DD.
type NormalizedReading struct {
	ID               int64    `json:"reading_id"`
	Temperature      *float64 `json:"temperature"`
	Humidity         *float64 `json:"humidity"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	AlertTemperature *bool    `json:"alert_temperature"`
	AlertHumidity    *bool    `json:"alert_humidity"`
}

// RangeQuery filters historical readings. Empty dates leave that bound open.
type RangeQuery struct {
	Limit     int
	StartDate string
	EndDate   string
}
