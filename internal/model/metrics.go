package model

import "time"

// AllDay is the Hour of a bucket key produced at day granularity.
const AllDay = -1

// BucketKey identifies one aggregation bucket.
type BucketKey struct {
	Date Date `json:"date"`
	Hour int  `json:"hour"` // AllDay, or 0-23
}

// Bucket is an aggregated value for one key.
type Bucket struct {
	Key       BucketKey `json:"key"`
	Aggregate float64   `json:"aggregate"`
}

// CalendarCell is one slot of a calendar grid. A zero Date is padding and
// carries no value.
type CalendarCell struct {
	Date      Date    `json:"date"`
	Value     float64 `json:"value"`
	Intensity float64 `json:"intensity"`
}

// IsPad reports whether c is a padding cell.
func (c CalendarCell) IsPad() bool { return c.Date.IsZero() }

// WeekRow is one Sunday-first calendar week.
type WeekRow [7]CalendarCell

// Heatmap is a calendar grid of daily values with intensities in [0,1].
type Heatmap struct {
	Start Date      `json:"start"`
	End   Date      `json:"end"`
	Mode  string    `json:"mode"`
	Rows  []WeekRow `json:"rows"`
	Max   float64   `json:"max"`
	Total float64   `json:"total"`
}

// WeekHourGrid folds hourly buckets by weekday: Values[weekday][hour].
type WeekHourGrid struct {
	Values    [7][24]float64 `json:"values"`
	Intensity [7][24]float64 `json:"intensity"`
	Max       float64        `json:"max"`
	PeakDay   time.Weekday   `json:"peak_day"`
	PeakHour  int            `json:"peak_hour"`
}

// SummaryStats holds top-level totals over a set of events.
type SummaryStats struct {
	Events       int     `json:"events"`
	Skipped      int     `json:"skipped"`
	Total        float64 `json:"total"`
	ActiveDays   int     `json:"active_days"`
	PerDay       float64 `json:"per_day"`
	First        Date    `json:"first"`
	Last         Date    `json:"last"`
	PeakDay      Date    `json:"peak_day"`
	PeakDayTotal float64 `json:"peak_day_total"`
}
