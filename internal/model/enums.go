package model

import (
	"fmt"
	"strings"
)

// Mode selects how events are accumulated into a bucket.
type Mode int

const (
	// ModeSum accumulates event values.
	ModeSum Mode = iota
	// ModeCount adds 1 per event and ignores its value.
	ModeCount
)

func (m Mode) String() string {
	if m == ModeCount {
		return "count"
	}
	return "sum"
}

// ParseMode parses "sum" or "count" (case-insensitive). Empty means sum.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return ModeSum, nil
	case "count":
		return ModeCount, nil
	}
	return ModeSum, fmt.Errorf("unknown mode %q (want sum or count)", s)
}

// Granularity selects the bucket key.
type Granularity int

const (
	// ByDay keys buckets by calendar date.
	ByDay Granularity = iota
	// ByDayHour keys buckets by (calendar date, hour).
	ByDayHour
)

func (g Granularity) String() string {
	if g == ByDayHour {
		return "day_hour"
	}
	return "day"
}

// Period is the width of a cash-flow rollup bucket.
type Period int

const (
	PeriodDay Period = iota
	PeriodWeek
	PeriodMonth
)

func (p Period) String() string {
	switch p {
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	}
	return "day"
}

// ParsePeriod parses day, week/weekly or month/monthly.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "daily":
		return PeriodDay, nil
	case "week", "weekly":
		return PeriodWeek, nil
	case "month", "monthly":
		return PeriodMonth, nil
	}
	return PeriodDay, fmt.Errorf("unknown period %q (want day, week or month)", s)
}
