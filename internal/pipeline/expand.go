package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/cashcal/internal/model"
)

// MaxRangeDays bounds how many days a calendar request may span (ten years
// plus leap days).
const MaxRangeDays = 3653

// CheckRange rejects an inverted range or one wider than MaxRangeDays.
// Missing bounds pass.
func CheckRange(start, end model.Date) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start) {
		return fmt.Errorf("range end %s is before start %s", end, start)
	}
	if span := start.DaysUntil(end) + 1; span > MaxRangeDays {
		return fmt.Errorf("range %s to %s spans %d days, max %d", start, end, span, MaxRangeDays)
	}
	return nil
}

// ExpandRange returns every calendar day from start to end inclusive, ascending.
// An inverted range or a missing bound yields an empty slice.
func ExpandRange(start, end model.Date) []model.Date {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return []model.Date{}
	}

	days := make([]model.Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// DefaultRange fills absent heatmap bounds the way the dashboard does:
// start defaults to Jan 1 of now's year, end to Dec 31 of start's year.
func DefaultRange(start, end model.Date, now time.Time) (model.Date, model.Date) {
	if start.IsZero() {
		start = model.NewDate(now.Year(), time.January, 1)
	}
	if end.IsZero() {
		end = model.NewDate(start.Year(), time.December, 31)
	}
	return start, end
}
