package pipeline

import "github.com/theirongolddev/cashcal/internal/model"

// PeriodStart returns the first day of the period containing d. Weeks start
// on Monday.
func PeriodStart(d model.Date, p model.Period) model.Date {
	switch p {
	case model.PeriodWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case model.PeriodMonth:
		return model.NewDate(d.Year(), d.Month(), 1)
	}
	return d
}

// RollupPeriods aggregates events into one point per period, keyed by the
// period's first day and sorted ascending. With PeriodDay and ModeSum this
// turns a list of payments into a baseline series.
func RollupPeriods(events []model.Event, mode model.Mode, period model.Period) []model.PeriodPoint {
	acc := make(map[model.Date]float64)
	for _, b := range Aggregate(events, mode, model.ByDay) {
		acc[PeriodStart(b.Key.Date, period)] += b.Aggregate
	}
	return sortedSeries(acc)
}
