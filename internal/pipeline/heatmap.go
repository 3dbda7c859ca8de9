package pipeline

import (
	"time"

	"github.com/theirongolddev/cashcal/internal/model"
)

// BuildHeatmap lays out daily aggregates for [start, end] as a calendar grid.
// Intensities are relative to the busiest day shown.
func BuildHeatmap(events []model.Event, start, end model.Date, mode model.Mode) model.Heatmap {
	totals := BucketTotals(Aggregate(FilterRange(events, start, end), mode, model.ByDay))
	dates := ExpandRange(start, end)

	hm := model.Heatmap{
		Start: start,
		End:   end,
		Mode:  mode.String(),
		Rows:  BuildCalendar(dates),
	}
	for _, d := range dates {
		v := totals[d]
		hm.Total += v
		if v > hm.Max {
			hm.Max = v
		}
	}

	for i := range hm.Rows {
		for j := range hm.Rows[i] {
			cell := &hm.Rows[i][j]
			if cell.IsPad() {
				continue
			}
			cell.Value = totals[cell.Date]
			cell.Intensity = Normalize(cell.Value, hm.Max)
		}
	}
	return hm
}

// WeekdayHourGrid folds hourly buckets onto a Sunday-first 7x24 grid, so
// every Monday 09:00 lands in the same cell.
func WeekdayHourGrid(events []model.Event, mode model.Mode) model.WeekHourGrid {
	var g model.WeekHourGrid

	for _, b := range Aggregate(events, mode, model.ByDayHour) {
		wd := b.Key.Date.Weekday()
		g.Values[wd][b.Key.Hour] += b.Aggregate
	}

	for d := range g.Values {
		for h, v := range g.Values[d] {
			if v > g.Max {
				g.Max = v
				g.PeakDay = time.Weekday(d)
				g.PeakHour = h
			}
		}
	}
	for d := range g.Values {
		for h, v := range g.Values[d] {
			g.Intensity[d][h] = Normalize(v, g.Max)
		}
	}
	return g
}
