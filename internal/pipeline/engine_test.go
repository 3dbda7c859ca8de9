package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/cashcal/internal/model"
)

func d(s string) model.Date { return model.MustDate(s) }

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end model.Date
		want       int
	}{
		{"single day", d("2024-01-01"), d("2024-01-01"), 1},
		{"leap february", d("2024-02-01"), d("2024-02-29"), 29},
		{"full year", d("2024-01-01"), d("2024-12-31"), 366},
		{"inverted", d("2024-01-05"), d("2024-01-01"), 0},
		{"missing start", model.Date{}, d("2024-01-01"), 0},
		{"missing end", d("2024-01-01"), model.Date{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandRange(tt.start, tt.end)
			if got == nil {
				t.Fatal("ExpandRange returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].DaysUntil(got[i]) != 1 {
					t.Fatalf("gap between %s and %s", got[i-1], got[i])
				}
			}
		})
	}
}

func TestExpandRange_AcrossDSTChange(t *testing.T) {
	// US spring-forward and EU fall-back weekends.
	for _, r := range [][2]string{{"2024-03-09", "2024-03-12"}, {"2024-10-26", "2024-10-29"}} {
		got := ExpandRange(d(r[0]), d(r[1]))
		if len(got) != 4 {
			t.Fatalf("%v: len = %d, want 4", r, len(got))
		}
		seen := make(map[model.Date]bool)
		for _, day := range got {
			if seen[day] {
				t.Errorf("%v: duplicate day %s", r, day)
			}
			seen[day] = true
		}
		if got[3] != d(r[1]) {
			t.Errorf("%v: last = %s, want %s", r, got[3], r[1])
		}
	}
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	start, end := DefaultRange(model.Date{}, model.Date{}, now)
	if start != d("2025-01-01") || end != d("2025-12-31") {
		t.Errorf("defaults = %s..%s", start, end)
	}

	start, end = DefaultRange(d("2023-04-01"), model.Date{}, now)
	if start != d("2023-04-01") || end != d("2023-12-31") {
		t.Errorf("end default = %s..%s, want end of start's year", start, end)
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end model.Date
		wantErr    bool
	}{
		{"one day", d("2024-01-01"), d("2024-01-01"), false},
		{"ten years", d("2015-01-01"), d("2024-12-31"), false},
		{"open start", model.Date{}, d("9999-12-31"), false},
		{"inverted", d("2024-02-01"), d("2024-01-01"), true},
		{"whole calendar", d("0002-01-01"), d("9999-12-31"), true},
		{"one day over", d("2015-01-01"), d("2015-01-01").AddDays(MaxRangeDays), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckRange(tt.start, tt.end); (err != nil) != tt.wantErr {
				t.Errorf("CheckRange(%s, %s) err = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestBuildCalendar_WednesdayStart(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	rows := BuildCalendar(ExpandRange(d("2024-01-03"), d("2024-01-06")))
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	for i := 0; i < 3; i++ {
		if !rows[0][i].IsPad() {
			t.Errorf("slot %d = %s, want padding", i, rows[0][i].Date)
		}
	}
	want := []string{"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"}
	for i, w := range want {
		if rows[0][3+i].Date != d(w) {
			t.Errorf("slot %d = %s, want %s", 3+i, rows[0][3+i].Date, w)
		}
	}
}

func TestBuildCalendar_RoundTrip(t *testing.T) {
	dates := ExpandRange(d("2024-02-14"), d("2024-05-02"))
	rows := BuildCalendar(dates)

	var flat []model.Date
	for _, row := range rows {
		if len(row) != 7 {
			t.Fatalf("row length = %d, want 7", len(row))
		}
		for _, cell := range row {
			if !cell.IsPad() {
				flat = append(flat, cell.Date)
			}
		}
	}
	if len(flat) != len(dates) {
		t.Fatalf("flattened %d dates, want %d", len(flat), len(dates))
	}
	for i := range dates {
		if flat[i] != dates[i] {
			t.Fatalf("flat[%d] = %s, want %s", i, flat[i], dates[i])
		}
	}
	// Sunday-first columns.
	for _, row := range rows {
		for col, cell := range row {
			if !cell.IsPad() && int(cell.Date.Weekday()) != col {
				t.Errorf("%s in column %d", cell.Date, col)
			}
		}
	}
}

func TestBuildCalendar_Empty(t *testing.T) {
	if rows := BuildCalendar(nil); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		value, max, want float64
	}{
		{50, 100, 0.5},
		{100, 100, 1},
		{0, 100, 0},
		{150, 100, 1},
		{-5, 100, 0},
		{5, 0, 0},
		{5, -1, 0},
		{math.NaN(), 10, 0},
		{5, math.Inf(1), 0},
	}
	for _, tt := range tests {
		if got := Normalize(tt.value, tt.max); got != tt.want {
			t.Errorf("Normalize(%v, %v) = %v, want %v", tt.value, tt.max, got, tt.want)
		}
	}
}

func TestAggregate_Conservation(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", Value: 10},
		{Date: "2024-01-01T13:45:00Z", Value: 5},
		{Date: "2024-01-02T08:00:00+02:00", Value: 7},
		{Date: "garbage", Value: 1000},
		{Date: "", Value: 1000},
	}

	for _, gran := range []model.Granularity{model.ByDay, model.ByDayHour} {
		sum := 0.0
		for _, b := range Aggregate(events, model.ModeSum, gran) {
			sum += b.Aggregate
		}
		if sum != 22 {
			t.Errorf("gran %v: sum = %v, want 22", gran, sum)
		}

		count := 0.0
		for _, b := range Aggregate(events, model.ModeCount, gran) {
			count += b.Aggregate
		}
		if count != 3 {
			t.Errorf("gran %v: count = %v, want 3", gran, count)
		}
	}
}

func TestAggregate_Keys(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-02T08:30:00+02:00", Value: 1},
		{Date: "2024-01-01", Value: 1},
		{Date: "2024-01-01T13:00:00Z", Value: 1},
	}

	daily := Aggregate(events, model.ModeCount, model.ByDay)
	if len(daily) != 2 {
		t.Fatalf("daily buckets = %d, want 2", len(daily))
	}
	if daily[0].Key != (model.BucketKey{Date: d("2024-01-01"), Hour: model.AllDay}) || daily[0].Aggregate != 2 {
		t.Errorf("daily[0] = %+v", daily[0])
	}

	hourly := Aggregate(events, model.ModeCount, model.ByDayHour)
	if len(hourly) != 3 {
		t.Fatalf("hourly buckets = %d, want 3", len(hourly))
	}
	// Date-only stamps land at hour 0; offsets keep their written wall clock.
	if hourly[0].Key.Hour != 0 || hourly[1].Key.Hour != 13 {
		t.Errorf("hourly keys = %+v, %+v", hourly[0].Key, hourly[1].Key)
	}
	if hourly[2].Key != (model.BucketKey{Date: d("2024-01-02"), Hour: 8}) {
		t.Errorf("hourly[2].Key = %+v", hourly[2].Key)
	}
}

func TestFilterRangeAndSummarize(t *testing.T) {
	events := []model.Event{
		{Date: "2023-12-31", Value: 1},
		{Date: "2024-01-01", Value: 10},
		{Date: "2024-01-01", Value: 30},
		{Date: "2024-01-03", Value: 20},
		{Date: "2024-01-09", Value: 99},
		{Date: "bad", Value: 5},
	}
	start, end := d("2024-01-01"), d("2024-01-05")

	if got := FilterRange(events, start, end); len(got) != 3 {
		t.Errorf("FilterRange len = %d, want 3", len(got))
	}
	if got := FilterRange(events, model.Date{}, model.Date{}); len(got) != len(events) {
		t.Errorf("open range len = %d, want %d", len(got), len(events))
	}

	s := Summarize(events, start, end, model.ModeSum)
	if s.Events != 3 || s.Skipped != 1 {
		t.Errorf("Events=%d Skipped=%d, want 3 and 1", s.Events, s.Skipped)
	}
	if s.Total != 60 || s.ActiveDays != 2 || s.PerDay != 30 {
		t.Errorf("Total=%v ActiveDays=%d PerDay=%v", s.Total, s.ActiveDays, s.PerDay)
	}
	if s.First != d("2024-01-01") || s.Last != d("2024-01-03") {
		t.Errorf("First=%s Last=%s", s.First, s.Last)
	}
	if s.PeakDay != d("2024-01-01") || s.PeakDayTotal != 40 {
		t.Errorf("PeakDay=%s PeakDayTotal=%v", s.PeakDay, s.PeakDayTotal)
	}
}

func TestFilterVendors(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", Value: 1, Vendor: "Acme"},
		{Date: "2024-01-02", Value: 2, Vendor: "Globex"},
		{Date: "2024-01-03", Value: 4},
	}

	if got := ParseVendors(" acme, ,GLOBEX ,"); len(got) != 2 || got[0] != "acme" || got[1] != "GLOBEX" {
		t.Fatalf("ParseVendors = %q", got)
	}
	if got := ParseVendors(""); got != nil {
		t.Errorf("ParseVendors(\"\") = %q, want nil", got)
	}

	tests := []struct {
		name    string
		vendors []string
		want    float64
	}{
		{"no filter keeps all", nil, 7},
		{"case insensitive", []string{"ACME"}, 1},
		{"several", []string{"acme", "globex"}, 3},
		{"unknown vendor", []string{"initech"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var total float64
			for _, e := range FilterVendors(events, tt.vendors) {
				total += e.Value.Float()
			}
			if total != tt.want {
				t.Errorf("total = %v, want %v", total, tt.want)
			}
		})
	}
}

func TestBuildHeatmap(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-03", Value: 20},
		{Date: "2024-01-03T10:00:00Z", Value: 30},
		{Date: "2024-01-04", Value: 100},
		{Date: "2024-02-01", Value: 500}, // outside range
	}
	// 2024-01-01 is a Monday.
	hm := BuildHeatmap(events, d("2024-01-01"), d("2024-01-07"), model.ModeSum)

	if len(hm.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(hm.Rows))
	}
	if hm.Max != 100 || hm.Total != 150 {
		t.Errorf("Max=%v Total=%v, want 100 and 150", hm.Max, hm.Total)
	}
	if !hm.Rows[0][0].IsPad() {
		t.Error("Sunday slot should be padding")
	}
	wed := hm.Rows[0][3]
	if wed.Date != d("2024-01-03") || wed.Value != 50 || wed.Intensity != 0.5 {
		t.Errorf("wednesday cell = %+v", wed)
	}
	for _, row := range hm.Rows {
		for _, c := range row {
			if c.Intensity < 0 || c.Intensity > 1 {
				t.Errorf("intensity %v out of range at %s", c.Intensity, c.Date)
			}
		}
	}
}

func TestBuildHeatmap_NoEvents(t *testing.T) {
	hm := BuildHeatmap(nil, d("2024-01-01"), d("2024-01-31"), model.ModeCount)
	if hm.Max != 0 {
		t.Errorf("Max = %v, want 0", hm.Max)
	}
	for _, row := range hm.Rows {
		for _, c := range row {
			if c.Intensity != 0 {
				t.Fatalf("intensity = %v, want 0", c.Intensity)
			}
		}
	}
}

func TestWeekdayHourGrid(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01T09:15:00Z"}, // Monday
		{Date: "2024-01-01T09:45:00Z"},
		{Date: "2024-01-08T09:00:00Z"}, // next Monday
		{Date: "2024-01-02T23:00:00Z"}, // Tuesday
	}
	g := WeekdayHourGrid(events, model.ModeCount)

	if g.Values[time.Monday][9] != 3 {
		t.Errorf("Monday 09 = %v, want 3", g.Values[time.Monday][9])
	}
	if g.PeakDay != time.Monday || g.PeakHour != 9 || g.Max != 3 {
		t.Errorf("peak = %v %d (%v)", g.PeakDay, g.PeakHour, g.Max)
	}
	if g.Intensity[time.Tuesday][23] != 1.0/3 {
		t.Errorf("Tuesday 23 intensity = %v", g.Intensity[time.Tuesday][23])
	}
}

func TestRollupPeriods(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", Value: 1}, // Monday
		{Date: "2024-01-07", Value: 2}, // Sunday, same week
		{Date: "2024-01-08", Value: 4},
		{Date: "2024-02-15", Value: 8},
	}

	weeks := RollupPeriods(events, model.ModeSum, model.PeriodWeek)
	want := []model.PeriodPoint{
		{Date: d("2024-01-01"), Total: 3},
		{Date: d("2024-01-08"), Total: 4},
		{Date: d("2024-02-12"), Total: 8},
	}
	if len(weeks) != len(want) {
		t.Fatalf("weeks = %+v", weeks)
	}
	for i := range want {
		if weeks[i] != want[i] {
			t.Errorf("weeks[%d] = %+v, want %+v", i, weeks[i], want[i])
		}
	}

	months := RollupPeriods(events, model.ModeCount, model.PeriodMonth)
	if len(months) != 2 || months[0].Total != 3 || months[1].Date != d("2024-02-01") {
		t.Errorf("months = %+v", months)
	}

	days := RollupPeriods(events, model.ModeSum, model.PeriodDay)
	if len(days) != 4 {
		t.Errorf("days = %d, want 4", len(days))
	}
}
