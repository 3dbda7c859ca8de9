// Package pipeline holds the bucketing and cash-flow projection engine plus
// the loaders that feed it.
package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/cashcal/internal/model"
)

// Aggregate buckets events by day or by (day, hour). In sum mode each bucket
// accumulates event values, in count mode it counts events. Events whose date
// is missing or unparsable are skipped. Buckets come back sorted by key, but
// callers should not depend on that.
func Aggregate(events []model.Event, mode model.Mode, gran model.Granularity) []model.Bucket {
	acc := make(map[model.BucketKey]float64)

	for _, e := range events {
		day, hour, ok := model.ParseStamp(e.Date)
		if !ok {
			continue
		}
		key := model.BucketKey{Date: day, Hour: model.AllDay}
		if gran == model.ByDayHour {
			key.Hour = hour
		}
		acc[key] += contribution(e, mode)
	}

	buckets := make([]model.Bucket, 0, len(acc))
	for k, v := range acc {
		buckets = append(buckets, model.Bucket{Key: k, Aggregate: v})
	}
	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i].Key, buckets[j].Key
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Hour < b.Hour
	})

	return buckets
}

func contribution(e model.Event, mode model.Mode) float64 {
	if mode == model.ModeCount {
		return 1
	}
	return e.Value.Float()
}

// BucketTotals folds buckets into per-day totals, merging hours of the same day.
func BucketTotals(buckets []model.Bucket) map[model.Date]float64 {
	totals := make(map[model.Date]float64, len(buckets))
	for _, b := range buckets {
		totals[b.Key.Date] += b.Aggregate
	}
	return totals
}

// FilterRange returns events dated within [start, end]. A zero bound leaves
// that side open. Events with unparsable dates are dropped.
func FilterRange(events []model.Event, start, end model.Date) []model.Event {
	if start.IsZero() && end.IsZero() {
		return events
	}

	var result []model.Event
	for _, e := range events {
		day, _, ok := model.ParseStamp(e.Date)
		if !ok {
			continue
		}
		if !start.IsZero() && day.Before(start) {
			continue
		}
		if !end.IsZero() && day.After(end) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseVendors splits a comma-separated vendor list, dropping blanks.
func ParseVendors(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FilterVendors keeps events whose vendor matches one of vendors, ignoring
// case. An empty list keeps everything.
func FilterVendors(events []model.Event, vendors []string) []model.Event {
	if len(vendors) == 0 {
		return events
	}

	var result []model.Event
	for _, e := range events {
		for _, v := range vendors {
			if strings.EqualFold(e.Vendor, v) {
				result = append(result, e)
				break
			}
		}
	}
	return result
}

// Summarize computes top-level totals for events within [start, end].
func Summarize(events []model.Event, start, end model.Date, mode model.Mode) model.SummaryStats {
	var stats model.SummaryStats

	for _, e := range events {
		if _, _, ok := model.ParseStamp(e.Date); !ok {
			stats.Skipped++
		}
	}

	filtered := FilterRange(events, start, end)
	buckets := Aggregate(filtered, mode, model.ByDay)
	for _, e := range filtered {
		if _, _, ok := model.ParseStamp(e.Date); ok {
			stats.Events++
		}
	}

	for _, b := range buckets {
		stats.Total += b.Aggregate
		if stats.First.IsZero() {
			stats.First = b.Key.Date
		}
		stats.Last = b.Key.Date
		if stats.PeakDay.IsZero() || b.Aggregate > stats.PeakDayTotal {
			stats.PeakDay = b.Key.Date
			stats.PeakDayTotal = b.Aggregate
		}
	}

	stats.ActiveDays = len(buckets)
	if stats.ActiveDays > 0 {
		stats.PerDay = stats.Total / float64(stats.ActiveDays)
	}

	return stats
}
