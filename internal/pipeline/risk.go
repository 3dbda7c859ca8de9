package pipeline

import (
	"math"
	"sort"

	"github.com/theirongolddev/cashcal/internal/model"
)

// maxRunwayDays caps DaysToZero so tiny burn rates cannot overflow int.
const maxRunwayDays = 1_000_000

// WalkBalances walks the sorted union of dates in both series, drawing each
// series' totals down from startingBalance, and records both running balances
// and their difference (scenario minus baseline) at every date.
func WalkBalances(baseline, scenario []model.PeriodPoint, startingBalance float64) []model.BalancePoint {
	start := model.Finite(startingBalance)
	base := seriesTotals(baseline)
	scen := seriesTotals(scenario)

	axis := make([]model.Date, 0, len(base)+len(scen))
	for d := range base {
		axis = append(axis, d)
	}
	for d := range scen {
		if _, ok := base[d]; !ok {
			axis = append(axis, d)
		}
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })

	cumBase, cumScen := start, start
	walk := make([]model.BalancePoint, 0, len(axis))
	for _, d := range axis {
		cumBase -= base[d]
		cumScen -= scen[d]
		walk = append(walk, model.BalancePoint{
			Date:     d,
			Baseline: cumBase,
			Scenario: cumScen,
			Diff:     cumScen - cumBase,
		})
	}
	return walk
}

// Analyze derives risk metrics for a scenario against its baseline.
//
// CashDip is the largest amount by which the scenario balance falls below
// the baseline balance at any date (0 if it never does). BurnRate and
// ScenarioBurnRate are the mean per-point totals of each series. DaysToZero
// is startingBalance / ScenarioBurnRate, floored; when the scenario burn
// rate is not positive it is 0 and RunwayUnknown is set.
func Analyze(baseline, scenario []model.PeriodPoint, startingBalance float64) model.RiskMetrics {
	minDiff := 0.0
	for _, p := range WalkBalances(baseline, scenario, startingBalance) {
		if p.Diff < minDiff {
			minDiff = p.Diff
		}
	}

	m := model.RiskMetrics{
		CashDip:          math.Abs(minDiff),
		BurnRate:         nonNegative(meanTotal(baseline)),
		ScenarioBurnRate: nonNegative(meanTotal(scenario)),
	}

	if m.ScenarioBurnRate <= 0 {
		m.RunwayUnknown = true
		return m
	}

	days := math.Floor(model.Finite(startingBalance) / m.ScenarioBurnRate)
	switch {
	case days <= 0 || math.IsNaN(days):
		m.DaysToZero = 0
	case days > maxRunwayDays:
		m.DaysToZero = maxRunwayDays
	default:
		m.DaysToZero = int(days)
	}
	return m
}

func seriesTotals(series []model.PeriodPoint) map[model.Date]float64 {
	totals := make(map[model.Date]float64, len(series))
	for _, p := range series {
		if p.Date.IsZero() {
			continue
		}
		totals[p.Date] += model.Finite(p.Total)
	}
	return totals
}

func meanTotal(series []model.PeriodPoint) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range series {
		sum += model.Finite(p.Total)
	}
	return sum / float64(len(series))
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
