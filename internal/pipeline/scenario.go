package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/cashcal/internal/model"
)

// ComputeScenario shifts every baseline point by delayDays calendar days,
// clamped to ±model.MaxDelayDays. Points landing on the same date are summed.
// Dates that receive nothing are absent, not zero. The result is sorted.
func ComputeScenario(baseline []model.PeriodPoint, delayDays int) []model.PeriodPoint {
	delay := model.ClampDelay(delayDays)

	shifted := make(map[model.Date]float64, len(baseline))
	for _, p := range baseline {
		if p.Date.IsZero() {
			continue
		}
		shifted[p.Date.AddDays(delay)] += model.Finite(p.Total)
	}
	return sortedSeries(shifted)
}

// NewScenario packages a baseline and its delayed variant. An empty name
// becomes "Delay N days".
func NewScenario(name string, baseline []model.PeriodPoint, delayDays int) model.Scenario {
	delay := model.ClampDelay(delayDays)
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultScenarioName(delay)
	}
	return model.Scenario{
		Name:      name,
		DelayDays: delay,
		Baseline:  baseline,
		Scenario:  ComputeScenario(baseline, delay),
	}
}

// BuildPaymentScenario buckets payments by day into a baseline and builds the
// scenario by delaying only non-priority payments; priority payments keep
// their date in both series.
func BuildPaymentScenario(name string, payments []model.Payment, delayDays int) model.Scenario {
	delay := model.ClampDelay(delayDays)

	base := make(map[model.Date]float64)
	shifted := make(map[model.Date]float64)
	for _, p := range payments {
		if p.Date.IsZero() {
			continue
		}
		amount := model.Finite(p.Amount)
		base[p.Date] += amount

		target := p.Date
		if !p.Priority {
			target = p.Date.AddDays(delay)
		}
		shifted[target] += amount
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultScenarioName(delay)
	}
	return model.Scenario{
		Name:      name,
		DelayDays: delay,
		Baseline:  sortedSeries(base),
		Scenario:  sortedSeries(shifted),
	}
}

// PaymentsFromEvents converts raw events into payments, dropping events
// whose date cannot be parsed.
func PaymentsFromEvents(events []model.Event) []model.Payment {
	payments := make([]model.Payment, 0, len(events))
	for _, e := range events {
		day, _, ok := model.ParseStamp(e.Date)
		if !ok {
			continue
		}
		payments = append(payments, model.Payment{
			Date:     day,
			Amount:   e.Value.Float(),
			Priority: e.Priority,
		})
	}
	return payments
}

func sortedSeries(m map[model.Date]float64) []model.PeriodPoint {
	series := make([]model.PeriodPoint, 0, len(m))
	for d, total := range m {
		series = append(series, model.PeriodPoint{Date: d, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// ProjectPayments runs the whole cash-flow path over raw payment events:
// baseline and delayed series, the balance walk, and risk metrics.
func ProjectPayments(name string, events []model.Event, delayDays int, startingBalance float64) model.Projection {
	sc := BuildPaymentScenario(name, PaymentsFromEvents(events), delayDays)
	return model.Projection{
		Scenario:        sc,
		StartingBalance: model.Finite(startingBalance),
		Metrics:         Analyze(sc.Baseline, sc.Scenario, startingBalance),
		Walk:            WalkBalances(sc.Baseline, sc.Scenario, startingBalance),
	}
}
