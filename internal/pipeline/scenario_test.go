package pipeline

import (
	"testing"

	"github.com/theirongolddev/cashcal/internal/model"
)

func series(pts ...any) []model.PeriodPoint {
	out := make([]model.PeriodPoint, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, model.PeriodPoint{Date: d(pts[i].(string)), Total: pts[i+1].(float64)})
	}
	return out
}

func TestComputeScenario_ThreeDayExample(t *testing.T) {
	baseline := series("2024-01-01", 100.0, "2024-01-02", 100.0, "2024-01-03", 100.0)

	got := ComputeScenario(baseline, 2)
	want := series("2024-01-03", 100.0, "2024-01-04", 100.0, "2024-01-05", 100.0)
	if len(got) != len(want) {
		t.Fatalf("scenario = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scenario[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	walk := WalkBalances(baseline, got, 1000)
	wantDiff := []float64{100, 200, 200, 100, 0}
	wantBase := []float64{900, 800, 700, 700, 700}
	if len(walk) != 5 {
		t.Fatalf("walk len = %d, want 5", len(walk))
	}
	for i := range walk {
		if walk[i].Diff != wantDiff[i] || walk[i].Baseline != wantBase[i] {
			t.Errorf("walk[%d] = %+v", i, walk[i])
		}
	}

	m := Analyze(baseline, got, 1000)
	if m.CashDip != 0 {
		t.Errorf("CashDip = %v, want 0", m.CashDip)
	}
	if m.BurnRate != 100 || m.ScenarioBurnRate != 100 {
		t.Errorf("burn = %v / %v, want 100 / 100", m.BurnRate, m.ScenarioBurnRate)
	}
	if m.DaysToZero != 10 || m.RunwayUnknown {
		t.Errorf("DaysToZero = %d (unknown=%v), want 10", m.DaysToZero, m.RunwayUnknown)
	}
}

func TestComputeScenario_ZeroDelayIsIdentity(t *testing.T) {
	baseline := series("2024-03-01", 5.0, "2024-03-04", 7.5)
	got := ComputeScenario(baseline, 0)
	if len(got) != len(baseline) {
		t.Fatalf("len = %d, want %d", len(got), len(baseline))
	}
	for i := range baseline {
		if got[i] != baseline[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], baseline[i])
		}
	}
	if m := Analyze(baseline, got, 100); m.CashDip != 0 {
		t.Errorf("CashDip = %v, want 0 for identical series", m.CashDip)
	}
}

func TestComputeScenario_SumsCollisionsAndSorts(t *testing.T) {
	// Unsorted input with a duplicated date.
	baseline := series("2024-01-05", 1.0, "2024-01-01", 2.0, "2024-01-05", 3.0)
	got := ComputeScenario(baseline, -1)

	want := series("2023-12-31", 2.0, "2024-01-04", 4.0)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("scenario = %+v, want %+v", got, want)
	}
}

func TestComputeScenario_ClampsDelay(t *testing.T) {
	baseline := series("2024-01-01", 1.0)

	if got := ComputeScenario(baseline, 45); got[0].Date != d("2024-01-31") {
		t.Errorf("delay 45 landed on %s, want 2024-01-31", got[0].Date)
	}
	if got := ComputeScenario(baseline, -45); got[0].Date != d("2023-12-02") {
		t.Errorf("delay -45 landed on %s, want 2023-12-02", got[0].Date)
	}
}

func TestComputeScenario_Empty(t *testing.T) {
	got := ComputeScenario(nil, 3)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil", got)
	}
	m := Analyze(nil, got, 500)
	if m.CashDip != 0 || m.BurnRate != 0 || !m.RunwayUnknown || m.DaysToZero != 0 {
		t.Errorf("metrics for empty series = %+v", m)
	}
}

func TestAnalyze_DipWhenScenarioPaysEarlier(t *testing.T) {
	baseline := series("2024-01-10", 300.0)
	scenario := ComputeScenario(baseline, -5)

	m := Analyze(baseline, scenario, 1000)
	if m.CashDip != 300 {
		t.Errorf("CashDip = %v, want 300", m.CashDip)
	}
}

func TestAnalyze_DipNeverNegative(t *testing.T) {
	baseline := series("2024-01-01", 50.0, "2024-01-02", -20.0, "2024-01-04", 80.0)
	for delay := -model.MaxDelayDays; delay <= model.MaxDelayDays; delay += 7 {
		m := Analyze(baseline, ComputeScenario(baseline, delay), 0)
		if m.CashDip < 0 {
			t.Errorf("delay %d: CashDip = %v", delay, m.CashDip)
		}
	}
}

func TestAnalyze_Runway(t *testing.T) {
	tests := []struct {
		name        string
		baseline    []model.PeriodPoint
		balance     float64
		wantDays    int
		wantUnknown bool
	}{
		{"floors", series("2024-01-01", 30.0), 100, 3, false},
		{"negative burn", series("2024-01-01", -30.0), 100, 0, true},
		{"overdrawn", series("2024-01-01", 30.0), -100, 0, false},
		{"tiny burn capped", series("2024-01-01", 1e-9), 1e9, maxRunwayDays, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Analyze(tt.baseline, tt.baseline, tt.balance)
			if m.DaysToZero != tt.wantDays || m.RunwayUnknown != tt.wantUnknown {
				t.Errorf("DaysToZero=%d RunwayUnknown=%v, want %d %v",
					m.DaysToZero, m.RunwayUnknown, tt.wantDays, tt.wantUnknown)
			}
		})
	}
}

func TestNewScenario_DefaultName(t *testing.T) {
	s := NewScenario("  ", series("2024-01-01", 1.0), 40)
	if s.Name != "Delay 30 days" || s.DelayDays != 30 {
		t.Errorf("scenario = %q / %d", s.Name, s.DelayDays)
	}
	if s := NewScenario("Q1 squeeze", nil, 2); s.Name != "Q1 squeeze" {
		t.Errorf("Name = %q", s.Name)
	}
}

func TestBuildPaymentScenario_PriorityStays(t *testing.T) {
	payments := []model.Payment{
		{Date: d("2024-01-01"), Amount: 100, Priority: true},
		{Date: d("2024-01-01"), Amount: 50},
		{Date: d("2024-01-02"), Amount: 25},
		{Amount: 999}, // no date
	}
	s := BuildPaymentScenario("", payments, 1)

	wantBase := series("2024-01-01", 150.0, "2024-01-02", 25.0)
	wantScen := series("2024-01-01", 100.0, "2024-01-02", 50.0, "2024-01-03", 25.0)
	if len(s.Baseline) != len(wantBase) || len(s.Scenario) != len(wantScen) {
		t.Fatalf("baseline=%+v scenario=%+v", s.Baseline, s.Scenario)
	}
	for i := range wantBase {
		if s.Baseline[i] != wantBase[i] {
			t.Errorf("baseline[%d] = %+v", i, s.Baseline[i])
		}
	}
	for i := range wantScen {
		if s.Scenario[i] != wantScen[i] {
			t.Errorf("scenario[%d] = %+v", i, s.Scenario[i])
		}
	}
	if s.Name != "Delay 1 days" {
		t.Errorf("Name = %q", s.Name)
	}
}

func TestPaymentsFromEvents(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01T10:00:00Z", Value: 10, Priority: true},
		{Date: "nope", Value: 5},
	}
	got := PaymentsFromEvents(events)
	if len(got) != 1 || got[0].Date != d("2024-01-01") || !got[0].Priority || got[0].Amount != 10 {
		t.Errorf("payments = %+v", got)
	}
}

func TestAggregatePaymentBreakdown(t *testing.T) {
	payments := []model.Payment{
		{Date: d("2024-01-03"), Amount: 100, Priority: true},
		{Date: d("2024-01-20"), Amount: 300},
		{Date: d("2024-02-02"), Amount: 100},
	}
	total, months := AggregatePaymentBreakdown(payments)

	if total.Total != 500 || total.PriorityTotal != 100 || total.DeferrableTotal != 400 {
		t.Errorf("total = %+v", total)
	}
	if total.PriorityShare != 0.2 {
		t.Errorf("PriorityShare = %v, want 0.2", total.PriorityShare)
	}
	if len(months) != 2 || months[0].Month != d("2024-01-01") || months[1].Total != 100 {
		t.Errorf("months = %+v", months)
	}
}

func TestProjectPayments(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", Value: 100},
		{Date: "2024-01-02", Value: 100},
		{Date: "2024-01-03", Value: 100},
	}
	p := ProjectPayments("", events, 2, 1000)

	if p.Scenario.Name != "Delay 2 days" {
		t.Errorf("Name = %q", p.Scenario.Name)
	}
	if len(p.Walk) != 5 || p.Walk[4].Diff != 0 {
		t.Errorf("walk = %+v", p.Walk)
	}
	if p.Metrics.DaysToZero != 10 || p.Metrics.CashDip != 0 {
		t.Errorf("metrics = %+v", p.Metrics)
	}
}
