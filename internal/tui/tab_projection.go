package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/fence"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/tui/components"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateProjectionKeys adjusts the delay and balance. Every change issues a
// new fenced recompute.
func (a App) updateProjectionKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "h", "left":
		a.delay = model.ClampDelay(a.delay - 1)
	case "l", "right":
		a.delay = model.ClampDelay(a.delay + 1)
	case "H":
		a.delay = model.ClampDelay(a.delay - 7)
	case "L":
		a.delay = model.ClampDelay(a.delay + 7)
	case "0":
		a.delay = 0
	case "+", "=":
		a.balance += a.balanceStep
	case "-", "_":
		a.balance = max(0, a.balance-a.balanceStep)
	case "s":
		return a, saveScenarioCmd(a.openStore, model.DefaultScenarioName(a.delay), a.delay), true
	default:
		return a, nil, false
	}
	return a, a.requestProjection(), true
}

func (a App) renderProjectionTab(cw int) string {
	t := theme.Active
	st := a.projections.Get(projectionKey)
	p := st.Value
	m := p.Metrics
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	delayDelta := "pay later"
	if a.delay < 0 {
		delayDelta = "pay earlier"
	} else if a.delay == 0 {
		delayDelta = "as scheduled"
	}
	if st.Status == fence.Loading {
		delayDelta = "computing..."
	}

	dipColor := t.Green
	if m.CashDip > 0 {
		dipColor = t.Orange
	}
	metrics := []components.Metric{
		{Label: "Delay", Value: cli.FormatDelay(a.delay), Delta: delayDelta, Color: t.AccentBright},
		{Label: "Starting balance", Value: cli.FormatAmount(a.balance), Delta: "± " + cli.FormatAmount(a.balanceStep)},
		{Label: "Cash dip", Value: cli.FormatAmount(m.CashDip), Color: dipColor},
		{
			Label: "Burn / day",
			Value: cli.FormatAmount(m.ScenarioBurnRate),
			Delta: "baseline " + cli.FormatAmount(m.BurnRate),
		},
		{Label: "Runway", Value: cli.FormatRunway(m), Color: components.RunwayColor(m.DaysToZero, m.RunwayUnknown)},
	}
	if a.isCompactLayout() {
		metrics = append(metrics[:1], metrics[2:]...)
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	var walk strings.Builder
	if len(p.Walk) == 0 {
		walk.WriteString(mutedStyle.Render("No dated payments to project."))
	} else {
		base := make([]float64, len(p.Walk))
		scen := make([]float64, len(p.Walk))
		diff := make([]float64, len(p.Walk))
		maxDiff := 0.0
		for i, pt := range p.Walk {
			base[i], scen[i], diff[i] = pt.Baseline, pt.Scenario, pt.Diff
			maxDiff = max(maxDiff, pt.Diff)
		}
		sparkW := max(10, innerW-14)
		base, scen, diff = tail(base, sparkW), tail(scen, sparkW), tail(diff, sparkW)

		walk.WriteString(mutedStyle.Render(fmt.Sprintf("%-13s", "baseline")))
		walk.WriteString(components.Sparkline(base, t.Blue))
		walk.WriteString("\n")
		walk.WriteString(mutedStyle.Render(fmt.Sprintf("%-13s", "scenario")))
		walk.WriteString(components.Sparkline(scen, t.Accent))
		walk.WriteString("\n")
		walk.WriteString(mutedStyle.Render(fmt.Sprintf("%-13s", "held back")))
		walk.WriteString(components.Sparkline(diff, t.Yellow))
		walk.WriteString("\n\n")
		first, last := p.Walk[0].Date, p.Walk[len(p.Walk)-1].Date
		walk.WriteString(dimStyle.Render(fmt.Sprintf("%s → %s  %d days  most held back %s",
			first, last, first.DaysUntil(last)+1, cli.FormatAmount(maxDiff))))
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Cumulative payments: %s  (h/l delay, +/- balance, s save)", p.Scenario.Name),
		walk.String(),
		cw,
	))
	b.WriteString("\n")

	bd := a.breakdown
	labelW := 12
	barW := max(10, innerW-labelW-6)
	share := components.ShareBar("priority", bd.PriorityShare, t.Orange, labelW, barW) + "\n" +
		components.ShareBar("deferrable", 1-bd.PriorityShare, t.Accent, labelW, barW)
	if bd.Total == 0 {
		share = mutedStyle.Render("No payments.")
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Movable payments  %s of %s", cli.FormatAmount(bd.DeferrableTotal), cli.FormatAmount(bd.Total)),
		share,
		cw,
	))
	return b.String()
}

// tail keeps the last n values.
func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
