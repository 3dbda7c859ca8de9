package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/tui/components"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCalendarTab(cw int) string {
	t := theme.Active
	stats := a.stats
	var b strings.Builder

	peak := "-"
	if !stats.PeakDay.IsZero() {
		peak = stats.PeakDay.String()
	}
	metrics := []components.Metric{
		{Label: "Total", Value: cli.FormatValue(stats.Total, a.mode), Delta: fmt.Sprintf("%s events", cli.FormatNumber(int64(stats.Events)))},
		{Label: "Active days", Value: cli.FormatNumber(int64(stats.ActiveDays)), Delta: spanLabel(a)},
		{Label: "Per active day", Value: cli.FormatValue(stats.PerDay, a.mode)},
		{Label: "Busiest day", Value: peak, Delta: cli.FormatValue(stats.PeakDayTotal, a.mode), Color: t.AccentBright},
	}
	if a.isCompactLayout() {
		metrics = metrics[:3]
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	body := components.CalendarHeatmap(a.heatmap, innerW)
	footer := components.HeatLegend()
	if stats.Skipped > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		footer += lipgloss.NewStyle().Background(t.Surface).Render("   ") +
			warn.Render(fmt.Sprintf("%d events with unreadable dates", stats.Skipped))
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Daily %s  %d  ([ ] year, m mode)", a.mode, a.start.Year()),
		body+"\n\n"+footer,
		cw,
	))
	return b.String()
}

func spanLabel(a App) string {
	if a.stats.First.IsZero() {
		return "no activity"
	}
	return a.stats.First.String() + " → " + a.stats.Last.String()
}
