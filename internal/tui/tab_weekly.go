package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/tui/components"
	"github.com/theirongolddev/cashcal/internal/tui/theme"
)

func (a App) renderWeeklyTab(cw int) string {
	t := theme.Active
	g := a.weekHour
	var b strings.Builder

	peak := "-"
	if g.Max > 0 {
		peak = fmt.Sprintf("%s %02d:00", cli.FormatDayOfWeek(int(g.PeakDay)), g.PeakHour)
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Weekday × hour (%s)  peak %s  %s", a.mode, peak, cli.FormatValue(g.Max, a.mode)),
		components.WeekHourHeatmap(g),
		cw,
	))
	b.WriteString("\n")

	var byHour [24]float64
	var byDay [7]float64
	for d := range g.Values {
		for h, v := range g.Values[d] {
			byHour[h] += v
			byDay[d] += v
		}
	}

	hourLabels := make([]string, 24)
	for h := range hourLabels {
		hourLabels[h] = fmt.Sprintf("%02d", h)
	}
	dayLabels := make([]string, 7)
	for d := range dayLabels {
		dayLabels[d] = cli.FormatDayOfWeek(d)
	}

	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
		b.WriteString(components.ContentCard("By hour",
			components.BarChart(byHour[:], hourLabels, t.Blue, components.CardInnerWidth(cw), chartH), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("By weekday",
			components.BarChart(byDay[:], dayLabels, t.Accent, components.CardInnerWidth(cw), chartH), cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("By hour",
			components.BarChart(byHour[:], hourLabels, t.Blue, components.CardInnerWidth(widths[0]), chartH), widths[0]),
		components.ContentCard("By weekday",
			components.BarChart(byDay[:], dayLabels, t.Accent, components.CardInnerWidth(widths[1]), chartH), widths[1]),
	}))
	return b.String()
}
