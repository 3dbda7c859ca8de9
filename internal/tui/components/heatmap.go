package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// heatCellWidth is the rendered width of one calendar cell including its gap.
const heatCellWidth = 3

func heatBlock(level int, width int) string {
	t := theme.Active
	level = max(0, min(level, len(t.Heat)-1))
	return lipgloss.NewStyle().Foreground(t.Heat[level]).Background(t.Surface).
		Render(strings.Repeat("■", width))
}

// CalendarHeatmap renders a heatmap with weeks as columns and weekdays as
// rows, so a long range grows sideways. When there are more weeks than fit
// in width, the most recent weeks are kept.
func CalendarHeatmap(hm model.Heatmap, width int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const labelW = 4
	fit := max(1, (width-labelW)/heatCellWidth)
	rows := hm.Rows
	if len(rows) > fit {
		rows = rows[len(rows)-fit:]
	}

	var b strings.Builder

	// Month markers above the first week that contains the 1st.
	header := []byte(strings.Repeat(" ", len(rows)*heatCellWidth))
	lastEnd := -1
	for i, row := range rows {
		for _, c := range row {
			if c.IsPad() || (c.Date.Day() != 1 && i != 0) {
				continue
			}
			pos := i * heatCellWidth
			name := c.Date.Month().String()[:3]
			if pos > lastEnd && pos+len(name) <= len(header) {
				copy(header[pos:], name)
				lastEnd = pos + len(name)
			}
			break
		}
	}
	b.WriteString(bg.Render(strings.Repeat(" ", labelW)))
	b.WriteString(dim.Render(strings.TrimRight(string(header), " ")))
	b.WriteString("\n")

	for wd := 0; wd < 7; wd++ {
		label := ""
		if wd%2 == 1 {
			label = cli.FormatDayOfWeek(wd)
		}
		b.WriteString(dim.Render(fmt.Sprintf("%-*s", labelW, label)))
		for _, row := range rows {
			c := row[wd]
			if c.IsPad() {
				b.WriteString(bg.Render(strings.Repeat(" ", heatCellWidth)))
				continue
			}
			b.WriteString(heatBlock(cli.HeatLevel(c.Intensity), heatCellWidth-1))
			b.WriteString(bg.Render(" "))
		}
		if wd < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HeatLegend renders the less-to-more color key.
func HeatLegend() string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	bg := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(muted.Render("less "))
	for lvl := range t.Heat {
		b.WriteString(heatBlock(lvl, 1))
		b.WriteString(bg.Render(" "))
	}
	b.WriteString(muted.Render("more"))
	return b.String()
}

// WeekHourHeatmap renders the weekday by hour grid, one row per weekday.
func WeekHourHeatmap(g model.WeekHourGrid) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(bg.Render("    "))
	for h := 0; h < 24; h += 3 {
		b.WriteString(dim.Render(fmt.Sprintf("%-9s", fmt.Sprintf("%02d", h))))
	}
	b.WriteString("\n")

	for wd := 0; wd < 7; wd++ {
		b.WriteString(dim.Render(fmt.Sprintf("%-4s", cli.FormatDayOfWeek(wd))))
		for h := 0; h < 24; h++ {
			b.WriteString(heatBlock(cli.HeatLevel(g.Intensity[wd][h]), 2))
			b.WriteString(bg.Render(" "))
		}
		if wd < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
