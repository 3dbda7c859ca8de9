package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cashcal/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// HeatRamp is the five-step color ramp for heat levels 0-4.
var HeatRamp = [5]lipgloss.Color{"#282726", "#1A3533", "#24837B", "#3AA99F", "#5BC8BE"}

// heatGlyphs pairs with HeatRamp so output still reads without color.
var heatGlyphs = [5]string{"·", "░", "▒", "▓", "█"}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// GoodStyle and WarnStyle color positive and negative cash signals.
	GoodStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	WarnStyle = lipgloss.NewStyle().Foreground(ColorOrange)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. A row holding
// the single cell "---" draws a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// RenderProgressBar renders a simple text progress bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}
	filled := min(int(pct*float64(width)), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders a label followed by a bar scaled to maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return "  " + label
	}
	barLen := max(0, int(value/maxValue*float64(maxWidth)))
	return fmt.Sprintf("  %s %s", label, strings.Repeat("█", barLen))
}

// HeatCell renders one heat level as a colored glyph.
func HeatCell(level int) string {
	level = max(0, min(level, 4))
	return lipgloss.NewStyle().Foreground(HeatRamp[level]).Render(heatGlyphs[level])
}

// RenderHeatmap draws a calendar heatmap: one line per week, Sunday first,
// labeled with the first real date of the week. Padding cells are blank.
func RenderHeatmap(hm model.Heatmap) string {
	var b strings.Builder

	b.WriteString("             ")
	for wd := 0; wd < 7; wd++ {
		b.WriteString(mutedStyle.Render(FormatDayOfWeek(wd)[:2]))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	for _, row := range hm.Rows {
		label := ""
		for _, c := range row {
			if !c.IsPad() {
				label = c.Date.String()
				break
			}
		}
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(" ")
		for _, c := range row {
			if c.IsPad() {
				b.WriteString("   ")
				continue
			}
			b.WriteString(HeatCell(HeatLevel(c.Intensity)))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(mutedStyle.Render("less "))
	for lvl := 0; lvl < len(HeatRamp); lvl++ {
		b.WriteString(HeatCell(lvl))
	}
	b.WriteString(mutedStyle.Render(" more"))
	b.WriteString("\n")
	return b.String()
}

// RenderWeekHour draws the 7x24 day-of-week by hour grid.
func RenderWeekHour(g model.WeekHourGrid) string {
	var b strings.Builder

	b.WriteString("       ")
	for h := 0; h < 24; h += 3 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-6s", fmt.Sprintf("%02d", h))))
	}
	b.WriteString("\n")

	for wd := 0; wd < 7; wd++ {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(FormatDayOfWeek(wd)))
		b.WriteString("  ")
		for h := 0; h < 24; h++ {
			b.WriteString(HeatCell(HeatLevel(g.Intensity[wd][h])))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
