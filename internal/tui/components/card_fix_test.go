package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/cashcal/internal/model"
	"github.com/theirongolddev/cashcal/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range strings.Split(joined, "\n") {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Errorf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestRenderTabBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	for active := range Tabs {
		sum := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			sum += TabVisualWidth(tab, i == active)
		}
		bar := RenderTabBar(active, 120)
		if w := lipgloss.Width(bar); w != 120 {
			t.Errorf("active=%d: bar width = %d, want 120", active, w)
		}
		if sum >= 120 {
			t.Errorf("tabs overflow the bar: %d", sum)
		}
	}
}

func TestCalendarHeatmapKeepsRecentWeeks(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	start := model.MustDate("2024-01-01")
	hm := model.Heatmap{Start: start}
	for w := 0; w < 20; w++ {
		var row model.WeekRow
		for d := range row {
			row[d] = model.CalendarCell{Date: start.AddDays(w*7 + d)}
		}
		hm.Rows = append(hm.Rows, row)
	}

	out := CalendarHeatmap(hm, 4+5*heatCellWidth)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8 (header + 7 weekdays)", len(lines))
	}
	for i, line := range lines[1:] {
		if w := lipgloss.Width(line); w > 4+5*heatCellWidth {
			t.Errorf("weekday row %d width = %d, exceeds limit", i, w)
		}
	}
}

func TestSparklineHandlesNegativeAndFlat(t *testing.T) {
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Error("empty series should render nothing")
	}
	out := Sparkline([]float64{-5, 0, 5}, theme.Active.Accent)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("sparkline should span low to high: %q", out)
	}
	flat := Sparkline([]float64{3, 3, 3}, theme.Active.Accent)
	if strings.Count(flat, "▁") != 3 {
		t.Errorf("flat series should sit on the baseline: %q", flat)
	}
}

func TestDownsampleKeepsEnds(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	v, l := downsample(vals, labels, 4)
	if len(v) != 4 || v[0] != 0 || v[3] != 9 {
		t.Errorf("downsample values = %v", v)
	}
	if l[0] != "a" || l[3] != "j" {
		t.Errorf("downsample labels = %v", l)
	}
}
