package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	Events      int
	Files       int
	ParseErrors int
	DataAge     string // load duration or age, preformatted
	Refreshing  bool
	AutoRefresh bool
	Flash       string // transient message, e.g. "saved"
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)

	left := base.Render(" ") + keyStyle.Render("[?]") + base.Render("help  ") +
		keyStyle.Render("[r]") + base.Render("efresh  ") +
		keyStyle.Render("[q]") + base.Render("uit")
	if info.Flash != "" {
		left += base.Render("  ") + flashStyle.Render(info.Flash)
	}

	var right []string
	if info.ParseErrors > 0 {
		right = append(right, warnStyle.Render(fmt.Sprintf("%d skipped", info.ParseErrors)))
	}
	right = append(right, base.Render(fmt.Sprintf("%d events / %d files", info.Events, info.Files)))
	switch {
	case info.Refreshing:
		right = append(right, keyStyle.Render("refreshing"))
	case info.AutoRefresh:
		right = append(right, base.Render("auto"))
	}
	if info.DataAge != "" {
		right = append(right, base.Render("data "+info.DataAge))
	}
	rightStr := strings.Join(right, base.Render(" │ ")) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 1 {
		padding = 1
	}

	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
