package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashcal/internal/cli"
	"github.com/theirongolddev/cashcal/internal/tui/components"
	"github.com/theirongolddev/cashcal/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a App) updateSavedKeys(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.savedCursor < len(a.scenarios)-1 {
			a.savedCursor++
		}
		return a, nil, true
	case "k", "up":
		if a.savedCursor > 0 {
			a.savedCursor--
		}
		return a, nil, true
	case "enter":
		if len(a.scenarios) == 0 {
			return a, nil, true
		}
		a.delay = a.scenarios[a.savedCursor].DelayDays
		a.activeTab = tabProjection
		return a, a.requestProjection(), true
	case "d", "delete":
		if len(a.scenarios) == 0 {
			return a, nil, true
		}
		return a, deleteScenarioCmd(a.openStore, a.scenarios[a.savedCursor].ID), true
	}
	return a, nil, false
}

func (a App) renderSavedTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(a.scenarios) == 0 {
		return components.ContentCard("Saved scenarios",
			mutedStyle.Render("Nothing saved yet. Press s on the Projection tab to save one."), cw)
	}

	const delayW, createdW = 8, 16
	nameW := max(10, innerW-delayW-createdW-2)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s", nameW, "Name", delayW, "Delay", createdW, "Saved")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", nameW+delayW+createdW+2)))

	// Keep the cursor visible: card chrome and header take 6 lines.
	visible := max(1, h-6)
	offset := 0
	if a.savedCursor >= visible {
		offset = a.savedCursor - visible + 1
	}
	end := min(len(a.scenarios), offset+visible)

	for i := offset; i < end; i++ {
		s := a.scenarios[i]
		line := fmt.Sprintf("%-*s %*s %*s",
			nameW, truncStr(s.Name, nameW),
			delayW, cli.FormatDelay(s.DelayDays),
			createdW, s.CreatedAt.Local().Format("2006-01-02 15:04"))
		body.WriteString("\n")
		if i == a.savedCursor {
			body.WriteString(selStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
	}

	return components.ContentCard(
		fmt.Sprintf("Saved scenarios (%d)  enter load, d delete", len(a.scenarios)),
		body.String(),
		cw,
	)
}
