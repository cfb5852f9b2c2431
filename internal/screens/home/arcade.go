package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

const arcadeTitleFull = `╔╦╗╔═╗╔╦╗╦ ╦  ╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
║║║╠═╣ ║ ╠═╣  ║═╬╗║ ║║╣ ╚═╗ ║
╩ ╩╩ ╩ ╩ ╩ ╩  ╚═╝╚╚═╝╚═╝╚═╝ ╩`

const arcadeTitleCompact = "M · A · T · H · Q · U · E · S · T"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the battle record in a bordered box matching content width.
func renderStatsBar(stats store.BattleStats, cw int, compact bool) string {
	winStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	comboStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var text string
	switch {
	case stats.Battles == 0:
		text = dimStyle.Render("NO BATTLES YET")
	case compact:
		text = fmt.Sprintf("%s %s %s",
			winStyle.Render(fmt.Sprintf("★%d/%d", stats.Victories, stats.Battles)),
			comboStyle.Render(fmt.Sprintf("⚡%d", stats.BestCombo)),
			accStyle.Render(fmt.Sprintf("◎%.0f%%", stats.Accuracy)),
		)
	default:
		text = fmt.Sprintf("%s  %s  %s",
			winStyle.Render(fmt.Sprintf("★ %d/%d WON", stats.Victories, stats.Battles)),
			comboStyle.Render(fmt.Sprintf("⚡ COMBO %d", stats.BestCombo)),
			accStyle.Render(fmt.Sprintf("◎ %.0f%% ACC", stats.Accuracy)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []components.MenuItem, selected int, cw int) string {
	buttons := make([]string, len(items))
	for i, item := range items {
		buttons[i] = components.ArcadeButton(item.Label, item.Key, i == selected, buttonWidth)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as plain lines for terminals
// too short for bordered buttons.
func renderArcadeMenuCompact(items []string, selected int, cw int) string {
	lines := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   " + label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
