package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

const (
	maxContentWidth = 64
	minContentWidth = 24
)

// ContentWidth is the inner width shared by every box inside the cabinet
// frame, so cards, bars and buttons line up.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (4)
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// CabinetFrame centers content inside the double-bordered game cabinet.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard is a rounded panel whose border takes the accent colour, e.g.
// gold for a victory.
func ArcadeCard(content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a fixed-width button. A non-empty key is shown as a
// hint after the label, e.g. "BATTLE [b]".
func ArcadeButton(label, key string, selected bool, width int) string {
	text := label
	if key != "" {
		text += " [" + key + "]"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if !selected {
		return style.
			Foreground(theme.Text).
			BorderForeground(theme.Border).
			Render(text)
	}
	return style.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		BorderForeground(theme.ArcadeYellow).
		Render("▸ " + text)
}
