// Package layout renders the header, footer and frame around the active
// screen.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the playable size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf(
			"The arena needs more room!\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// barStyle is shared by the header and footer bars.
func barStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader renders the top bar: app name on the left, the screen title
// centered and status (e.g. the win count) on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 3)
	side := inner / 3
	middle := inner - 2*side

	cell := func(w int, align lipgloss.Position) lipgloss.Style {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Align(align)
	}
	left := cell(side, lipgloss.Left).Foreground(theme.ArcadeYellow).Bold(true).Render(" MathQuest")
	center := cell(middle, lipgloss.Center).Foreground(theme.Text).Render(title)
	right := cell(side, lipgloss.Right).Foreground(theme.Accent).Render(status + " ")

	return barStyle(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return barStyle(width).Render("  " + strings.Join(parts, descStyle.Render("  ·  ")))
}

// ContentHeight is the height left for the screen between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, content and footer, padding content to fill
// the space between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
