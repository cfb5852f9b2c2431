package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	return p.render(p.suffix())
}

func (p ProgressBar) suffix() string {
	if !p.ShowPercent {
		return ""
	}
	return fmt.Sprintf("  %d%%", int(p.Percent*100))
}

func (p ProgressBar) render(suffix string) string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if suffix != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}
	return result
}

// HPBar renders a health bar labelled with the remaining and maximum HP.
func HPBar(label string, hp, maxHP float64, fill color.Color, width int) string {
	pct := 0.0
	if maxHP > 0 {
		pct = hp / maxHP
	}
	bar := ProgressBar{Label: label, Percent: pct, Width: width, Fill: fill}
	return bar.render(fmt.Sprintf("  %5.1f/%g", hp, maxHP))
}
