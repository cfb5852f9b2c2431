// Package summary shows the record of a finished battle.
package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// SummaryScreen displays a battle record.
type SummaryScreen struct {
	record  battle.Record
	saveErr error
	rematch func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. saveErr is shown when the record could not be
// stored. rematch may be nil.
func New(rec battle.Record, saveErr error, rematch func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{record: rec, saveErr: saveErr, rematch: rematch}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Battle Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.rematch != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Rematch"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.HomeMsg{} }
		case "r", "R":
			if s.rematch != nil {
				next := s.rematch()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

// Banner returns the headline for a battle result.
func Banner(r battle.Result) string {
	switch r {
	case battle.ResultVictory:
		return "VICTORY!"
	case battle.ResultDefeat:
		return "DEFEATED"
	case battle.ResultRetreat:
		return "RETREATED"
	default:
		return "BATTLE OVER"
	}
}

func resultColor(r battle.Result) color.Color {
	switch r {
	case battle.ResultVictory:
		return theme.ArcadeYellow
	case battle.ResultDefeat:
		return theme.Error
	default:
		return theme.TextDim
	}
}

// FormatDuration renders a number of seconds as m:ss.
func FormatDuration(secs float64) string {
	total := int(secs)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (s *SummaryScreen) View(width, height int) string {
	rec := s.record
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(resultColor(rec.Result)).
		Bold(true).
		Render(Banner(rec.Result)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(rec.QuestionTypeName))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Time: %s    Questions: %d    Correct: %d\n",
		FormatDuration(rec.Duration.Seconds()), rec.QuestionCount, rec.CorrectCount))
	b.WriteString(fmt.Sprintf("Accuracy: %.0f%%    Max combo: %d    Damage: %.1f",
		rec.Accuracy, rec.MaxCombo, rec.TotalDamage))
	b.WriteString("\n\n")

	barWidth := cw - 8
	b.WriteString(components.HPBar("YOU  ", rec.PlayerHPLeft, rec.Config.PlayerHP, theme.PlayerHP, barWidth))
	b.WriteString("\n")
	b.WriteString(components.HPBar("ENEMY", rec.EnemyHPLeft, rec.Config.EnemyHP, theme.EnemyHP, barWidth))

	if s.saveErr != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not save battle: " + s.saveErr.Error()))
	}

	sections := []string{
		components.ArcadeCard(b.String(), cw, resultColor(rec.Result)),
		components.ArcadeButton("HOME", "enter", true, 24),
	}
	if s.rematch != nil {
		sections = append(sections, components.ArcadeButton("REMATCH", "r", false, 24))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}
