package arena

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// logLines is how many battle log entries are shown.
const logLines = 4

func (s *ArenaScreen) View(width, height int) string {
	st := s.engine.State()
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	switch st.Phase {
	case battle.PhasePreparing, battle.PhaseIdle:
		return renderPrepare(st, width)
	default:
		return s.renderBattle(st, width)
	}
}

func centered(width int, fg color.Color, bold bool, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(bold).
		Render(text)
}

func renderPrepare(st battle.State, width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.ArcadeYellow, true, "GET READY"))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Text, true, fmt.Sprintf("%d", st.PrepareRemaining)))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.TextDim, false, "Answer fast: quicker answers hit harder."))
	return b.String()
}

func (s *ArenaScreen) renderBattle(st battle.State, width int) string {
	cfg := s.engine.Config()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.HPBar("YOU  ", st.PlayerHP, cfg.PlayerHP, theme.PlayerHP, cw)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.HPBar("ENEMY", st.EnemyHP, cfg.EnemyHP, theme.EnemyHP, cw)))
	b.WriteString("\n\n")

	status := fmt.Sprintf("Enemy attack %.1f every %gs    Combo %d    %d/%d correct",
		st.EnemyAttack, cfg.EnemyAttackInterval, st.Combo, st.CorrectCount, st.QuestionCount)
	b.WriteString(centered(width, theme.TextDim, false, status))
	b.WriteString("\n\n")

	if q := st.CurrentQuestion; q != nil {
		b.WriteString(centered(width, theme.Text, true, q.Expression+" = ?"))
	} else {
		b.WriteString(centered(width, theme.TextDim, false, "No question available"))
	}
	b.WriteString("\n\n")

	timer := components.NewProgressBar("TIME", st.TimeRemaining/cfg.QuestionTime, false, cw)
	timer.Fill = timerColor(st.TimeRemaining, cfg.QuestionTime)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, timer.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View()))
	b.WriteString("\n\n")

	b.WriteString(renderLog(st.Log, width))
	return b.String()
}

func timerColor(remaining, total float64) color.Color {
	switch frac := remaining / total; {
	case frac > 0.5:
		return theme.Success
	case frac > 0.25:
		return theme.ArcadeYellow
	default:
		return theme.Error
	}
}

func logColor(k battle.LogKind) color.Color {
	switch k {
	case battle.LogCorrect, battle.LogVictory:
		return theme.Success
	case battle.LogWrong, battle.LogTimeout, battle.LogDefeat:
		return theme.Error
	case battle.LogAttack:
		return theme.Accent
	default:
		return theme.TextDim
	}
}

// renderLog shows the latest entries, newest last.
func renderLog(entries []battle.LogEntry, width int) string {
	if len(entries) > logLines {
		entries = entries[len(entries)-logLines:]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = centered(width, logColor(e.Kind), false, e.Message)
	}
	return strings.Join(lines, "\n")
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Text, true, "Retreat from battle?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.TextDim, false, "The battle will be recorded as a retreat."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Success, false, "[Y] Yes, retreat"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Primary, false, "[N] No, keep fighting"))
	return b.String()
}
