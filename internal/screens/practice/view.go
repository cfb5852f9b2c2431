package practice

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

func centered(width int, fg color.Color, bold bool, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Bold(bold).
		Render(text)
}

// renderQuestion renders the active question display.
func (s *PracticeScreen) renderQuestion(width, height int) string {
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.current+1, len(s.questions)))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d correct",
			lipgloss.NewStyle().Foreground(theme.Success).Render("*"),
			s.correct))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	progress := components.NewProgressBar("", float64(s.current)/float64(len(s.questions)), false, min(width-8, 40))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, progress.View()))
	b.WriteString("\n\n")

	q := s.questions[s.current]
	b.WriteString(centered(width, theme.Text, true, q.Expression+" = ?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View()))

	return b.String()
}

// renderFeedback renders the result of the last answer.
func (s *PracticeScreen) renderFeedback(width, height int) string {
	q := s.questions[s.current]

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Text, false, fmt.Sprintf("%s = %s", q.Expression, s.input.View())))
	b.WriteString("\n\n")
	if s.lastCorrect {
		b.WriteString(centered(width, theme.Success, true, "Correct!"))
	} else {
		b.WriteString(centered(width, theme.Error, true, "Not quite"))
		b.WriteString("\n")
		b.WriteString(centered(width, theme.TextDim, false, fmt.Sprintf("Correct answer: %d", q.Answer)))
	}
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.TextDim, false, "Press any key to continue..."))
	return b.String()
}

// renderSummary renders the finished session.
func (s *PracticeScreen) renderSummary(width, height int) string {
	cw := components.ContentWidth(width)

	var body strings.Builder
	body.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("PRACTICE COMPLETE"))
	body.WriteString("\n\n")

	answered := len(s.answers)
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(s.correct) / float64(answered) * 100
	}
	body.WriteString(fmt.Sprintf("Answered: %d/%d    Correct: %d    Accuracy: %.0f%%",
		answered, len(s.questions), s.correct, accuracy))

	if s.exhausted > 0 {
		body.WriteString("\n\n")
		body.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("%d question(s) could not be generated for these settings", s.exhausted)))
	}
	if s.saveErr != nil {
		body.WriteString("\n\n")
		body.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not save session: " + s.saveErr.Error()))
	}

	var sections []string
	accent := theme.Error
	if accuracy >= 50 {
		accent = theme.ArcadeYellow
	}
	sections = append(sections, components.ArcadeCard(body.String(), cw, accent))
	sections = append(sections, components.ArcadeButton("HOME", "enter", true, 24))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Text, true, "End practice early?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.TextDim, false, "Answers so far will be saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Success, false, "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Primary, false, "[N] No, keep going"))
	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width, height int) string {
	return centered(width, theme.TextDim, false, "\n\n\n  Preparing your questions...")
}
