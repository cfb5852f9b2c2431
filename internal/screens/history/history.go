package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/summary"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/layout"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// pageSize bounds how many entries of each kind are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Battles  []store.BattleEntry
	Practice []store.PracticeEntry
	Err      error
}

type tab int

const (
	tabBattles tab = iota
	tabPractice
)

// HistoryScreen lists past battles and practice sessions.
type HistoryScreen struct {
	battles      store.BattleRepo
	practiceRepo store.PracticeRepo

	battleList   []store.BattleEntry
	practiceList []store.PracticeEntry
	tab          tab
	selected     int
	expanded     map[int]bool
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. Either repo may be nil.
func New(battles store.BattleRepo, practice store.PracticeRepo) *HistoryScreen {
	return &HistoryScreen{
		battles:      battles,
		practiceRepo: practice,
		expanded:     make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	battles, practice := s.battles, s.practiceRepo
	return func() tea.Msg {
		ctx := context.Background()
		var msg historyLoadedMsg
		var err error
		if battles != nil {
			if msg.Battles, err = battles.Recent(ctx, store.QueryOpts{Limit: pageSize}); err != nil {
				return historyLoadedMsg{Err: err}
			}
		}
		if practice != nil {
			if msg.Practice, err = practice.Recent(ctx, store.QueryOpts{Limit: pageSize}); err != nil {
				return historyLoadedMsg{Err: err}
			}
		}
		return msg
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Battles/Practice"},
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) count() int {
	if s.tab == tabPractice {
		return len(s.practiceList)
	}
	return len(s.battleList)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.battleList = msg.Battles
			s.practiceList = msg.Practice
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			if s.tab == tabBattles {
				s.tab = tabPractice
			} else {
				s.tab = tabBattles
			}
			s.selected = 0
			s.expanded = make(map[int]bool)
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < s.count()-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString(s.renderTabs(width))
	b.WriteString("\n\n")

	if s.tab == tabPractice {
		b.WriteString(s.renderPractice(width))
	} else {
		b.WriteString(s.renderBattles(width))
	}
	return b.String()
}

func (s *HistoryScreen) renderTabs(width int) string {
	active := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 1)

	battles, practice := inactive, inactive
	if s.tab == tabPractice {
		practice = active
	} else {
		battles = active
	}
	tabs := battles.Render(fmt.Sprintf("BATTLES (%d)", len(s.battleList))) + "  " +
		practice.Render(fmt.Sprintf("PRACTICE (%d)", len(s.practiceList)))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, tabs)
}

func emptyLine(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
		Render(text)
}

func (s *HistoryScreen) line(width, i int, text string) string {
	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "> "
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+text)) + "\n"
}

func detail(width int, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)) + "\n"
}

func (s *HistoryScreen) renderBattles(width int) string {
	if len(s.battleList) == 0 {
		return emptyLine(width, "No battles yet. Go fight one!")
	}

	var b strings.Builder
	for i, e := range s.battleList {
		rec := e.Record
		b.WriteString(s.line(width, i, fmt.Sprintf("%s  %-9s  %s  %d/%d correct  %.0f%%",
			rec.EndedAt.Local().Format("Jan 02 15:04"),
			summary.Banner(rec.Result),
			summary.FormatDuration(rec.Duration.Seconds()),
			rec.CorrectCount, rec.QuestionCount, rec.Accuracy)))

		if s.expanded[i] {
			b.WriteString(detail(width, rec.QuestionTypeName))
			b.WriteString(detail(width, fmt.Sprintf("Max combo %d   Damage %.1f   HP left %.1f   Enemy HP left %.1f",
				rec.MaxCombo, rec.TotalDamage, rec.PlayerHPLeft, rec.EnemyHPLeft)))
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderPractice(width int) string {
	if len(s.practiceList) == 0 {
		return emptyLine(width, "No practice sessions yet.")
	}

	var b strings.Builder
	for i, e := range s.practiceList {
		d := e.Data
		b.WriteString(s.line(width, i, fmt.Sprintf("%s  %d/%d correct  (%d requested)",
			d.EndedAt.Local().Format("Jan 02 15:04"), d.Correct, len(d.Answers), d.Requested)))

		if s.expanded[i] {
			for _, a := range d.Answers {
				mark := "✓"
				if !a.Correct {
					mark = "✗"
				}
				b.WriteString(detail(width, fmt.Sprintf("%s %s = %d (you said %s)", mark, a.Expression, a.Answer, a.Given)))
			}
		}
	}
	return b.String()
}
