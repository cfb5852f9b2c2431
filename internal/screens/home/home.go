package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// Options wires the home menu to the rest of the app. Nil factories hide
// their menu entry.
type Options struct {
	Battles     store.BattleRepo
	NewBattle   func() screen.Screen
	NewPractice func() screen.Screen
	NewHistory  func() screen.Screen
}

// statsLoadedMsg carries the battle totals read at startup.
type statsLoadedMsg struct {
	stats store.BattleStats
	last  battle.Result
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts          Options
	menu          components.Menu
	stats         store.BattleStats
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	var items []components.MenuItem
	add := func(label, key string, factory func() screen.Screen) {
		if factory == nil {
			return
		}
		items = append(items, components.MenuItem{Label: label, Key: key, Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: factory()} }
		}})
	}
	add("BATTLE", "b", opts.NewBattle)
	add("PRACTICE", "p", opts.NewPractice)
	add("HISTORY", "h", opts.NewHistory)
	items = append(items, components.MenuItem{Label: "EXIT GAME", Key: "q", Action: func() tea.Cmd {
		return tea.Quit
	}})

	return &HomeScreen{
		opts: opts,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.opts.Battles
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := repo.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		msg := statsLoadedMsg{stats: stats}
		if recent, err := repo.Recent(ctx, store.QueryOpts{Limit: 1}); err == nil && len(recent) > 0 {
			msg.last = recent[0].Record.Result
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			return h, nil
		}
		h.stats = msg.stats
		h.mascotVariant = mascotFor(msg.last)
		status := fmt.Sprintf("★ %d won", msg.stats.Victories)
		return h, func() tea.Msg { return screen.StatusMsg{Text: status} }
	case router.RefreshMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	termHeight := height + 8
	compact := layout.IsCompactHeight(termHeight) || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if termHeight < 30 {
		sections = append(sections, renderArcadeMenuCompact(h.menu.Labels(), h.menu.Selected, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menu.Items, h.menu.Selected, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
