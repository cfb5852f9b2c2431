package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/arena"
	"github.com/abhisek/mathquest/internal/screens/history"
	"github.com/abhisek/mathquest/internal/screens/home"
	"github.com/abhisek/mathquest/internal/screens/practice"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// Options holds everything the screens need.
type Options struct {
	Questions    problemgen.QuestionConfig
	Battle       battle.Config
	Settings     battle.Settings
	Sounds       battle.SoundHooks
	NewGenerator func() *problemgen.Generator
	Battles      store.BattleRepo
	Practice     store.PracticeRepo
	Logger       *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	homeScreen := home.New(home.Options{
		Battles: opts.Battles,
		NewBattle: func() screen.Screen {
			return arena.New(arena.Options{
				Config:       opts.Battle,
				Questions:    opts.Questions,
				Settings:     opts.Settings,
				Sounds:       opts.Sounds,
				NewGenerator: opts.NewGenerator,
				Repo:         opts.Battles,
				Logger:       opts.Logger.Named("battle"),
			})
		},
		NewPractice: func() screen.Screen {
			return practice.New(practice.Options{
				Config:       opts.Questions,
				NewGenerator: opts.NewGenerator,
				Repo:         opts.Practice,
				Logger:       opts.Logger.Named("practice"),
			})
		},
		NewHistory: func() screen.Screen {
			return history.New(opts.Battles, opts.Practice)
		},
	})
	return AppModel{
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StatusMsg:
		m.status = msg.Text
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := layout.ContentHeight(header, footer, m.height)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
