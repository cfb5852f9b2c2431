// Package arena is the battle screen: the player answers questions against
// a countdown while the enemy attacks on a timer.
package arena

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/summary"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// tickInterval matches the engine's countdown resolution.
const tickInterval = 100 * time.Millisecond

// tickMsg drives the engine's timers.
type tickMsg time.Time

// Options configures a battle.
type Options struct {
	Config       battle.Config
	Questions    problemgen.QuestionConfig
	Settings     battle.Settings
	Sounds       battle.SoundHooks
	NewGenerator func() *problemgen.Generator
	Repo         store.BattleRepo
	Logger       *zap.Logger
	Clock        battle.Clock
}

// ArenaScreen owns one battle engine for its lifetime.
type ArenaScreen struct {
	opts   Options
	engine *battle.Engine
	input  components.AnswerInput

	ended              *battle.Record
	finished           bool
	showingQuitConfirm bool
}

var _ screen.Screen = (*ArenaScreen)(nil)
var _ screen.KeyHintProvider = (*ArenaScreen)(nil)
var _ screen.EscapeHandler = (*ArenaScreen)(nil)

// New creates an idle battle. The countdown starts in Init.
func New(opts Options) *ArenaScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = battle.SystemClock{}
	}
	if opts.Sounds == nil {
		opts.Sounds = battle.NopSounds{}
	}
	if opts.NewGenerator == nil {
		opts.NewGenerator = func() *problemgen.Generator {
			return problemgen.New(nil, problemgen.DefaultConfig())
		}
	}

	s := &ArenaScreen{
		opts:  opts,
		input: components.NewAnswerInput("?", 8),
	}
	supplier := battle.GeneratorSupplier(opts.NewGenerator(), opts.Questions, opts.Config.QuestionCount)
	s.engine = battle.New(opts.Config, opts.Questions.TypeID(), opts.Questions.TypeName(), supplier,
		battle.WithClock(opts.Clock),
		battle.WithSounds(opts.Sounds),
		battle.WithSettings(opts.Settings),
		battle.WithLogger(opts.Logger),
		battle.WithOnEnd(func(rec battle.Record) { s.ended = &rec }),
	)
	return s
}

// State exposes the engine state for rendering and tests.
func (s *ArenaScreen) State() battle.State {
	return s.engine.State()
}

func (s *ArenaScreen) Init() tea.Cmd {
	s.engine.StartPrepareTimer()
	return tea.Batch(s.input.Init(), tickCmd(), s.finish())
}

func (s *ArenaScreen) Title() string {
	return "Battle"
}

// HandlesEscape keeps Esc on this screen so it can confirm a retreat.
func (s *ArenaScreen) HandlesEscape() bool {
	return !s.finished
}

func (s *ArenaScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{{Key: "Y", Description: "Retreat"}, {Key: "N", Description: "Keep fighting"}}
	}
	if s.engine.State().Phase == battle.PhasePreparing {
		return []layout.KeyHint{{Key: "Enter", Description: "Start now"}, {Key: "Esc", Description: "Retreat"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Attack"}, {Key: "Esc", Description: "Retreat"}}
}

func (s *ArenaScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		s.engine.Tick(s.opts.Clock.Now())
		if cmd := s.finish(); cmd != nil {
			return s, cmd
		}
		return s, tickCmd()
	case tea.KeyMsg:
		cmd := s.handleKey(msg)
		if end := s.finish(); end != nil {
			return s, end
		}
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ArenaScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.engine.Retreat()
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return nil
	}

	if key == "esc" {
		s.showingQuitConfirm = true
		return nil
	}

	switch s.engine.State().Phase {
	case battle.PhasePreparing:
		if key == "enter" {
			s.engine.StartBattle()
		}
		return nil
	case battle.PhaseAnswering:
		if key == "enter" {
			s.submit()
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	return nil
}

func (s *ArenaScreen) submit() {
	answer, err := s.input.Answer()
	if err != nil {
		return
	}
	s.engine.SubmitAnswer(answer)
	s.input.Reset()
}

// finish runs once after the engine reports the end of the battle. It saves
// the record and swaps this screen for the summary. A retreat before the
// first question goes straight back without a record.
func (s *ArenaScreen) finish() tea.Cmd {
	if s.ended == nil || s.finished {
		return nil
	}
	s.finished = true
	rec := *s.ended

	if rec.StartedAt.IsZero() {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	repo := s.opts.Repo
	logger := s.opts.Logger
	opts := s.opts
	rematch := func() screen.Screen { return New(opts) }
	return func() tea.Msg {
		var err error
		if repo != nil {
			if err = repo.Save(context.Background(), rec); err != nil {
				logger.Warn("save battle record", zap.String("battle_id", rec.ID), zap.Error(err))
			}
		}
		return router.ReplaceScreenMsg{Screen: summary.New(rec, err, rematch)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
