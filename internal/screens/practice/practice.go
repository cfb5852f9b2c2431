// Package practice is an untimed drill: a fixed batch of questions answered
// one at a time with feedback after each.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

// Options configures a practice session.
type Options struct {
	Config       problemgen.QuestionConfig
	NewGenerator func() *problemgen.Generator
	Repo         store.PracticeRepo
	Logger       *zap.Logger
	Now          func() time.Time
}

// PracticeScreen runs one practice session.
type PracticeScreen struct {
	opts Options

	id        string
	questions []problemgen.Question
	exhausted int
	current   int
	input     components.AnswerInput

	answers         []store.PracticeAnswer
	correct         int
	startedAt       time.Time
	questionStarted time.Time

	loading            bool
	showingFeedback    bool
	lastCorrect        bool
	showingQuitConfirm bool
	done               bool
	saveErr            error
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscapeHandler = (*PracticeScreen)(nil)

// New creates a practice screen. Questions are generated in Init.
func New(opts Options) *PracticeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewGenerator == nil {
		opts.NewGenerator = func() *problemgen.Generator { return problemgen.New(nil, problemgen.DefaultConfig()) }
	}
	return &PracticeScreen{
		opts:    opts,
		id:      uuid.NewString(),
		input:   components.NewAnswerInput("?", 8),
		loading: true,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	gen := s.opts.NewGenerator()
	cfg := s.opts.Config
	return tea.Batch(s.input.Init(), func() tea.Msg {
		return questionsReadyMsg{Slots: gen.GenerateSlots(cfg)}
	})
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// HandlesEscape keeps Esc on this screen until the session is over so it can
// ask for confirmation first.
func (s *PracticeScreen) HandlesEscape() bool {
	return !s.done
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.done:
		return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	case s.showingQuitConfirm:
		return []layout.KeyHint{{Key: "Y", Description: "End session"}, {Key: "N", Description: "Keep going"}}
	case s.showingFeedback:
		return []layout.KeyHint{{Key: "Any key", Description: "Next question"}}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Quit"}}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestionsReady(msg)
	case feedbackDoneMsg:
		return s.handleFeedbackDone()
	case sessionEndMsg:
		return s.handleSessionEnd()
	case sessionSavedMsg:
		s.saveErr = msg.Err
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.active() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) active() bool {
	return !s.loading && !s.done && !s.showingFeedback && !s.showingQuitConfirm
}

func (s *PracticeScreen) handleQuestionsReady(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	for _, slot := range msg.Slots {
		if slot.Generated() {
			s.questions = append(s.questions, *slot.Question)
		} else {
			s.exhausted++
		}
	}
	now := s.opts.Now()
	s.startedAt = now
	s.questionStarted = now
	if s.exhausted > 0 {
		s.opts.Logger.Warn("question slots exhausted",
			zap.Int("exhausted", s.exhausted),
			zap.Int("requested", len(msg.Slots)))
	}
	if len(s.questions) == 0 {
		return s, func() tea.Msg { return sessionEndMsg{} }
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.done {
		switch key {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}
	if s.loading {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, func() tea.Msg { return sessionEndMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.showingFeedback {
		return s, func() tea.Msg { return feedbackDoneMsg{} }
	}

	switch key {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "enter":
		return s.submitAnswer()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	if s.current >= len(s.questions) {
		return s, nil
	}
	given := s.input.Value()
	if given == "" {
		return s, nil
	}

	q := s.questions[s.current]
	correct := problemgen.CheckAnswer(given, &q)
	now := s.opts.Now()
	s.answers = append(s.answers, store.PracticeAnswer{
		QuestionID: q.ID,
		Expression: q.Expression,
		Answer:     q.Answer,
		Given:      given,
		Correct:    correct,
		TimeMs:     now.Sub(s.questionStarted).Milliseconds(),
	})
	if correct {
		s.correct++
	}
	s.lastCorrect = correct
	s.input.Submit(correct)
	s.showingFeedback = true
	return s, nil
}

func (s *PracticeScreen) handleFeedbackDone() (screen.Screen, tea.Cmd) {
	if !s.showingFeedback {
		return s, nil
	}
	s.showingFeedback = false
	s.current++
	s.input.Reset()
	s.questionStarted = s.opts.Now()
	if s.current >= len(s.questions) {
		return s, func() tea.Msg { return sessionEndMsg{} }
	}
	return s, nil
}

func (s *PracticeScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	s.done = true
	s.showingFeedback = false

	data := store.PracticeData{
		ID:        s.id,
		Config:    s.opts.Config,
		Requested: len(s.questions) + s.exhausted,
		Generated: len(s.questions),
		Correct:   s.correct,
		StartedAt: s.startedAt,
		EndedAt:   s.opts.Now(),
		Answers:   s.answers,
	}
	s.opts.Logger.Info("practice finished",
		zap.String("id", data.ID),
		zap.Int("answered", len(data.Answers)),
		zap.Int("correct", data.Correct))

	repo := s.opts.Repo
	if repo == nil || len(data.Answers) == 0 {
		return s, nil
	}
	logger := s.opts.Logger
	return s, func() tea.Msg {
		err := repo.AppendPractice(context.Background(), data)
		if err != nil {
			logger.Error("save practice session", zap.Error(err))
		}
		return sessionSavedMsg{Err: err}
	}
}

func (s *PracticeScreen) View(width, height int) string {
	switch {
	case s.loading:
		return renderLoading(width, height)
	case s.done:
		return s.renderSummary(width, height)
	case s.showingQuitConfirm:
		return renderQuitConfirm(width, height)
	case s.showingFeedback:
		return s.renderFeedback(width, height)
	default:
		return s.renderQuestion(width, height)
	}
}
