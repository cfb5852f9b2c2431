package practice

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/store"
)

// mockPracticeRepo implements store.PracticeRepo for testing.
type mockPracticeRepo struct {
	saved []store.PracticeData
}

func (m *mockPracticeRepo) AppendPractice(_ context.Context, data store.PracticeData) error {
	m.saved = append(m.saved, data)
	return nil
}
func (m *mockPracticeRepo) Recent(context.Context, store.QueryOpts) ([]store.PracticeEntry, error) {
	return nil, nil
}
func (m *mockPracticeRepo) Reset(context.Context) error { return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *PracticeScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func question(id, expr string, answer int) *problemgen.Question {
	return &problemgen.Question{ID: id, Expression: expr, Answer: answer}
}

// testPracticeScreen returns a screen with two generated questions and one
// exhausted slot.
func testPracticeScreen() (*PracticeScreen, *mockPracticeRepo) {
	repo := &mockPracticeRepo{}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(Options{
		Config: problemgen.QuestionConfig{MaxValue: 20, Operations: problemgen.AllOperations(), QuestionCount: 3},
		Repo:   repo,
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
	})
	s.Update(questionsReadyMsg{Slots: []problemgen.SlotResult{
		{Question: question("q1", "3 + 4", 7), Attempts: 1},
		{Question: question("q2", "9 - 5", 4), Attempts: 1},
		{Attempts: 1000},
	}})
	return s, repo
}

// run executes cmd and feeds the resulting message back into the screen.
func run(t *testing.T, s *PracticeScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := s.Update(cmd())
	return next
}

func TestPracticeScreen_QuestionsReady(t *testing.T) {
	s, _ := testPracticeScreen()

	if s.loading {
		t.Fatal("expected loading to finish")
	}
	if len(s.questions) != 2 {
		t.Errorf("questions = %d, want 2", len(s.questions))
	}
	if s.exhausted != 1 {
		t.Errorf("exhausted = %d, want 1", s.exhausted)
	}
}

func TestPracticeScreen_Init_GeneratesQuestions(t *testing.T) {
	s := New(Options{
		Config: problemgen.QuestionConfig{OperandCount: problemgen.OperandsTwo, MaxValue: 50, Operations: []problemgen.OperationType{problemgen.OpAdd}, QuestionCount: 4},
		NewGenerator: func() *problemgen.Generator {
			return problemgen.New(rand.New(rand.NewPCG(1, 2)), problemgen.DefaultConfig())
		},
	})
	if s.Init() == nil {
		t.Fatal("expected an init command")
	}

	gen := s.opts.NewGenerator()
	s.Update(questionsReadyMsg{Slots: gen.GenerateSlots(s.opts.Config)})
	if len(s.questions) != 4 {
		t.Errorf("questions = %d, want 4", len(s.questions))
	}
}

func TestPracticeScreen_FullSession(t *testing.T) {
	s, repo := testPracticeScreen()

	typeText(s, "7")
	s.Update(specialKey(tea.KeyEnter))
	if !s.showingFeedback || !s.lastCorrect {
		t.Fatalf("expected correct feedback, got feedback=%v correct=%v", s.showingFeedback, s.lastCorrect)
	}

	_, cmd := s.Update(keyPress(' '))
	if next := run(t, s, cmd); next != nil {
		t.Errorf("expected no command after first feedback, got one")
	}
	if s.current != 1 || s.input.Value() != "" {
		t.Fatalf("expected second question with empty input, got current=%d input=%q", s.current, s.input.Value())
	}

	typeText(s, "5")
	s.Update(specialKey(tea.KeyEnter))
	if s.lastCorrect {
		t.Error("expected 5 to be wrong for 9 - 5")
	}

	_, cmd = s.Update(keyPress('x'))
	endCmd := run(t, s, cmd)
	saveCmd := run(t, s, endCmd)
	if !s.done {
		t.Fatal("expected session to be done")
	}
	run(t, s, saveCmd)

	if len(repo.saved) != 1 {
		t.Fatalf("saved sessions = %d, want 1", len(repo.saved))
	}
	got := repo.saved[0]
	if got.Requested != 3 || got.Generated != 2 || got.Correct != 1 {
		t.Errorf("saved = requested %d generated %d correct %d, want 3/2/1", got.Requested, got.Generated, got.Correct)
	}
	if len(got.Answers) != 2 || got.Answers[1].Given != "5" || got.Answers[1].Correct {
		t.Errorf("unexpected answers %+v", got.Answers)
	}
	if got.Answers[0].TimeMs <= 0 {
		t.Errorf("expected positive answer time, got %d", got.Answers[0].TimeMs)
	}
}

func TestPracticeScreen_EmptySubmitIgnored(t *testing.T) {
	s, _ := testPracticeScreen()

	s.Update(specialKey(tea.KeyEnter))
	if s.showingFeedback {
		t.Error("expected empty answer to be ignored")
	}
}

func TestPracticeScreen_NonDigitsFiltered(t *testing.T) {
	s, _ := testPracticeScreen()

	typeText(s, "a1b2")
	if s.input.Value() != "12" {
		t.Errorf("input = %q, want %q", s.input.Value(), "12")
	}
}

func TestPracticeScreen_QuitConfirm(t *testing.T) {
	s, repo := testPracticeScreen()
	if !s.HandlesEscape() {
		t.Fatal("expected screen to handle esc while active")
	}

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ps := scr.(*PracticeScreen)
	if !ps.showingQuitConfirm {
		t.Fatal("expected quit confirmation dialog")
	}

	ps.Update(keyPress('n'))
	if ps.showingQuitConfirm {
		t.Error("expected quit confirmation to be dismissed")
	}

	typeText(ps, "7")
	ps.Update(specialKey(tea.KeyEnter))
	_, cmd := ps.Update(keyPress(' '))
	run(t, ps, cmd)

	ps.Update(specialKey(tea.KeyEscape))
	_, cmd = ps.Update(keyPress('y'))
	saveCmd := run(t, ps, cmd)
	run(t, ps, saveCmd)

	if !ps.done {
		t.Fatal("expected session to end")
	}
	if len(repo.saved) != 1 || len(repo.saved[0].Answers) != 1 {
		t.Errorf("expected one saved session with one answer, got %+v", repo.saved)
	}
	if ps.HandlesEscape() {
		t.Error("expected esc to fall through once done")
	}
}

func TestPracticeScreen_DoneReturnsHome(t *testing.T) {
	s, _ := testPracticeScreen()
	s.Update(sessionEndMsg{})

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestPracticeScreen_NoQuestions(t *testing.T) {
	repo := &mockPracticeRepo{}
	s := New(Options{Repo: repo})

	_, cmd := s.Update(questionsReadyMsg{Slots: []problemgen.SlotResult{{Attempts: 5}}})
	saveCmd := run(t, s, cmd)
	if !s.done {
		t.Fatal("expected session to end with no questions")
	}
	if saveCmd != nil {
		t.Error("expected nothing to be saved")
	}
	if len(repo.saved) != 0 {
		t.Errorf("saved = %d, want 0", len(repo.saved))
	}
}

func TestPracticeScreen_Views(t *testing.T) {
	s := New(Options{})
	if s.View(80, 24) == "" {
		t.Error("expected loading view")
	}

	s, _ = testPracticeScreen()
	if s.View(80, 24) == "" {
		t.Error("expected question view")
	}
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints")
	}

	s.Update(sessionEndMsg{})
	if s.View(80, 24) == "" {
		t.Error("expected summary view")
	}
}
