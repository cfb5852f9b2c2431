package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/battle"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/store"
)

type mockBattleRepo struct {
	stats store.BattleStats
	last  []store.BattleEntry
}

func (m *mockBattleRepo) Save(context.Context, battle.Record) error { return nil }
func (m *mockBattleRepo) Get(context.Context, string) (*store.BattleEntry, error) {
	return nil, store.ErrNotFound
}
func (m *mockBattleRepo) Recent(context.Context, store.QueryOpts) ([]store.BattleEntry, error) {
	return m.last, nil
}
func (m *mockBattleRepo) Stats(context.Context) (store.BattleStats, error) { return m.stats, nil }
func (m *mockBattleRepo) Reset(context.Context) error                      { return nil }

type stubScreen struct{ title string }

func (s stubScreen) Init() tea.Cmd                           { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s stubScreen) View(int, int) string                    { return s.title }
func (s stubScreen) Title() string                           { return s.title }

func factory(title string) func() screen.Screen {
	return func() screen.Screen { return stubScreen{title: title} }
}

func TestHomeScreen_MenuEntries(t *testing.T) {
	h := New(Options{NewBattle: factory("battle"), NewHistory: factory("history")})

	want := []string{"BATTLE", "HISTORY", "EXIT GAME"}
	labels := h.menu.Labels()
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestHomeScreen_SelectPushesScreen(t *testing.T) {
	h := New(Options{NewBattle: factory("battle"), NewPractice: factory("practice")})

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if push.Screen.Title() != "practice" {
		t.Errorf("pushed %q, want practice", push.Screen.Title())
	}
}

func TestHomeScreen_StatsLoaded(t *testing.T) {
	repo := &mockBattleRepo{
		stats: store.BattleStats{Battles: 4, Victories: 3, BestCombo: 7, Accuracy: 81},
		last:  []store.BattleEntry{{Record: battle.Record{Result: battle.ResultVictory}}},
	}
	h := New(Options{Battles: repo})

	_, cmd := h.Update(h.Init()())
	if h.stats.Victories != 3 {
		t.Errorf("victories = %d, want 3", h.stats.Victories)
	}
	if h.mascotVariant != MascotVictorious {
		t.Errorf("mascot = %v, want victorious", h.mascotVariant)
	}
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	status, ok := cmd().(screen.StatusMsg)
	if !ok || status.Text != "★ 3 won" {
		t.Errorf("status = %+v", cmd())
	}
}

func TestHomeScreen_RefreshReloadsStats(t *testing.T) {
	h := New(Options{Battles: &mockBattleRepo{}})
	if _, cmd := h.Update(router.RefreshMsg{}); cmd == nil {
		t.Error("expected a reload command")
	}

	h = New(Options{})
	if h.Init() != nil {
		t.Error("expected no load without a repo")
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(Options{NewBattle: factory("battle")})
	for _, size := range [][2]int{{80, 18}, {120, 40}} {
		if h.View(size[0], size[1]) == "" {
			t.Errorf("expected non-empty view at %dx%d", size[0], size[1])
		}
	}
}

func TestMascotFor(t *testing.T) {
	tests := map[battle.Result]MascotVariant{
		battle.ResultVictory: MascotVictorious,
		battle.ResultDefeat:  MascotWounded,
		battle.ResultRetreat: MascotReady,
		battle.ResultNone:    MascotReady,
	}
	for r, want := range tests {
		if got := mascotFor(r); got != want {
			t.Errorf("mascotFor(%q) = %v, want %v", r, got, want)
		}
	}
}

func TestHomeScreen_Hotkey(t *testing.T) {
	h := New(Options{NewBattle: factory("battle"), NewHistory: factory("history")})

	_, cmd := h.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != "history" {
		t.Fatalf("got %+v, want push of history", cmd())
	}
	if h.menu.Selected != 1 {
		t.Errorf("selected = %d, want 1", h.menu.Selected)
	}
}
