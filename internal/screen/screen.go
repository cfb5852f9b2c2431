// Package screen defines what the router needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/ui/layout"
)

// Screen is one page of the app: home, arena, summary, practice, history.
// View renders only the body; the app draws the header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider overrides the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler screens receive Esc themselves instead of being popped,
// e.g. the arena asks before retreating.
type EscapeHandler interface {
	HandlesEscape() bool
}

// StatusMsg sets the header status text.
type StatusMsg struct {
	Text string
}
