// Package router keeps the stack of screens the app navigates between. The
// home screen sits at the bottom and is never popped.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the current screen for Screen, e.g. arena to summary.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// HomeMsg closes every screen above home.
type HomeMsg struct{}

// RefreshMsg is delivered to a screen when it becomes active again.
type RefreshMsg struct{}

func refresh() tea.Msg { return RefreshMsg{} }

// Router holds the screen stack.
type Router struct {
	stack []screen.Screen
}

// New returns a router with home at the bottom of the stack.
func New(home screen.Screen) *Router {
	return &Router{stack: []screen.Screen{home}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen. Home stays put.
func (r *Router) Pop() tea.Cmd {
	return r.truncate(len(r.stack) - 1)
}

// Home closes everything above the bottom screen.
func (r *Router) Home() tea.Cmd {
	return r.truncate(1)
}

func (r *Router) truncate(depth int) tea.Cmd {
	depth = max(depth, 1)
	if depth >= len(r.stack) {
		return nil
	}
	clear(r.stack[depth:])
	r.stack = r.stack[:depth]
	return refresh
}

// Replace swaps the top screen for s. Replacing home makes s the new bottom.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth is the number of open screens, home included.
func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case HomeMsg:
		return r.Home()
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View renders the active screen into width x height.
func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
