package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

// AnswerInput wraps bubbles/textinput for typing integer answers.
type AnswerInput struct {
	Model     textinput.Model
	submitted bool
	valid     bool
}

// NewAnswerInput creates a focused input accepting at most maxLen characters.
func NewAnswerInput(placeholder string, maxLen int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	return AnswerInput{Model: ti}
}

// Init returns the initial command.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update handles messages. Printable keys other than digits and a leading
// minus sign are dropped.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && !allowedAnswerKey(key[0], a.Model.Value()) {
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func allowedAnswerKey(c byte, current string) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return c == '-' && current == ""
}

// View renders the input with a tick or cross once submitted.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.submitted {
		if a.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the raw text.
func (a AnswerInput) Value() string {
	return a.Model.Value()
}

// Answer parses the text as an integer answer.
func (a AnswerInput) Answer() (int, error) {
	return problemgen.ParseAnswer(a.Model.Value())
}

// Submit marks the input as submitted with a validation result.
func (a *AnswerInput) Submit(valid bool) {
	a.submitted = true
	a.valid = valid
}

// Reset clears the text and the submitted mark.
func (a *AnswerInput) Reset() {
	a.Model.SetValue("")
	a.submitted = false
	a.valid = false
}
