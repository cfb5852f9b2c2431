package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// MenuItem is one entry of a Menu. Key is an optional single-letter hotkey
// that selects and triggers the item.
type MenuItem struct {
	Label  string
	Key    string
	Action func() tea.Cmd
}

// Menu tracks the selected entry of a vertical menu. Rendering is left to
// the screen that owns it.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	labels := make([]string, len(m.Items))
	for i, item := range m.Items {
		labels[i] = item.Label
	}
	return labels
}

// Update moves the selection with the arrow keys (wrapping at either end)
// and runs the selected item's action on enter or its hotkey.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
		return m, nil
	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % len(m.Items)
		return m, nil
	case "enter":
		return m, m.run(m.Selected)
	}

	for i, item := range m.Items {
		if item.Key != "" && strings.EqualFold(item.Key, key) {
			m.Selected = i
			return m, m.run(i)
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}
