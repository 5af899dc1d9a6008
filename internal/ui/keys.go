package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the greeting's keyboard shortcuts.
type KeyMap struct {
	Advance key.Binding
	Motion  key.Binding
	Theme   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Advance: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "continue"),
		),
		Motion: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "motion"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Motion, k.Theme, k.Quit}
}
