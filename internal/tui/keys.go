package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	ShowPrevious   key.Binding
	ShowNext       key.Binding
	ShowDifference key.Binding
	Recompute      key.Binding
	Save           key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	Up             key.Binding
	Down           key.Binding
	Quit           key.Binding
}

var Keys = KeyMap{
	ShowPrevious: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous"),
	),
	ShowNext: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next"),
	),
	ShowDifference: key.NewBinding(
		key.WithKeys("enter", "d"),
		key.WithHelp("enter", "difference"),
	),
	Recompute: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recompute"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "prev option"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "next option"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) help() []key.Binding {
	return []key.Binding{k.ShowPrevious, k.ShowNext, k.ShowDifference, k.Recompute, k.Save, k.NextField, k.Down, k.Quit}
}
