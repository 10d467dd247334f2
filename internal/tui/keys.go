package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Help    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Score   key.Binding
	Mode    key.Binding
	Vary    key.Binding
	Kind    key.Binding
	Numeric key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab: key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "prev tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Score:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "score")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "min/max")),
		Vary:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "varying")),
		Kind:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "bar/line")),
		Numeric: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "numeric sort")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Score, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.Select},
		{k.Score, k.Mode, k.Vary, k.Kind, k.Numeric},
		{k.Refresh, k.Help, k.Quit},
	}
}
