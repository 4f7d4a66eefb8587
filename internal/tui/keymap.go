package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	DeductibleDown key.Binding
	DeductibleUp   key.Binding
	CeilingDown    key.Binding
	CeilingUp      key.Binding
	Next           key.Binding
	Prev           key.Binding
	Toggle         key.Binding
	Retry          key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.DeductibleUp, km.CeilingUp, km.Toggle, km.Help, km.Quit}
}

func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.DeductibleDown, km.DeductibleUp, km.CeilingDown, km.CeilingUp},
		{km.Next, km.Prev, km.Toggle},
		{km.Retry, km.Help, km.Quit},
	}
}

// KeyMap implements help.KeyMap
var _ help.KeyMap = KeyMap{}

var DefaultKeyMap = KeyMap{
	DeductibleDown: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "lower deductible"),
	),
	DeductibleUp: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "deductible"),
	),
	CeilingDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "lower ceiling"),
	),
	CeilingUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "ceiling"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next cover"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous cover"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle cover"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
