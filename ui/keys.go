package ui

import "github.com/charmbracelet/bubbles/key"

// reviewKeyMap lists the bindings of the duplicate review screen
type reviewKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevGroup key.Binding
	NextGroup key.Binding
	Toggle    key.Binding
	KeepFirst key.Binding
	Clear     key.Binding
	Delete    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newReviewKeyMap() reviewKeyMap {
	return reviewKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevGroup: key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "previous group")),
		NextGroup: key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next group")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		KeepFirst: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all but first")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear group")),
		Delete:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "delete selected")),
		Help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevGroup, k.NextGroup},
		{k.Toggle, k.KeepFirst, k.Clear},
		{k.Delete, k.Help, k.Quit},
	}
}
