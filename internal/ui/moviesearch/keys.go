package moviesearch

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the [key.Binding] mapping for the search dropdown.
type KeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns arrow keys plus emacs-style ctrl+n/ctrl+p, enter and esc.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Prev:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Confirm, k.Dismiss}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
