package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the dashboard.
//
// The search input keeps focus while no prompt is open, so nothing here may collide with typing:
// dashboard keys are named keys or modified keys only.
type keyMap struct {
	tab       key.Binding
	prevSlide key.Binding
	nextSlide key.Binding
	listUp    key.Binding
	listDown  key.Binding
	lower     key.Binding
	raise     key.Binding
	save      key.Binding
	cancel    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		prevSlide: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "previous")),
		nextSlide: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next")),
		listUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "scroll up")),
		listDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "scroll down")),
		lower:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "lower")),
		raise:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "raise")),
		save:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.prevSlide, k.nextSlide, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.tab, k.listUp, k.listDown},
		{k.prevSlide, k.nextSlide},
		{k.lower, k.raise, k.save, k.cancel},
		{k.quit},
	}
}

// promptHelp is the help line shown while the rating prompt is open.
func (k keyMap) promptHelp() []key.Binding {
	digits := key.NewBinding(key.WithKeys("1"), key.WithHelp("1-9,0", "set"))
	return []key.Binding{k.lower, k.raise, digits, k.save, k.cancel}
}
