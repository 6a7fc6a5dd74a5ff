package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	submit  key.Binding
	next    key.Binding
	giveUp  key.Binding
	preview key.Binding
	share   key.Binding
	restart key.Binding
	quit    key.Binding
	abort   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "guess")),
		next:    key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "next track")),
		giveUp:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "give up")),
		preview: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open preview")),
		share:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share code")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new game")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		abort:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.submit, k.giveUp, k.preview},
		{k.next, k.share, k.restart, k.quit},
	}
}
