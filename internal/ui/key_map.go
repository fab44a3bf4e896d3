package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the dialog.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	home  key.Binding
	end   key.Binding
	enter key.Binding
	back  key.Binding
	clear key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		home:  key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		end:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
		back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		clear: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
		quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.home, k.end},
		{k.enter, k.back, k.clear, k.quit},
	}
}
