package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Refresh key.Binding
	Floor   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Refresh: key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh")),
	Floor:   key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "next floor")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
