package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping shared by both views.
type keyMap struct {
	submit key.Binding
	play   key.Binding
	next   key.Binding
	prev   key.Binding
	cancel key.Binding
	accept key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit playlist")),
		play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.play},
		{k.next, k.prev},
		{k.cancel, k.accept, k.quit},
	}
}
