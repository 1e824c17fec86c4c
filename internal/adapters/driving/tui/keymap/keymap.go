// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/messages"
)

// KeyMap holds the browser keybindings.
type KeyMap struct {
	Up, Down key.Binding
	Select   key.Binding // open a table or key
	Back     key.Binding
	Refresh  key.Binding
	Remove   key.Binding // delete the highlighted key
	Quit     key.Binding
}

func binding(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up:      binding("↑/k", "up", "up", "k"),
		Down:    binding("↓/j", "down", "down", "j"),
		Select:  binding("enter", "open", "enter"),
		Back:    binding("esc", "back", "esc"),
		Refresh: binding("r", "refresh", "r"),
		Remove:  binding("x", "remove", "x"),
		Quit:    binding("q", "quit", "q", "ctrl+c"),
	}
}

// Help returns the status bar hints for view.
func (k *KeyMap) Help(view messages.ViewType) []key.Binding {
	switch view {
	case messages.ViewKeys:
		return []key.Binding{k.Up, k.Down, k.Select, k.Remove, k.Back}
	case messages.ViewRecord:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Select, k.Refresh, k.Quit}
	}
}
