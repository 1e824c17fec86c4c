// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/styles"
)

// NameList displays table names or keys in a navigable list.
type NameList struct {
	title    string
	empty    string
	items    []string
	selected int
	styles   *styles.Styles
	item     lipgloss.Style
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// NewNameList creates a list titled title. item styles unselected rows and
// empty is shown when there is nothing to list.
func NewNameList(s *styles.Styles, km *keymap.KeyMap, title, empty string, item lipgloss.Style) *NameList {
	if s == nil {
		s = styles.Default()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &NameList{
		title:  title,
		empty:  empty,
		styles: s,
		item:   item,
		keymap: km,
		width:  80,
		height: 20,
	}
}

// Update handles list navigation messages.
func (l *NameList) Update(msg tea.Msg) (*NameList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, l.keymap.Up):
			l.MoveUp()
		case key.Matches(msg, l.keymap.Down):
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *NameList) View() string {
	header := l.styles.ListHeader.Render(fmt.Sprintf("%s (%d)", l.title, len(l.items)))
	if len(l.items) == 0 {
		return header + "\n\n" + l.styles.Dim.Render(l.empty)
	}

	visible := l.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	lines := make([]string, 0, end-start+2)
	lines = append(lines, header, "")
	for i := start; i < end; i++ {
		name := truncate(l.items[i], l.width-4)
		if i == l.selected {
			lines = append(lines, l.styles.Cursor.Render("> "+name))
		} else {
			lines = append(lines, l.item.Render("  "+name))
		}
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// SetItems replaces the list contents and resets the selection.
func (l *NameList) SetItems(items []string) {
	l.items = items
	l.selected = 0
}

// Items returns the current items.
func (l *NameList) Items() []string {
	return l.items
}

// Selected returns the index of the selected item.
func (l *NameList) Selected() int {
	return l.selected
}

// SelectedItem returns the selected item, or false if the list is empty.
func (l *NameList) SelectedItem() (string, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return "", false
	}
	return l.items[l.selected], true
}

// MoveUp moves selection up.
func (l *NameList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *NameList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *NameList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}
