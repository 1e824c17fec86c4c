// Package status renders the one-line status bar at the bottom of the browser.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/styles"
)

// State is what the left side of the bar reports.
type State int

const (
	StateReady State = iota
	StateLoading
	StateError
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateDone:
		return "done"
	default:
		return "ready"
	}
}

// Bar shows the last storage outcome on the left and key hints on the right.
type Bar struct {
	styles   *styles.Styles
	bindings []key.Binding
	state    State
	message  string
	count    int
	width    int
}

// NewBar creates a status bar showing the table list hints.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.Default()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, bindings: km.Help(messages.ViewTables), width: 80}
}

// View renders the bar at its full width.
func (b *Bar) View() string {
	left, right := b.outcome(), b.hints()
	gap := max(1, b.width-lipgloss.Width(left)-lipgloss.Width(right))
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) outcome() string {
	switch b.state {
	case StateLoading:
		return b.styles.Dim.Render("Loading...")
	case StateError:
		if b.message == "" {
			return b.styles.Fail.Render("Error")
		}
		return b.styles.Fail.Render("Error: " + b.message)
	case StateDone:
		return b.styles.OK.Render(b.message)
	}
	if b.count == 0 {
		return b.styles.Dim.Render("Ready")
	}
	return b.styles.Text.Render(fmt.Sprintf("%d items", b.count))
}

func (b *Bar) hints() string {
	parts := make([]string, len(b.bindings))
	for i, binding := range b.bindings {
		h := binding.Help()
		parts[i] = h.Key + ": " + h.Desc
	}
	return b.styles.Dim.Render(strings.Join(parts, " | "))
}

// SetBindings replaces the key hints.
func (b *Bar) SetBindings(bindings []key.Binding) { b.bindings = bindings }

// SetState sets the state and its message.
func (b *Bar) SetState(state State, message string) {
	b.state = state
	b.message = message
}

// SetError reports err.
func (b *Bar) SetError(err error) { b.SetState(StateError, err.Error()) }

// SetCount sets the number of listed items shown when ready.
func (b *Bar) SetCount(count int) { b.count = count }

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) { b.width = width }

// State returns the current state.
func (b *Bar) State() State { return b.state }

// Message returns the current message.
func (b *Bar) Message() string { return b.message }

// Clear returns the bar to Ready with no count.
func (b *Bar) Clear() {
	b.state, b.message, b.count = StateReady, "", 0
}
