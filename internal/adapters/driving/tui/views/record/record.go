// Package record provides the view that shows one stored value.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/tui/styles"
)

// View renders a record value as indented JSON in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	table    string
	key      string
	found    bool
	content  string
}

// NewView creates a record view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.Default()
	}
	return &View{
		styles:   s,
		viewport: viewport.New(80, 20),
	}
}

// SetRecord replaces the displayed record.
func (v *View) SetRecord(table, key string, value any, found bool) {
	v.table = table
	v.key = key
	v.found = found

	if !found {
		v.content = "(not found)"
	} else {
		v.content = FormatValue(value)
	}
	v.viewport.SetContent(v.content)
	v.viewport.GotoTop()
}

// FormatValue renders value as indented JSON without HTML escaping.
func FormatValue(value any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// Update forwards scrolling keys to the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the record.
func (v *View) View() string {
	header := v.styles.Table.Render(v.table) + v.styles.Dim.Render(" / ") + v.styles.Key.Render(v.key)
	body := v.viewport.View()
	if !v.found {
		body = v.styles.Dim.Render(v.content)
	}
	return header + "\n\n" + v.styles.Value.Render(body)
}

// Content returns the rendered value text.
func (v *View) Content() string {
	return v.content
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	// Border and padding take four columns and two rows, the header three rows.
	w, h := width-4, height-5
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	v.viewport.Width = w
	v.viewport.Height = h
}
