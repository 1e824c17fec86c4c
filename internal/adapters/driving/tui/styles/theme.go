// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the browser colours. Each entry adapts to light and dark
// terminal backgrounds.
type Palette struct {
	Accent lipgloss.AdaptiveColor // table names, headers
	Key    lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Dim    lipgloss.AdaptiveColor
	OK     lipgloss.AdaptiveColor
	Fail   lipgloss.AdaptiveColor
	Frame  lipgloss.AdaptiveColor
	Bar    lipgloss.AdaptiveColor
	Ink    lipgloss.AdaptiveColor // text drawn on Accent
}

// DefaultPalette returns the Catppuccin based palette (Latte on light
// backgrounds, Mocha on dark ones).
func DefaultPalette() Palette {
	return Palette{
		Accent: lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"},
		Key:    lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"},
		Text:   lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#CDD6F4"},
		Dim:    lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"},
		OK:     lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
		Fail:   lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"},
		Frame:  lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"},
		Bar:    lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#181825"},
		Ink:    lipgloss.AdaptiveColor{Light: "#EFF1F5", Dark: "#1E1E2E"},
	}
}

// Styles are the rendered roles used across the browser views.
type Styles struct {
	palette Palette

	Header     lipgloss.Style
	Table      lipgloss.Style
	Key        lipgloss.Style
	ListHeader lipgloss.Style
	Text       lipgloss.Style
	Dim        lipgloss.Style
	Cursor     lipgloss.Style
	Fail       lipgloss.Style
	OK         lipgloss.Style
	Value      lipgloss.Style // frame around a record value
	StatusBar  lipgloss.Style
}

// New builds styles from a palette.
func New(p Palette) *Styles {
	return &Styles{
		palette: p,

		Header:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Underline(true),
		Table:      lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Key:        lipgloss.NewStyle().Foreground(p.Key),
		ListHeader: lipgloss.NewStyle().Bold(true).Foreground(p.Key),
		Text:       lipgloss.NewStyle().Foreground(p.Text),
		Dim:        lipgloss.NewStyle().Foreground(p.Dim),
		Cursor:     lipgloss.NewStyle().Bold(true).Foreground(p.Ink).Background(p.Accent),
		Fail:       lipgloss.NewStyle().Foreground(p.Fail),
		OK:         lipgloss.NewStyle().Foreground(p.OK),

		Value: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Dim).
			Background(p.Bar).
			Padding(0, 1),
	}
}

// Default returns styles built from DefaultPalette.
func Default() *Styles {
	return New(DefaultPalette())
}

// Palette returns the palette the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}
