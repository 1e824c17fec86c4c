package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "myVal", `"myVal"`},
		{"null", nil, "null"},
		{"number", 1.5, "1.5"},
		{"object", map[string]any{"k1": "v1"}, "{\n  \"k1\": \"v1\"\n}"},
		{"html is not escaped", "<b>", `"<b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestView_SetRecord(t *testing.T) {
	v := NewView(nil)

	v.SetRecord("prefs", "theme", "dark", true)
	assert.Equal(t, `"dark"`, v.Content())
	assert.Contains(t, v.View(), "prefs")
	assert.Contains(t, v.View(), "theme")
	assert.Contains(t, v.View(), `"dark"`)

	v.SetRecord("prefs", "gone", nil, false)
	assert.Contains(t, v.View(), "(not found)")
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil)

	v.SetDimensions(100, 40)
	assert.Equal(t, 96, v.viewport.Width)
	assert.Equal(t, 35, v.viewport.Height)

	v.SetDimensions(1, 1)
	assert.Equal(t, 10, v.viewport.Width)
	assert.Equal(t, 3, v.viewport.Height)
}
