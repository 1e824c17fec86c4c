package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "myVal", `{"value":"myVal"}`},
		{"null", nil, `{"value":null}`},
		{"zero", 0, `{"value":0}`},
		{"empty string", "", `{"value":""}`},
		{"false", false, `{"value":false}`},
		{"object", map[string]any{"k1": "v1", "k2": "v2"}, `{"value":{"k1":"v1","k2":"v2"}}`},
		{"array", []any{1, "two"}, `{"value":[1,"two"]}`},
		{"html is not escaped", "<a href='x'>&</a>", `{"value":"<a href='x'>&</a>"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncodeValue_Unserialisable(t *testing.T) {
	_, err := EncodeValue(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = EncodeValue(make(chan int))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected any
	}{
		{"string", `{"value":"myVal"}`, "myVal"},
		{"null", `{"value":null}`, nil},
		{"number", `{"value":42}`, float64(42)},
		{"object", `{"value":{"k1":"v1"}}`, map[string]any{"k1": "v1"}},
		{"missing value field", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue(tt.stored)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeValue_Corrupt(t *testing.T) {
	_, err := DecodeValue("not json")
	assert.Error(t, err)
}

func TestDecodeValueInto(t *testing.T) {
	type prefs struct {
		K1 string `json:"k1"`
		K2 string `json:"k2"`
	}

	var p prefs
	require.NoError(t, DecodeValueInto(`{"value":{"k1":"v1","k2":"v2"}}`, &p))
	assert.Equal(t, prefs{K1: "v1", K2: "v2"}, p)

	var n int
	require.NoError(t, DecodeValueInto(`{"value":7}`, &n))
	assert.Equal(t, 7, n)

	var s *string
	require.NoError(t, DecodeValueInto(`{}`, &s))
	assert.Nil(t, s)

	assert.Error(t, DecodeValueInto(`{"value":"x"}`, &n))
}
