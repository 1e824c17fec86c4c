package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// valueWrapper is the on-disk shape of a stored value. Wrapping keeps a
// stored null distinct from an absent row.
type valueWrapper struct {
	Value any `json:"value"`
}

type rawValueWrapper struct {
	Value json.RawMessage `json:"value"`
}

// EncodeValue serialises v as {"value":<v>}.
// The output matches JSON.stringify: no HTML escaping and no trailing newline.
func EncodeValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(valueWrapper{Value: v}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// DecodeValue parses a stored wrapper and returns the original value.
// Objects decode to map[string]any, arrays to []any and numbers to float64.
func DecodeValue(stored string) (any, error) {
	var w valueWrapper
	if err := json.Unmarshal([]byte(stored), &w); err != nil {
		return nil, fmt.Errorf("decoding stored value: %w", err)
	}
	return w.Value, nil
}

// DecodeValueInto parses a stored wrapper into dst.
func DecodeValueInto(stored string, dst any) error {
	var w rawValueWrapper
	if err := json.Unmarshal([]byte(stored), &w); err != nil {
		return fmt.Errorf("decoding stored value: %w", err)
	}
	if len(w.Value) == 0 {
		w.Value = json.RawMessage("null")
	}
	if err := json.Unmarshal(w.Value, dst); err != nil {
		return fmt.Errorf("decoding stored value: %w", err)
	}
	return nil
}
