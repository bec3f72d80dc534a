package instantdb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeMapping parses a JSON object.
func DecodeMapping(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, formatError("decode", "invalid JSON", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, formatError("decode", fmt.Sprintf("expected a JSON object, got %s", TypeOfValue(v)), nil)
	}
	return m, nil
}

// DecodeList parses a JSON array into records of type T.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, formatError("decode", "invalid JSON", err)
		}
		return nil, formatError("decode", fmt.Sprintf("expected a JSON array, got %s", TypeOfValue(v)), nil)
	}
	var rows []T
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, formatError("decode", "invalid JSON array", err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Encode serializes v as compact JSON.
//
// The output carries no indentation, no trailing newline and no HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, formatError("encode", "failed to marshal value", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// encodeIndent is used for human facing output only.
func encodeIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", formatError("encode", "failed to marshal value", err)
	}
	return buf.String(), nil
}
