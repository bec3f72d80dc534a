package instantdb

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Type is the tag of a stored value.
type Type string

const (
	TypeString    Type = "string"
	TypeNumber    Type = "number"
	TypeBoolean   Type = "boolean"
	TypeNull      Type = "null"
	TypeArray     Type = "array"
	TypeObject    Type = "object"
	TypeUndefined Type = "undefined"
)

// TypeOfValue returns the tag of a decoded JSON value.
//
// Values that are not one of the decoded JSON shapes are classified after
// normalization, so an int is a number and a struct is an object.
func TypeOfValue(v any) Type {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case float64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	}
	n, err := normalize(v)
	if err != nil {
		return TypeUndefined
	}
	if n == nil {
		// Typed nil pointers and slices encode as null.
		return TypeNull
	}
	return TypeOfValue(n)
}

// normalize converts v into the shape it would have after being written and
// read back: nil, bool, float64, string, []any or map[string]any.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string:
		return v, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, formatError("normalize", "JSON cannot represent "+fmt.Sprint(t), nil)
		}
		return v, nil
	case int:
		return float64(t), nil
	}
	data, err := Encode(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, formatError("normalize", "failed to decode value", err)
	}
	return out, nil
}

func normalizeAll(values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		n, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Equal reports whether a and b are structurally equal JSON values.
//
// Both sides are normalized first, so int(2) equals float64(2).
func Equal(a, b any) bool {
	na, err := normalize(a)
	if err != nil {
		return false
	}
	nb, err := normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(na, nb)
}

// cloneValue returns a deep copy of a decoded JSON value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMapping(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneMapping(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
