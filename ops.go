package instantdb

import (
	"math"
	"slices"
)

// Operator is an arithmetic operator accepted by Math.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
	OpPower    Operator = "**"
)

var mathOperations = map[Operator]func(a, b float64) float64{
	OpAdd:      func(a, b float64) float64 { return a + b },
	OpSubtract: func(a, b float64) float64 { return a - b },
	OpMultiply: func(a, b float64) float64 { return a * b },
	OpDivide:   func(a, b float64) float64 { return a / b },
	OpPower:    math.Pow,
}

// ParseOperator validates s as an Operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(s)
	if _, ok := mathOperations[op]; !ok {
		return "", typeMismatch("math", "unknown operator %q", s)
	}
	return op, nil
}

// applyMath computes op(data[key], amount) and stores the result in data.
//
// Results that JSON cannot represent (infinities, NaN) are stored as null.
func applyMath(data map[string]any, key string, op Operator, amount float64) (float64, error) {
	if math.IsNaN(amount) {
		return 0, typeMismatch("math", "expected number but got NaN to perform math")
	}
	fn, ok := mathOperations[op]
	if !ok {
		return 0, typeMismatch("math", "unknown operator %q", op)
	}
	cur, ok := data[key].(float64)
	if !ok {
		return 0, typeMismatch("math", "expected number but got %s to perform math", valueType(data, key))
	}
	res := fn(cur, amount)
	if math.IsNaN(res) || math.IsInf(res, 0) {
		data[key] = nil
	} else {
		data[key] = res
	}
	return res, nil
}

func pushValues(data map[string]any, key string, elements []any) error {
	arr, ok := data[key].([]any)
	if !ok {
		return typeMismatch("push", "expected an array to push data, got %s", valueType(data, key))
	}
	n, err := normalizeAll(elements)
	if err != nil {
		return err
	}
	data[key] = append(arr, n...)
	return nil
}

func pullValues(data map[string]any, key string, elements []any) error {
	arr, ok := data[key].([]any)
	if !ok {
		return typeMismatch("pull", "expected an array to pull data, got %s", valueType(data, key))
	}
	n, err := normalizeAll(elements)
	if err != nil {
		return err
	}
	out := make([]any, 0, len(arr))
	for _, v := range arr {
		if !slices.ContainsFunc(n, func(e any) bool { return Equal(v, e) }) {
			out = append(out, v)
		}
	}
	data[key] = out
	return nil
}

// valueType is like TypeOfValue but reports absent keys as undefined.
func valueType(data map[string]any, key string) Type {
	v, ok := data[key]
	if !ok {
		return TypeUndefined
	}
	return TypeOfValue(v)
}
