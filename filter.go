package instantdb

import "slices"

// Record is the natural record type of an untyped Document.
type Record = map[string]any

// Filter selects records of a Document.
type Filter[T any] interface {
	Match(record T) bool
}

// Predicate is a Filter implemented by a function.
type Predicate[T any] func(record T) bool

// Match implements Filter.
func (p Predicate[T]) Match(record T) bool {
	return p(record)
}

// Pattern is a Filter matching records by field value.
//
// A record matches when at least one field of the pattern is present in the
// record with an equal value. Fields are compared on the record's JSON form,
// so struct records are matched by their JSON field names. An empty pattern
// matches nothing, and neither does a record that is not a JSON object.
type Pattern[T any] map[string]any

// Match implements Filter.
func (p Pattern[T]) Match(record T) bool {
	if len(p) == 0 {
		return false
	}
	fields, ok := recordFields(record)
	if !ok {
		return false
	}
	for k, want := range p {
		if got, ok := fields[k]; ok && Equal(got, want) {
			return true
		}
	}
	return false
}

func recordFields(record any) (map[string]any, bool) {
	if m, ok := record.(map[string]any); ok {
		return m, true
	}
	n, err := normalize(record)
	if err != nil {
		return nil, false
	}
	m, ok := n.(map[string]any)
	return m, ok
}

// deleteOne removes the first match according to mode.
func deleteOne[T any](rows []T, f Filter[T], mode DeleteMode) ([]T, bool) {
	i := slices.IndexFunc(rows, f.Match)
	if i < 0 {
		return rows, false
	}
	if mode == DeleteMatched {
		return slices.Delete(rows, i, i+1), true
	}
	return rows[i+1:], true
}

// deleteMany removes every match according to mode.
//
// In DeleteThrough mode each match drops itself and everything before it, so
// only the records after the last match survive.
func deleteMany[T any](rows []T, f Filter[T], mode DeleteMode) ([]T, bool) {
	if mode == DeleteMatched {
		n := len(rows)
		rows = slices.DeleteFunc(rows, f.Match)
		return rows, len(rows) != n
	}
	matched := false
	for {
		i := slices.IndexFunc(rows, f.Match)
		if i < 0 {
			return rows, matched
		}
		rows = rows[i+1:]
		matched = true
	}
}
