package instantdb

import (
	"maps"
	"math/rand/v2"
	"slices"
)

// Entry is a key/value pair of a Database.
//
// Its JSON form {"ID": key, "data": value} is also accepted by Import.
type Entry struct {
	ID   string `json:"ID" jsonschema:"description=Key of the entry"`
	Data any    `json:"data" jsonschema:"description=Any JSON value"`
}

func toEntries(m map[string]any) []Entry {
	out := make([]Entry, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Entry{ID: k, Data: m[k]})
	}
	return out
}

func fromEntries(entries []Entry) (map[string]any, error) {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		v, err := normalize(e.Data)
		if err != nil {
			return nil, err
		}
		m[e.ID] = v
	}
	return m, nil
}

// randomEntry draws uniformly from entries.
func randomEntry(entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[rand.IntN(len(entries))], true
}

// randomEntries draws limit times with replacement.
func randomEntries(entries []Entry, limit int) []Entry {
	if len(entries) == 0 || limit <= 0 {
		return []Entry{}
	}
	out := make([]Entry, limit)
	for i := range out {
		out[i] = entries[rand.IntN(len(entries))]
	}
	return out
}
