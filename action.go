package instantdb

import (
	"iter"
	"maps"
	"slices"

	"github.com/andreyvit/diff"
	"github.com/maruel/ksid"
)

// Action stages edits to a Database in memory.
//
// Nothing is written until Commit or Rollback. The snapshot taken when the
// Action was created is kept untouched so Rollback can restore it even after
// a Commit. An Action is not safe for concurrent use.
type Action struct {
	db       *Database
	id       ksid.ID
	data     map[string]any
	original map[string]any
}

// Action snapshots the current content of db.
//
// Example:
//
//	a, err := db.Action()
//	a.Set("foo", "bar")
//	a.Delete("baz")
//	_, err = a.Commit()
func (db *Database) Action() (*Action, error) {
	m, err := db.Read()
	if err != nil {
		return nil, err
	}
	a := &Action{db: db, id: ksid.NewID(), data: m, original: cloneMapping(m)}
	db.log.Debug("Started action", "action", a.id.String(), "path", db.Path(), "entries", len(m))
	return a, nil
}

// ID identifies the Action in logs.
func (a *Action) ID() string {
	return a.id.String()
}

// Database returns the Database the Action was created from.
func (a *Action) Database() *Database {
	return a.db
}

// Keys returns all staged keys, sorted.
func (a *Action) Keys() []string {
	return slices.Sorted(maps.Keys(a.data))
}

// Values returns all staged values, in key order.
func (a *Action) Values() []any {
	out := make([]any, 0, len(a.data))
	for _, k := range a.Keys() {
		out = append(out, cloneValue(a.data[k]))
	}
	return out
}

// Count returns the number of staged entries.
func (a *Action) Count() int {
	return len(a.data)
}

// Read returns a copy of the staged content.
func (a *Action) Read() map[string]any {
	return cloneMapping(a.data)
}

// All returns the staged entries sorted by key.
func (a *Action) All() []Entry {
	return toEntries(cloneMapping(a.data))
}

// Iter yields copies of the staged entries sorted by key.
func (a *Action) Iter() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range a.Keys() {
			if !yield(k, cloneValue(a.data[k])) {
				return
			}
		}
	}
}

// Get returns a copy of the staged value at key and whether it is present.
func (a *Action) Get(key string) (any, bool) {
	v, ok := a.data[key]
	return cloneValue(v), ok
}

// Set stages value at key.
func (a *Action) Set(key string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return err
	}
	a.data[key] = v
	return nil
}

// Delete stages the removal of keys.
func (a *Action) Delete(keys ...string) {
	for _, k := range keys {
		delete(a.data, k)
	}
}

// Exists reports whether key is staged.
func (a *Action) Exists(key string) bool {
	_, ok := a.data[key]
	return ok
}

// TypeOf returns the type of the staged value at key.
func (a *Action) TypeOf(key string) Type {
	return valueType(a.data, key)
}

// Filter stages the removal of every entry for which fn returns true.
func (a *Action) Filter(fn func(value any, key string, index int) bool) {
	a.data = filterEntries(toEntries(a.data), fn)
}

// Math is the staged equivalent of Database.Math.
func (a *Action) Math(key string, op Operator, amount float64) (float64, error) {
	return applyMath(a.data, key, op, amount)
}

// Add is Math with OpAdd.
func (a *Action) Add(key string, amount float64) (float64, error) {
	return a.Math(key, OpAdd, amount)
}

// Subtract is Math with OpSubtract.
func (a *Action) Subtract(key string, amount float64) (float64, error) {
	return a.Math(key, OpSubtract, amount)
}

// Push is the staged equivalent of Database.Push.
func (a *Action) Push(key string, elements ...any) error {
	return pushValues(a.data, key, elements)
}

// Pull is the staged equivalent of Database.Pull.
func (a *Action) Pull(key string, elements ...any) error {
	return pullValues(a.data, key, elements)
}

// Commit writes the staged content to the database.
func (a *Action) Commit() (*Database, error) {
	if err := a.db.Write(a.data); err != nil {
		return nil, err
	}
	a.db.log.Info("Committed action", "action", a.id.String(), "path", a.db.Path(), "entries", len(a.data))
	return a.db, nil
}

// Rollback writes back the content the database had when the Action was
// created, undoing any earlier Commit. The staged content is left as is.
func (a *Action) Rollback() (*Database, error) {
	if err := a.db.Write(a.original); err != nil {
		return nil, err
	}
	a.db.log.Info("Rolled back action", "action", a.id.String(), "path", a.db.Path(), "entries", len(a.original))
	return a.db, nil
}

// Diff returns a line diff between the snapshot and the staged content as
// indented JSON. It is empty when nothing changed.
func (a *Action) Diff() (string, error) {
	before, err := encodeIndent(a.original)
	if err != nil {
		return "", err
	}
	after, err := encodeIndent(a.data)
	if err != nil {
		return "", err
	}
	if before == after {
		return "", nil
	}
	return diff.LineDiff(before, after), nil
}
