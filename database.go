package instantdb

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/maruel/instantdb/internal/blob"
)

// Database is a key/value store persisted as a single JSON object.
//
// Every operation reads the whole file and every mutation rewrites it. Nothing
// is cached between calls and no locking is done: callers sharing a file must
// serialize access themselves.
type Database struct {
	blob blob.Blob
	opts options
	log  *slog.Logger
}

// Open returns a Database backed by path, creating it with {} if absent.
//
// An existing file is read once and must decode as a JSON object.
func Open(path string, opts ...Option) (*Database, error) {
	return openWith(path, newOptions(opts))
}

func openWith(path string, o options) (*Database, error) {
	if path == "" {
		path = DefaultPath
	}
	b := o.newBlob(path)
	db := &Database{blob: b, opts: o, log: o.logger}
	created, err := initBlob(b, []byte("{}"), db.log)
	if err != nil {
		return nil, err
	}
	if !created {
		if _, err := db.Read(); err != nil {
			return nil, storageError("open", path, "failed to read the file as JSON at initial attempt", err)
		}
	}
	return db, nil
}

// Path returns the backing file.
func (db *Database) Path() string {
	return db.blob.Path()
}

// Read returns the decoded content of the backing file.
func (db *Database) Read() (map[string]any, error) {
	data, err := db.blob.Read()
	if err != nil {
		return nil, readError(db.Path(), err)
	}
	m, err := DecodeMapping(data)
	if err != nil {
		return nil, readError(db.Path(), err)
	}
	db.log.Debug("Read database", "path", db.Path(), "bytes", len(data))
	return m, nil
}

// Write replaces the content of the backing file with m.
func (db *Database) Write(m map[string]any) error {
	if m == nil {
		m = map[string]any{}
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := db.blob.Write(data); err != nil {
		return storageError("write", db.Path(), "failed to write database file", err)
	}
	db.log.Debug("Wrote database", "path", db.Path(), "bytes", len(data))
	return nil
}

// Keys returns all keys, sorted.
func (db *Database) Keys() ([]string, error) {
	m, err := db.Read()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(m)), nil
}

// Values returns all values, in key order.
func (db *Database) Values() ([]any, error) {
	m, err := db.Read()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out, nil
}

// Count returns the number of entries.
func (db *Database) Count() (int, error) {
	m, err := db.Read()
	if err != nil {
		return 0, err
	}
	return len(m), nil
}

// All returns all entries sorted by key.
func (db *Database) All() ([]Entry, error) {
	m, err := db.Read()
	if err != nil {
		return nil, err
	}
	return toEntries(m), nil
}

// Iter yields the entries sorted by key.
//
// The file is read when iteration starts, so the sequence can be ranged over
// again to observe later changes. A read failure is yielded once with an
// empty key and the error as the value.
func (db *Database) Iter() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		m, err := db.Read()
		if err != nil {
			yield("", err)
			return
		}
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

// Get returns the value stored at key and whether it is present.
func (db *Database) Get(key string) (any, bool, error) {
	m, err := db.Read()
	if err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set stores value at key.
func (db *Database) Set(key string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return err
	}
	m, err := db.Read()
	if err != nil {
		return err
	}
	m[key] = v
	return db.Write(m)
}

// Delete removes keys. Missing keys are ignored.
func (db *Database) Delete(keys ...string) error {
	m, err := db.Read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(m, k)
	}
	return db.Write(m)
}

// Exists reports whether key is present.
func (db *Database) Exists(key string) (bool, error) {
	m, err := db.Read()
	if err != nil {
		return false, err
	}
	_, ok := m[key]
	return ok, nil
}

// TypeOf returns the type of the value at key, TypeUndefined if absent.
func (db *Database) TypeOf(key string) (Type, error) {
	m, err := db.Read()
	if err != nil {
		return "", err
	}
	return valueType(m, key), nil
}

// Clear removes every entry.
func (db *Database) Clear() error {
	return db.Write(map[string]any{})
}

// Filter removes every entry for which fn returns true.
//
// fn sees the entries in key order along with their index in that order.
func (db *Database) Filter(fn func(value any, key string, index int) bool) error {
	entries, err := db.All()
	if err != nil {
		return err
	}
	return db.Write(filterEntries(entries, fn))
}

func filterEntries(entries []Entry, fn func(value any, key string, index int) bool) map[string]any {
	keep := make(map[string]any, len(entries))
	for i, e := range entries {
		if !fn(e.Data, e.ID, i) {
			keep[e.ID] = e.Data
		}
	}
	return keep
}

// Math applies op with amount to the number stored at key, stores the result
// and returns it.
//
// The current value must be a number; an absent key is an error.
func (db *Database) Math(key string, op Operator, amount float64) (float64, error) {
	m, err := db.Read()
	if err != nil {
		return 0, err
	}
	res, err := applyMath(m, key, op, amount)
	if err != nil {
		return 0, err
	}
	return res, db.Write(m)
}

// Add is Math with OpAdd.
func (db *Database) Add(key string, amount float64) (float64, error) {
	return db.Math(key, OpAdd, amount)
}

// Subtract is Math with OpSubtract.
func (db *Database) Subtract(key string, amount float64) (float64, error) {
	return db.Math(key, OpSubtract, amount)
}

// Push appends elements to the array stored at key.
func (db *Database) Push(key string, elements ...any) error {
	m, err := db.Read()
	if err != nil {
		return err
	}
	if err := pushValues(m, key, elements); err != nil {
		return err
	}
	return db.Write(m)
}

// Pull removes every element equal to one of elements from the array stored
// at key.
func (db *Database) Pull(key string, elements ...any) error {
	m, err := db.Read()
	if err != nil {
		return err
	}
	if err := pullValues(m, key, elements); err != nil {
		return err
	}
	return db.Write(m)
}

// Random returns one entry picked uniformly, or false if the database is
// empty.
func (db *Database) Random() (Entry, bool, error) {
	entries, err := db.All()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := randomEntry(entries)
	return e, ok, nil
}

// RandomN returns limit entries, each picked independently. The same entry
// may be returned more than once.
func (db *Database) RandomN(limit int) ([]Entry, error) {
	entries, err := db.All()
	if err != nil {
		return nil, err
	}
	return randomEntries(entries, limit), nil
}

// Import merges source into the database. Keys present in source overwrite
// existing ones.
//
// source is one of: map[string]any, []Entry, []any of {"ID", "data"} objects,
// *Database, or a string path opened with the same options as db.
func (db *Database) Import(source any) error {
	incoming, err := db.importSource(source)
	if err != nil {
		return err
	}
	m, err := db.Read()
	if err != nil {
		return err
	}
	maps.Copy(m, incoming)
	if err := db.Write(m); err != nil {
		return err
	}
	db.log.Debug("Imported entries", "path", db.Path(), "count", len(incoming))
	return nil
}

func (db *Database) importSource(source any) (map[string]any, error) {
	switch s := source.(type) {
	case string:
		other, err := openWith(s, db.opts)
		if err != nil {
			return nil, err
		}
		return other.Read()
	case *Database:
		if s == nil {
			return nil, formatError("import", "nil database", nil)
		}
		return s.Read()
	case map[string]any:
		out := make(map[string]any, len(s))
		for k, v := range s {
			n, err := normalize(v)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []Entry:
		return fromEntries(s)
	case []any:
		entries := make([]Entry, 0, len(s))
		for i, item := range s {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, formatError("import", fmt.Sprintf("item %d is not an entry object", i), nil)
			}
			id, ok := obj["ID"].(string)
			if !ok {
				return nil, formatError("import", fmt.Sprintf("item %d has no string ID", i), nil)
			}
			entries = append(entries, Entry{ID: id, Data: obj["data"]})
		}
		return fromEntries(entries)
	default:
		return nil, formatError("import", "given data type to import is not an object", nil)
	}
}

// Export imports the whole content of db into target and returns it.
//
// target is a *Database or a path opened (and created if needed) with the
// same options as db.
func (db *Database) Export(target any) (*Database, error) {
	var dst *Database
	switch t := target.(type) {
	case string:
		var err error
		if dst, err = openWith(t, db.opts); err != nil {
			return nil, err
		}
	case *Database:
		if t == nil {
			return nil, formatError("export", "nil database", nil)
		}
		dst = t
	default:
		return nil, formatError("export", "export target must be a path or a *Database", nil)
	}
	m, err := db.Read()
	if err != nil {
		return nil, err
	}
	if err := dst.Import(m); err != nil {
		return nil, err
	}
	return dst, nil
}
