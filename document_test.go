package instantdb

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setupDocument[T any](t *testing.T, opts ...Option) (*Document[T], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	d, err := OpenDocument[T](path, opts...)
	if err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}
	return d, path
}

func mustInsert[T any](t *testing.T, d *Document[T], records ...T) {
	t.Helper()
	if err := d.Insert(records...); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
}

func mustAll[T any](t *testing.T, d *Document[T]) []T {
	t.Helper()
	rows, err := d.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	return rows
}

// ids builds records {"id": n} for each n.
func ids(ns ...float64) []Record {
	out := make([]Record, len(ns))
	for i, n := range ns {
		out[i] = Record{"id": n}
	}
	return out
}

func TestDocument(t *testing.T) {
	t.Run("Open", func(t *testing.T) {
		_, path := setupDocument[Record](t)
		if got := readFile(t, path); got != "[]" {
			t.Errorf("new file = %q, want []", got)
		}
		obj := filepath.Join(t.TempDir(), "obj.json")
		if err := os.WriteFile(obj, []byte(`{"a":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenDocument[Record](obj); !errors.Is(err, ErrStorage) || !errors.Is(err, ErrFormat) {
			t.Errorf("OpenDocument(object) error = %v, want ErrStorage wrapping ErrFormat", err)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		d, path := setupDocument[Record](t)
		mustInsert(t, d, Record{"a": 1.0})
		mustInsert(t, d, Record{"a": 2.0}, Record{"a": 3.0})
		if got := readFile(t, path); got != `[{"a":1},{"a":2},{"a":3}]` {
			t.Errorf("file = %s", got)
		}
		if n, err := d.Size(); err != nil || n != 3 {
			t.Errorf("Size() = %d, %v; want 3", n, err)
		}
	})

	t.Run("Iter", func(t *testing.T) {
		d, path := setupDocument[Record](t)
		mustInsert(t, d, ids(1, 2, 3)...)
		var got []Record
		for r, err := range d.Iter() {
			if err != nil {
				t.Fatalf("Iter failed: %v", err)
			}
			got = append(got, r)
			if len(got) == 2 {
				break
			}
		}
		if !reflect.DeepEqual(got, ids(1, 2)) {
			t.Errorf("Iter() = %v", got)
		}
		seq := d.Iter()
		mustInsert(t, d, ids(4)...)
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatal(err)
			}
			n++
		}
		if n != 4 {
			t.Errorf("second iteration saw %d records, want 4", n)
		}
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}
		errs := 0
		for _, err := range seq {
			if !errors.Is(err, ErrStorage) {
				t.Errorf("Iter() error = %v, want ErrStorage", err)
			}
			errs++
		}
		if errs != 1 {
			t.Errorf("Iter() yielded %d errors, want 1", errs)
		}
	})

	t.Run("Find", func(t *testing.T) {
		d, _ := setupDocument[Record](t)
		mustInsert(t, d, Record{"a": 1.0, "b": 2.0}, Record{"a": 3.0, "b": 4.0})
		tests := []struct {
			name   string
			filter Filter[Record]
			want   Record
			found  bool
		}{
			{"single field", Pattern[Record]{"a": 3}, Record{"a": 3.0, "b": 4.0}, true},
			{"any field", Pattern[Record]{"a": 1, "b": 99}, Record{"a": 1.0, "b": 2.0}, true},
			{"second field", Pattern[Record]{"a": 99, "b": 4}, Record{"a": 3.0, "b": 4.0}, true},
			{"missing field", Pattern[Record]{"c": nil}, nil, false},
			{"empty pattern", Pattern[Record]{}, nil, false},
			{"predicate", Predicate[Record](func(r Record) bool { return r["b"] == 4.0 }), Record{"a": 3.0, "b": 4.0}, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, found, err := d.FindOne(tt.filter)
				if err != nil {
					t.Fatalf("FindOne failed: %v", err)
				}
				if found != tt.found || !reflect.DeepEqual(got, tt.want) {
					t.Errorf("FindOne() = %v, %v; want %v, %v", got, found, tt.want, tt.found)
				}
				if ok, err := d.Exists(tt.filter); err != nil || ok != tt.found {
					t.Errorf("Exists() = %v, %v; want %v", ok, err, tt.found)
				}
			})
		}
		t.Run("FindMany", func(t *testing.T) {
			got, err := d.FindMany(Pattern[Record]{"a": 1, "b": 4})
			if err != nil {
				t.Fatalf("FindMany failed: %v", err)
			}
			if len(got) != 2 {
				t.Errorf("FindMany() = %v, want both records", got)
			}
			got, err = d.FindMany(Pattern[Record]{"a": 42})
			if err != nil || got == nil || len(got) != 0 {
				t.Errorf("FindMany() = %#v, %v; want empty non-nil", got, err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		even := Predicate[Record](func(r Record) bool {
			n, _ := r["id"].(float64)
			return int(n)%2 == 0
		})
		tests := []struct {
			name string
			mode DeleteMode
			many bool
			want []Record
		}{
			{"one through", DeleteThrough, false, ids(3, 4, 5)},
			{"many through", DeleteThrough, true, ids(5)},
			{"one matched", DeleteMatched, false, ids(1, 3, 4, 5)},
			{"many matched", DeleteMatched, true, ids(1, 3, 5)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d, _ := setupDocument[Record](t, WithDeleteMode(tt.mode))
				mustInsert(t, d, ids(1, 2, 3, 4, 5)...)
				var err error
				if tt.many {
					err = d.DeleteMany(even)
				} else {
					err = d.DeleteOne(even)
				}
				if err != nil {
					t.Fatalf("delete failed: %v", err)
				}
				if got := mustAll(t, d); !reflect.DeepEqual(got, tt.want) {
					t.Errorf("after delete = %v, want %v", got, tt.want)
				}
			})
		}
		t.Run("no match", func(t *testing.T) {
			d, path := setupDocument[Record](t)
			mustInsert(t, d, ids(1, 3)...)
			if err := os.Chmod(path, 0o444); err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { _ = os.Chmod(path, 0o644) })
			// Nothing is written so the read-only file is not an error.
			if err := d.DeleteOne(even); err != nil {
				t.Errorf("DeleteOne() error = %v", err)
			}
			if err := d.DeleteMany(even); err != nil {
				t.Errorf("DeleteMany() error = %v", err)
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		d, path := setupDocument[Record](t)
		mustInsert(t, d, ids(1)...)
		if err := d.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if got := readFile(t, path); got != "[]" {
			t.Errorf("file = %q, want []", got)
		}
	})

	t.Run("Typed", func(t *testing.T) {
		type user struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}
		d, path := setupDocument[user](t)
		mustInsert(t, d, user{"ann", 30}, user{"bob", 40})
		if got := readFile(t, path); got != `[{"name":"ann","age":30},{"name":"bob","age":40}]` {
			t.Errorf("file = %s", got)
		}
		got, ok, err := d.FindOne(Pattern[user]{"age": 40})
		if err != nil || !ok || got.Name != "bob" {
			t.Errorf("FindOne() = %v, %v, %v", got, ok, err)
		}
		if err := d.DeleteOne(Predicate[user](func(u user) bool { return u.Name == "ann" })); err != nil {
			t.Fatal(err)
		}
		if got := mustAll(t, d); !reflect.DeepEqual(got, []user{{"bob", 40}}) {
			t.Errorf("All() = %v", got)
		}
		d2, err := OpenDocument[user](path)
		if err != nil {
			t.Fatalf("OpenDocument failed: %v", err)
		}
		if n, err := d2.Size(); err != nil || n != 1 {
			t.Errorf("Size() = %d, %v; want 1", n, err)
		}
	})

	t.Run("Scalars", func(t *testing.T) {
		d, _ := setupDocument[any](t)
		mustInsert[any](t, d, 1.0, "x", Record{"x": 1.0})
		got, ok, err := d.FindOne(Pattern[any]{"x": 1})
		if err != nil || !ok || !reflect.DeepEqual(got, map[string]any{"x": 1.0}) {
			t.Errorf("FindOne() = %v, %v, %v", got, ok, err)
		}
	})
}
