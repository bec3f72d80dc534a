package instantdb

import (
	"iter"
	"log/slog"

	"github.com/maruel/instantdb/internal/blob"
)

// Document is an ordered list of records persisted as a single JSON array.
//
// Like Database, every operation reads the whole file and every mutation
// rewrites it. Use Record as T for untyped records.
type Document[T any] struct {
	blob blob.Blob
	opts options
	log  *slog.Logger
}

// OpenDocument returns a Document backed by path, creating it with [] if
// absent.
//
// An existing file is read once and must decode as a JSON array of T.
func OpenDocument[T any](path string, opts ...Option) (*Document[T], error) {
	if path == "" {
		path = DefaultPath
	}
	o := newOptions(opts)
	b := o.newBlob(path)
	d := &Document[T]{blob: b, opts: o, log: o.logger}
	created, err := initBlob(b, []byte("[]"), d.log)
	if err != nil {
		return nil, err
	}
	if !created {
		if _, err := d.Read(); err != nil {
			return nil, storageError("open", path, "failed to read the file as JSON at initial attempt", err)
		}
	}
	return d, nil
}

// Path returns the backing file.
func (d *Document[T]) Path() string {
	return d.blob.Path()
}

// Read returns the decoded records of the backing file.
func (d *Document[T]) Read() ([]T, error) {
	data, err := d.blob.Read()
	if err != nil {
		return nil, readError(d.Path(), err)
	}
	rows, err := DecodeList[T](data)
	if err != nil {
		return nil, readError(d.Path(), err)
	}
	d.log.Debug("Read document", "path", d.Path(), "bytes", len(data), "records", len(rows))
	return rows, nil
}

// Write replaces the records of the backing file.
func (d *Document[T]) Write(rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := Encode(rows)
	if err != nil {
		return err
	}
	if err := d.blob.Write(data); err != nil {
		return storageError("write", d.Path(), "failed to write document file", err)
	}
	d.log.Debug("Wrote document", "path", d.Path(), "bytes", len(data), "records", len(rows))
	return nil
}

// Size returns the number of records.
func (d *Document[T]) Size() (int, error) {
	rows, err := d.Read()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// All returns every record in order.
func (d *Document[T]) All() ([]T, error) {
	return d.Read()
}

// Iter returns an iterator over the records.
//
// The file is read when iteration starts, so the sequence can be ranged over
// again to observe later changes. A read failure is yielded once as the error.
func (d *Document[T]) Iter() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		rows, err := d.Read()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Insert appends records.
func (d *Document[T]) Insert(records ...T) error {
	rows, err := d.Read()
	if err != nil {
		return err
	}
	return d.Write(append(rows, records...))
}

// FindOne returns the first record matching f.
func (d *Document[T]) FindOne(f Filter[T]) (T, bool, error) {
	var zero T
	rows, err := d.Read()
	if err != nil {
		return zero, false, err
	}
	for _, row := range rows {
		if f.Match(row) {
			return row, true, nil
		}
	}
	return zero, false, nil
}

// FindMany returns every record matching f, in order.
func (d *Document[T]) FindMany(f Filter[T]) ([]T, error) {
	rows, err := d.Read()
	if err != nil {
		return nil, err
	}
	out := []T{}
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Exists reports whether a record matches f.
func (d *Document[T]) Exists(f Filter[T]) (bool, error) {
	_, ok, err := d.FindOne(f)
	return ok, err
}

// DeleteOne removes the first record matching f. See DeleteMode for what is
// removed. Nothing is written when no record matches.
func (d *Document[T]) DeleteOne(f Filter[T]) error {
	rows, err := d.Read()
	if err != nil {
		return err
	}
	rows, ok := deleteOne(rows, f, d.opts.deleteMode)
	if !ok {
		return nil
	}
	return d.Write(rows)
}

// DeleteMany removes every record matching f in a single pass. See
// DeleteMode for what is removed. Nothing is written when no record matches.
func (d *Document[T]) DeleteMany(f Filter[T]) error {
	rows, err := d.Read()
	if err != nil {
		return err
	}
	rows, ok := deleteMany(rows, f, d.opts.deleteMode)
	if !ok {
		return nil
	}
	return d.Write(rows)
}

// Clear removes every record.
func (d *Document[T]) Clear() error {
	return d.Write([]T{})
}
