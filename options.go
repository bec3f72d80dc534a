package instantdb

import (
	"log/slog"

	"github.com/maruel/instantdb/internal/blob"
)

// DefaultPath is the file used when an empty path is given to Open or
// OpenDocument.
const DefaultPath = "database.json"

// DeleteMode selects how Document.DeleteOne and Document.DeleteMany remove
// matching records.
type DeleteMode int

const (
	// DeleteThrough removes the matching record and every record before it.
	// It is the default for compatibility with existing callers.
	DeleteThrough DeleteMode = iota
	// DeleteMatched removes only the matching records.
	DeleteMatched
)

func (m DeleteMode) String() string {
	switch m {
	case DeleteThrough:
		return "through"
	case DeleteMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// ParseDeleteMode parses the String form of a DeleteMode.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch s {
	case "through", "":
		return DeleteThrough, nil
	case "matched":
		return DeleteMatched, nil
	default:
		return 0, formatError("options", "unknown delete mode "+s, nil)
	}
}

// Option configures a Database or a Document.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	deleteMode DeleteMode
	useBolt    bool
	bucket     string
	key        string
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDeleteMode sets how Document deletions behave. Defaults to DeleteThrough.
func WithDeleteMode(m DeleteMode) Option {
	return func(o *options) {
		o.deleteMode = m
	}
}

// WithBolt stores the JSON document as a single value in a bbolt database at
// the given path instead of a plain file. Empty bucket or key use defaults.
func WithBolt(bucket, key string) Option {
	return func(o *options) {
		o.useBolt = true
		o.bucket = bucket
		o.key = key
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func (o *options) newBlob(path string) blob.Blob {
	if o.useBolt {
		return blob.NewBolt(path, o.bucket, o.key)
	}
	return blob.NewFile(path)
}

// initBlob seeds b with seed if it does not exist yet. It reports whether it
// did.
func initBlob(b blob.Blob, seed []byte, log *slog.Logger) (bool, error) {
	ok, err := b.Exists()
	if err != nil {
		return false, storageError("open", b.Path(), "failed to check database file", err)
	}
	if ok {
		return false, nil
	}
	if err := b.Write(seed); err != nil {
		return false, storageError("open", b.Path(), "failed to create database file", err)
	}
	log.Debug("Created database file", "path", b.Path())
	return true, nil
}
