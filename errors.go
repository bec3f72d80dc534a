package instantdb

import (
	"errors"
	"fmt"
)

// Kind classifies an [Error].
type Kind string

const (
	// KindStorage is returned when the backing file could not be read or written.
	KindStorage Kind = "STORAGE_ERROR"
	// KindFormat is returned when content is not valid JSON, does not have the
	// expected top-level shape, or an import source is not an accepted shape.
	KindFormat Kind = "FORMAT_ERROR"
	// KindTypeMismatch is returned when math, push or pull is attempted against a
	// value of the wrong type, or with a non-numeric amount.
	KindTypeMismatch Kind = "TYPE_MISMATCH"
)

// Sentinel errors to be used with errors.Is.
var (
	// ErrStorage matches every error of kind KindStorage.
	ErrStorage = &Error{Kind: KindStorage}
	// ErrFormat matches every error of kind KindFormat.
	ErrFormat = &Error{Kind: KindFormat}
	// ErrTypeMismatch matches every error of kind KindTypeMismatch.
	ErrTypeMismatch = &Error{Kind: KindTypeMismatch}
)

// Error is the concrete error type returned by this package.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "math" or "read".
	Op string
	// Path is the backing file, if any.
	Path string
	// Msg is a human readable description.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
//
// A format error raised while reading the backing file also matches
// ErrStorage; see readError.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Msg != "" || t.Err != nil || t.Path != "" {
		return false
	}
	return t.Kind == e.Kind
}

func storageError(op, path, msg string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Path: path, Msg: msg, Err: err}
}

func formatError(op, msg string, err error) error {
	return &Error{Kind: KindFormat, Op: op, Msg: msg, Err: err}
}

func typeMismatch(op, format string, args ...any) error {
	return &Error{Kind: KindTypeMismatch, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// readError wraps a failure to load the backing file. Parse failures keep
// their format kind but are wrapped in a storage error so both sentinels match.
func readError(path string, err error) error {
	return storageError("read", path, "failed to read database file", err)
}

// IsKind reports whether err is an [Error] of kind k anywhere in its chain.
func IsKind(err error, k Kind) bool {
	return errors.Is(err, &Error{Kind: k})
}
