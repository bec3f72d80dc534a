// Package blob persists a single opaque document.
//
// A [Blob] is read and written as a whole. Nothing is cached between calls:
// every Read goes back to the underlying storage.
package blob

import "errors"

// ErrNotExist is returned by Read when the blob has never been written.
var ErrNotExist = errors.New("blob does not exist")

// Blob stores one document.
type Blob interface {
	// Path returns the on-disk location, used for logging and watching.
	Path() string
	// Exists reports whether the blob has been written.
	Exists() (bool, error)
	// Read returns the whole content.
	Read() ([]byte, error)
	// Write replaces the whole content.
	Write(data []byte) error
}
