package instantdb

import (
	"context"

	"github.com/maruel/instantdb/internal/blob"
)

// Watch calls fn each time the backing file changes on disk, including
// changes made through db itself. It blocks until ctx is done.
func (db *Database) Watch(ctx context.Context, fn func()) error {
	if err := blob.Watch(ctx, db.Path(), fn); err != nil {
		return storageError("watch", db.Path(), "failed to watch database file", err)
	}
	return nil
}

// Watch calls fn each time the backing file changes on disk. It blocks until
// ctx is done.
func (d *Document[T]) Watch(ctx context.Context, fn func()) error {
	if err := blob.Watch(ctx, d.Path(), fn); err != nil {
		return storageError("watch", d.Path(), "failed to watch document file", err)
	}
	return nil
}
