package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBucket and DefaultKey locate the document in a bolt file when the
// caller does not specify them.
const (
	DefaultBucket = "instantdb"
	DefaultKey    = "document"
)

// Bolt is a Blob stored as a single value inside a bbolt database.
//
// The database file is opened and closed on every call so that nothing but
// the path is held between operations, like File.
type Bolt struct {
	path   string
	bucket []byte
	key    []byte
}

// NewBolt returns a Blob stored in bucket/key of the bolt file at path.
func NewBolt(path, bucket, key string) *Bolt {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if key == "" {
		key = DefaultKey
	}
	return &Bolt{path: path, bucket: []byte(bucket), key: []byte(key)}
}

// Path implements Blob.
func (b *Bolt) Path() string {
	return b.path
}

func (b *Bolt) open(readOnly bool) (*bolt.DB, error) {
	if !readOnly {
		if dir := filepath.Dir(b.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory for %s: %w", b.path, err)
			}
		}
	}
	db, err := bolt.Open(b.path, 0o600, &bolt.Options{Timeout: 5 * time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", b.path, err)
	}
	return db, nil
}

// Exists implements Blob.
func (b *Bolt) Exists() (bool, error) {
	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", b.path, err)
	}
	_, err := b.Read()
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Read implements Blob.
func (b *Bolt) Read() ([]byte, error) {
	if _, err := os.Stat(b.path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, ErrNotExist)
	}
	db, err := b.open(true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()
	var val []byte
	err = db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return ErrNotExist
		}
		v := bkt.Get(b.key)
		if v == nil {
			return ErrNotExist
		}
		val = make([]byte, len(v))
		copy(val, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return val, nil
}

// Write implements Blob.
func (b *Bolt) Write(data []byte) error {
	db, err := b.open(false)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()
	err = db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return bkt.Put(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	return nil
}
