package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBlob(t *testing.T) {
	impls := []struct {
		name string
		new  func(dir string) Blob
	}{
		{"File", func(dir string) Blob { return NewFile(filepath.Join(dir, "sub", "db.json")) }},
		{"Bolt", func(dir string) Blob { return NewBolt(filepath.Join(dir, "sub", "db.bolt"), "", "") }},
	}
	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			b := impl.new(t.TempDir())

			t.Run("missing", func(t *testing.T) {
				ok, err := b.Exists()
				if err != nil {
					t.Fatalf("Exists() error: %v", err)
				}
				if ok {
					t.Error("Exists() = true before any write")
				}
				if _, err := b.Read(); !errors.Is(err, ErrNotExist) {
					t.Errorf("Read() error = %v, want ErrNotExist", err)
				}
			})

			t.Run("write then read", func(t *testing.T) {
				if err := b.Write([]byte(`{"a":1}`)); err != nil {
					t.Fatalf("Write() error: %v", err)
				}
				ok, err := b.Exists()
				if err != nil || !ok {
					t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
				}
				got, err := b.Read()
				if err != nil {
					t.Fatalf("Read() error: %v", err)
				}
				if string(got) != `{"a":1}` {
					t.Errorf("Read() = %q, want %q", got, `{"a":1}`)
				}
			})

			t.Run("overwrite", func(t *testing.T) {
				if err := b.Write([]byte(`[]`)); err != nil {
					t.Fatalf("Write() error: %v", err)
				}
				got, err := b.Read()
				if err != nil {
					t.Fatalf("Read() error: %v", err)
				}
				if string(got) != `[]` {
					t.Errorf("Read() = %q, want %q", got, `[]`)
				}
			})
		})
	}
}

func TestBoltSeparateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.bolt")
	a := NewBolt(path, "b", "one")
	b := NewBolt(path, "b", "two")
	if err := a.Write([]byte("1")); err != nil {
		t.Fatal(err)
	}
	if ok, err := b.Exists(); err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false, nil", ok, err)
	}
	if err := b.Write([]byte("2")); err != nil {
		t.Fatal(err)
	}
	got, err := a.Read()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "1" {
		t.Errorf("Read() = %q, want %q", got, "1")
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher is registered asynchronously; keep writing until observed.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-changed:
			break loop
		case <-tick.C:
			if err := NewFile(path).Write([]byte(`{"a":1}`)); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change observed")
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error: %v", err)
	}
}
