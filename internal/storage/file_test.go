package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	s, err := NewFileStorage(ctx, FileConfig{Directory: root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("PutGet", func(t *testing.T) {
		path, err := s.Put(ctx, "Example/Version1/Layer Comp 1.png", []byte("data"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(root, "Example", "Version1", "Layer Comp 1.png"); path != want {
			t.Errorf("Expected path %s, got %s", want, path)
		}

		byKey, err := s.Get(ctx, "Example/Version1/Layer Comp 1.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		byPath, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(byKey, byPath); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing.png"); err == nil {
			t.Errorf("Expected error for missing file")
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(root, "Example", "Version2"), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}

		entries, err := s.List(ctx, "Example")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

		want := []Entry{{Name: "Version1", Dir: true}, {Name: "Version2", Dir: true}}
		if diff := cmp.Diff(want, entries); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("ListMissing", func(t *testing.T) {
		if _, err := s.List(ctx, "Nowhere"); err == nil {
			t.Errorf("Expected error for missing directory")
		}
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	if _, err := New(ctx, Config{Directory: t.TempDir()}); err != nil {
		t.Errorf("Expected file storage by default, got %v", err)
	}
	if _, err := New(ctx, Config{Kind: "s3"}); err == nil {
		t.Errorf("Expected error for s3 without bucket")
	}
	if _, err := New(ctx, Config{Kind: "ftp"}); err == nil {
		t.Errorf("Expected error for unknown kind")
	}
}
