package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idea-analyzer/internal/shared/storage/object"
)

func TestPutOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()
	content := []byte("1. რეზიუმე\nline two\n")

	n, err := store.Put(ctx, "abc/idea_analysis.txt", "text/plain", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len(content)) {
		t.Fatalf("expected %d bytes written, got %d", len(content), n)
	}

	rc, err := store.Open(ctx, "abc/idea_analysis.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("round trip mismatch: %q", got)
	}

	want := filepath.Join(dir, "abc", "idea_analysis.txt")
	if store.Location("abc/idea_analysis.txt") != want {
		t.Fatalf("unexpected location %q", store.Location("abc/idea_analysis.txt"))
	}
}

func TestPutOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k/a.txt", "text/plain", strings.NewReader("first version")); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if _, err := store.Put(ctx, "k/a.txt", "text/plain", strings.NewReader("second")); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "k", "a.txt"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "k"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestPutRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Put(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x"))
	if !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
