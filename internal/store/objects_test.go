package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutBlobAndGetBlob(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hash, err := s.PutBlob([]byte("hello world"))
	if err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	if hash != ComputeHash([]byte("hello world")) {
		t.Errorf("hash = %s", hash)
	}

	got, found, err := s.GetBlob(hash)
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if !found {
		t.Fatal("expected object")
	}
	if string(got) != "hello world" {
		t.Errorf("got %q", string(got))
	}
}

func TestGetBlobMiss(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, found, err := s.GetBlob("nonexistent_hash")
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestPutBlobIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	h1, err := s.PutBlob([]byte("idempotent"))
	if err != nil {
		t.Fatalf("first PutBlob: %v", err)
	}
	h2, err := s.PutBlob([]byte("idempotent"))
	if err != nil {
		t.Fatalf("second PutBlob: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hashes differ: %s vs %s", h1, h2)
	}
}

func TestCorruptObjectSelfHeals(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	hash, err := s.PutBlob([]byte("original content"))
	if err != nil {
		t.Fatal(err)
	}

	objPath := s.objectPath(hash)
	if writeErr := os.WriteFile(objPath, []byte("corrupted"), 0644); writeErr != nil {
		t.Fatal(writeErr)
	}

	_, found, err := s.GetBlob(hash)
	if err != nil {
		t.Fatalf("GetBlob should not error on corruption: %v", err)
	}
	if found {
		t.Fatal("expected miss after corruption")
	}
	if _, statErr := os.Stat(objPath); !os.IsNotExist(statErr) {
		t.Error("corrupt object should be removed")
	}
}

func TestHasBlob(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	hash := ComputeHash([]byte("exists"))
	if s.HasBlob(hash) {
		t.Fatal("expected HasBlob=false before PutBlob")
	}
	if _, putErr := s.PutBlob([]byte("exists")); putErr != nil {
		t.Fatal(putErr)
	}
	if !s.HasBlob(hash) {
		t.Fatal("expected HasBlob=true after PutBlob")
	}
}

func TestSize(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	size, err := s.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Errorf("expected 0 for empty store, got %d", size)
	}

	if _, putErr := s.PutBlob([]byte("some content for size test")); putErr != nil {
		t.Fatal(putErr)
	}
	size, err = s.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
}

func TestObjectPathLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := s.objectPath("abcdef1234567890"), filepath.Join(dir, "objects", "ab", "abcdef1234567890"); got != want {
		t.Errorf("objectPath = %q, want %q", got, want)
	}
	if got, want := s.objectPath("a"), filepath.Join(dir, "objects", "a"); got != want {
		t.Errorf("objectPath(short) = %q, want %q", got, want)
	}
	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}
}

func TestDefaultDir(t *testing.T) {
	got := DefaultDir("/project")
	if got != filepath.Join("/project", ".versync", "store") {
		t.Errorf("DefaultDir = %q", got)
	}
}
