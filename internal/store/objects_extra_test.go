package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetBlobReadError(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// A directory where the object file should be causes a read error.
	hash := "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	if mkdirErr := os.MkdirAll(s.objectPath(hash), 0755); mkdirErr != nil {
		t.Fatal(mkdirErr)
	}

	if _, _, err = s.GetBlob(hash); err == nil {
		t.Fatal("expected error when reading a directory as a file")
	}
}

func TestNewCreatesDirError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("test unreliable as root")
	}

	dir := t.TempDir()
	readOnly := filepath.Join(dir, "readonly")
	if err := os.MkdirAll(readOnly, 0555); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Chmod(readOnly, 0755)
	}()

	if _, err := New(filepath.Join(readOnly, "nested", "store")); err == nil {
		t.Fatal("expected error creating store in read-only dir")
	}
}

func TestSizeWalkError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	_ = os.RemoveAll(dir)

	if _, err = s.Size(); err == nil {
		t.Fatal("expected error when store dir is removed")
	}
}

func TestComputeHash(t *testing.T) {
	if ComputeHash([]byte("test")) != ComputeHash([]byte("test")) {
		t.Error("same content should produce same hash")
	}
	if ComputeHash([]byte("test")) == ComputeHash([]byte("different")) {
		t.Error("different content should produce different hashes")
	}
}
