// Package store is the local content-addressed object store. It holds file
// blobs, snapshot manifests and the version history of every component.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirName is the store location relative to the project root.
const DefaultDirName = ".versync/store"

// Store provides content-addressed object storage plus component history.
// Objects are stored by their SHA256 hash and verified on retrieval.
type Store struct {
	dir string
}

// New opens a Store at dir, creating its layout if needed.
func New(dir string) (*Store, error) {
	for _, sub := range []string{"objects", "components"} {
		p := filepath.Join(dir, sub)
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", p, err)
		}
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the store directory for a project root.
func DefaultDir(projectRoot string) string {
	return filepath.Join(projectRoot, DefaultDirName)
}

// GetBlob retrieves an object by hash. A missing object returns false.
// A corrupt object is removed and reported missing.
func (s *Store) GetBlob(hash string) ([]byte, bool, error) {
	path := s.objectPath(hash)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading object %s: %w", hash, err)
	}

	if ComputeHash(data) != hash {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data, true, nil
}

// PutBlob stores content and returns its hash. Existing objects are not rewritten.
func (s *Store) PutBlob(content []byte) (string, error) {
	hash := ComputeHash(content)
	path := s.objectPath(hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := writeAtomic(path, content); err != nil {
		return "", fmt.Errorf("writing object %s: %w", hash, err)
	}
	return hash, nil
}

// HasBlob checks if an object exists without reading it.
func (s *Store) HasBlob(hash string) bool {
	_, err := os.Stat(s.objectPath(hash))
	return err == nil
}

// Size returns the total size of the store in bytes.
func (s *Store) Size() (int64, error) {
	var total int64
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.dir
}

func (s *Store) objectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.dir, "objects", hash)
	}
	return filepath.Join(s.dir, "objects", hash[:2], hash)
}

// writeAtomic writes content through a temp file in the target directory and
// renames it into place.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// ComputeHash returns the hex SHA256 of content.
func ComputeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
