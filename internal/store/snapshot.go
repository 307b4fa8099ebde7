package store

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/versync/internal/component"
)

// ErrObjectNotFound is returned when a referenced object is missing from the store.
var ErrObjectNotFound = errors.New("object not found")

type manifest struct {
	SharedDir    string          `yaml:"shared_dir,omitempty"`
	Files        []manifestEntry `yaml:"files"`
	Artifacts    []manifestEntry `yaml:"artifacts,omitempty"`
	Dependencies []string        `yaml:"dependencies,omitempty"`
}

type manifestEntry struct {
	Path string `yaml:"path"`
	Blob string `yaml:"blob"`
}

// PutSnapshot stores every file of snap and its manifest. It returns the
// snapshot hash, which is the hash of the manifest object.
func (s *Store) PutSnapshot(snap *component.Snapshot) (string, error) {
	m := manifest{SharedDir: snap.SharedDir}

	var err error
	if m.Files, err = s.putEntries(snap.Files); err != nil {
		return "", err
	}
	if m.Artifacts, err = s.putEntries(snap.Artifacts); err != nil {
		return "", err
	}
	for _, dep := range snap.Dependencies {
		m.Dependencies = append(m.Dependencies, dep.String())
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot manifest: %w", err)
	}
	return s.PutBlob(data)
}

func (s *Store) putEntries(files []component.File) ([]manifestEntry, error) {
	entries := make([]manifestEntry, 0, len(files))
	for _, f := range files {
		hash, err := s.PutBlob(f.Content)
		if err != nil {
			return nil, fmt.Errorf("storing %s: %w", f.Path, err)
		}
		entries = append(entries, manifestEntry{Path: f.Path, Blob: hash})
	}
	return entries, nil
}

// GetSnapshot loads the snapshot stored under hash. Every call returns a new
// value; callers never share file contents with each other.
func (s *Store) GetSnapshot(ctx context.Context, hash string) (*component.Snapshot, error) {
	data, found, err := s.GetBlob(hash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("snapshot %s: %w", hash, ErrObjectNotFound)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing snapshot manifest %s: %w", hash, err)
	}

	snap := &component.Snapshot{Hash: hash, SharedDir: m.SharedDir}
	if snap.Files, err = s.loadEntries(ctx, m.Files); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", hash, err)
	}
	if snap.Artifacts, err = s.loadEntries(ctx, m.Artifacts); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", hash, err)
	}
	for _, d := range m.Dependencies {
		id, err := component.ParseID(d)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: dependency: %w", hash, err)
		}
		snap.Dependencies = append(snap.Dependencies, id)
	}
	return snap, nil
}

func (s *Store) loadEntries(ctx context.Context, entries []manifestEntry) ([]component.File, error) {
	files := make([]component.File, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, found, err := s.GetBlob(e.Blob)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("file %s (%s): %w", e.Path, e.Blob, ErrObjectNotFound)
		}
		files = append(files, component.File{Path: e.Path, Content: content})
	}
	return files, nil
}
