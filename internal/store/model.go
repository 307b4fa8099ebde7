package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/versync/internal/component"
)

// VersionRef binds a version label to a snapshot hash.
type VersionRef struct {
	Label string `yaml:"label"`
	Hash  string `yaml:"hash"`
}

// Model is the recorded history of one component. Versions are kept in the
// order they were recorded.
type Model struct {
	Name      string       `yaml:"name"`
	Namespace string       `yaml:"namespace,omitempty"`
	Versions  []VersionRef `yaml:"versions"`
}

// HasVersion reports whether label was recorded.
func (m *Model) HasVersion(label string) bool {
	_, ok := m.Ref(label)
	return ok
}

// Ref returns the reference recorded under label.
func (m *Model) Ref(label string) (VersionRef, bool) {
	for _, v := range m.Versions {
		if v.Label == label {
			return v, true
		}
	}
	return VersionRef{}, false
}

// Latest returns the highest recorded label. Labels are compared as semantic
// versions when all of them parse; otherwise the last recorded label wins.
func (m *Model) Latest() string {
	if len(m.Versions) == 0 {
		return ""
	}

	var best *version.Version
	bestLabel := ""
	for _, ref := range m.Versions {
		v, err := version.NewVersion(ref.Label)
		if err != nil {
			return m.Versions[len(m.Versions)-1].Label
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestLabel = ref.Label
		}
	}
	return bestLabel
}

// Model loads the history of id. It returns false when the component has
// never been recorded.
func (s *Store) Model(id component.ID) (*Model, bool, error) {
	path := s.modelPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading history of %s: %w", id.WithoutVersion(), err)
	}

	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("parsing history of %s: %w", id.WithoutVersion(), err)
	}
	return &m, true, nil
}

// SaveModel writes m atomically.
func (s *Store) SaveModel(m *Model) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	id := component.ID{Name: m.Name, Namespace: m.Namespace}
	if err := writeAtomic(s.modelPath(id), data); err != nil {
		return fmt.Errorf("writing history of %s: %w", id.WithoutVersion(), err)
	}
	return nil
}

// Record stores snap and appends it to the history of id under id.Version.
// Recording the same content under an existing label is a no-op.
func (s *Store) Record(ctx context.Context, id component.ID, snap *component.Snapshot) (string, error) {
	if id.Version == "" {
		return "", fmt.Errorf("recording %s: version label is required", id)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	hash, err := s.PutSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("recording %s: %w", id, err)
	}

	m, found, err := s.Model(id)
	if err != nil {
		return "", err
	}
	if !found {
		m = &Model{Name: id.Name, Namespace: id.Namespace}
	}

	if ref, ok := m.Ref(id.Version); ok {
		if ref.Hash == hash {
			return hash, nil
		}
		return "", fmt.Errorf("component %s already has version %s", id.WithoutVersion(), id.Version)
	}

	m.Versions = append(m.Versions, VersionRef{Label: id.Version, Hash: hash})
	if err := s.SaveModel(m); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *Store) modelPath(id component.ID) string {
	parts := []string{s.dir, "components"}
	if id.Namespace != "" {
		parts = append(parts, filepath.FromSlash(id.Namespace))
	}
	parts = append(parts, id.Name+".yaml")
	return filepath.Join(parts...)
}
