package lock

import (
	"github.com/bianoble/versync/internal/component"
)

// DefaultFileName is the lockfile name at the project root.
const DefaultFileName = "versync.lock"

// Lockfile represents the versync.lock workspace map. It records which
// version of every tracked component is checked out and where it lives.
type Lockfile struct {
	Components []LockedComponent `yaml:"components"`
	Version    int               `yaml:"version"`
}

// LockedComponent records one tracked component.
type LockedComponent struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
	Version   string `yaml:"version,omitempty"`
	Origin    string `yaml:"origin,omitempty"`

	// RootDir and ConfigDir are relative to the project root.
	RootDir   string `yaml:"root_dir,omitempty"`
	ConfigDir string `yaml:"config_dir,omitempty"`
}

// ID returns the component id bound to the checked-out version.
func (c LockedComponent) ID() component.ID {
	return component.ID{Name: c.Name, Namespace: c.Namespace, Version: c.Version}
}

// Placement returns where the component lives, or nil when the entry lacks
// the data to locate it.
func (c LockedComponent) Placement() *component.Placement {
	origin := component.Origin(c.Origin)
	if c.RootDir == "" || !origin.Valid() {
		return nil
	}
	return &component.Placement{Origin: origin, RootDir: c.RootDir, ConfigDir: c.ConfigDir}
}

// New returns an empty lockfile at the current format version.
func New() *Lockfile {
	return &Lockfile{Version: 1}
}

// Find returns the entry for the component named by id, ignoring its version.
func (lf *Lockfile) Find(id component.ID) (*LockedComponent, bool) {
	for i := range lf.Components {
		if lf.Components[i].ID().SameComponent(id) {
			return &lf.Components[i], true
		}
	}
	return nil, false
}

// Put adds c or replaces the existing entry for the same component.
func (lf *Lockfile) Put(c LockedComponent) {
	if existing, ok := lf.Find(c.ID()); ok {
		*existing = c
		return
	}
	lf.Components = append(lf.Components, c)
}

// Bind rebinds the component named by id to id.Version. It reports false
// when the component is not tracked.
func (lf *Lockfile) Bind(id component.ID) bool {
	existing, ok := lf.Find(id)
	if !ok {
		return false
	}
	existing.Version = id.Version
	return true
}
