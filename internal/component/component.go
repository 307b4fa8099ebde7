// Package component defines the value types shared by the store, the working
// tree and the checkout engine.
package component

import (
	"bytes"
	"fmt"
	"path"
	"strings"
)

// ID identifies a component. The version is the label the id is bound to.
type ID struct {
	Name      string
	Namespace string
	Version   string
}

// ParseID parses "namespace/name@version". Namespace and version are optional.
func ParseID(s string) (ID, error) {
	var id ID
	rest := s
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		id.Version = rest[i+1:]
		rest = rest[:i]
		if id.Version == "" {
			return ID{}, fmt.Errorf("invalid component id '%s': empty version after '@'", s)
		}
	}
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		id.Namespace = rest[:i]
		rest = rest[i+1:]
	}
	id.Name = rest
	if id.Name == "" {
		return ID{}, fmt.Errorf("invalid component id '%s': name is required", s)
	}
	return id, nil
}

// WithoutVersion returns the id string without the version suffix.
func (id ID) WithoutVersion() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

func (id ID) String() string {
	if id.Version == "" {
		return id.WithoutVersion()
	}
	return id.WithoutVersion() + "@" + id.Version
}

// ChangeVersion returns a copy of id bound to version.
func (id ID) ChangeVersion(version string) ID {
	id.Version = version
	return id
}

// SameComponent reports whether both ids name the same component, ignoring versions.
func (id ID) SameComponent(other ID) bool {
	return id.Name == other.Name && id.Namespace == other.Namespace
}

// File is a single file entry. Path is slash separated and relative.
type File struct {
	Path    string
	Content []byte
}

// Clone returns a deep copy of f.
func (f File) Clone() File {
	return File{Path: f.Path, Content: bytes.Clone(f.Content)}
}

// Snapshot is the immutable content of one recorded version.
type Snapshot struct {
	Hash         string
	Files        []File
	Artifacts    []File
	Dependencies []ID

	// SharedDir is the path prefix stored in front of every file path. It is
	// stripped when files are materialized in the working tree.
	SharedDir string
}

// File returns the file stored at p.
func (s *Snapshot) File(p string) (File, bool) {
	for _, f := range s.Files {
		if f.Path == p {
			return f, true
		}
	}
	return File{}, false
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Hash:         s.Hash,
		SharedDir:    s.SharedDir,
		Dependencies: append([]ID(nil), s.Dependencies...),
	}
	for _, f := range s.Files {
		c.Files = append(c.Files, f.Clone())
	}
	for _, f := range s.Artifacts {
		c.Artifacts = append(c.Artifacts, f.Clone())
	}
	return c
}

// WorkingFiles returns deep copies of the snapshot files with the shared dir stripped.
func (s *Snapshot) WorkingFiles() []File {
	out := make([]File, 0, len(s.Files))
	for _, f := range s.Files {
		c := f.Clone()
		c.Path = StripSharedDir(s.SharedDir, f.Path)
		out = append(out, c)
	}
	return out
}

// Origin records how a component came into the workspace.
type Origin string

const (
	OriginAuthored Origin = "authored"
	OriginImported Origin = "imported"
	OriginNested   Origin = "nested"
)

// Valid reports whether o is a known origin.
func (o Origin) Valid() bool {
	switch o {
	case OriginAuthored, OriginImported, OriginNested:
		return true
	}
	return false
}

// Placement locates a component in the working tree.
type Placement struct {
	Origin    Origin
	RootDir   string
	ConfigDir string
}

// Working is the mutable in-memory view of a component's files on disk.
// Placement is nil when the workspace map lacks the data to locate it.
type Working struct {
	ID        ID
	Files     []File
	Placement *Placement
}

// Index returns the position of the file at p, or -1.
func (w *Working) Index(p string) int {
	for i, f := range w.Files {
		if f.Path == p {
			return i
		}
	}
	return -1
}

// JoinSharedDir prefixes p with dir.
func JoinSharedDir(dir, p string) string {
	if dir == "" {
		return p
	}
	return path.Join(dir, p)
}

// StripSharedDir removes the dir prefix from p when present.
func StripSharedDir(dir, p string) string {
	if dir == "" {
		return p
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	return strings.TrimPrefix(p, prefix)
}

// Rebase moves files from one shared dir to another, copying contents.
func Rebase(files []File, from, to string) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		c := f.Clone()
		c.Path = JoinSharedDir(to, StripSharedDir(from, f.Path))
		out = append(out, c)
	}
	return out
}
