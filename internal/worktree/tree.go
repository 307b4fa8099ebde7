// Package worktree reads and writes the on-disk working copies of tracked
// components. Every write is contained in the project root and atomic per
// file. Nothing in this package removes files.
package worktree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/lock"
)

const (
	// DefaultManifestFile is the per-component manifest name.
	DefaultManifestFile = "component.yaml"
	// DefaultArtifactsDir holds derived build output inside a component root.
	DefaultArtifactsDir = "dist"
	// ConfigFileName is written into a component's config directory.
	ConfigFileName = ".versync-component.yaml"
)

// ErrNoPlacement is returned by Write for a component without placement data.
var ErrNoPlacement = errors.New("component has no placement in the workspace map")

// Tree accesses component working copies below ProjectRoot.
type Tree struct {
	ProjectRoot  string
	ManifestFile string
	ArtifactsDir string
}

// New returns a Tree with default manifest and artifact names.
func New(projectRoot string) *Tree {
	return &Tree{
		ProjectRoot:  projectRoot,
		ManifestFile: DefaultManifestFile,
		ArtifactsDir: DefaultArtifactsDir,
	}
}

// Manifest is the component.yaml document kept at a component root.
type Manifest struct {
	Name         string   `yaml:"name"`
	Namespace    string   `yaml:"namespace,omitempty"`
	Version      string   `yaml:"version,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// WriteOptions controls what Write puts on disk besides the tracked files.
type WriteOptions struct {
	// Override replaces files that already exist. Without it existing
	// files are left untouched.
	Override bool

	// WriteManifest regenerates the manifest, but only when one exists.
	WriteManifest bool

	// WriteConfig writes the component config file into the config dir.
	WriteConfig bool

	Artifacts    []component.File
	Dependencies []component.ID
}

// WriteResult lists what Write changed, as project-relative paths.
type WriteResult struct {
	Written []string
	Skipped []string
}

// Load reads the working copy of a tracked component. A component without
// placement is returned with a nil Placement and no files.
func (t *Tree) Load(ctx context.Context, c lock.LockedComponent) (*component.Working, error) {
	w := &component.Working{ID: c.ID(), Placement: c.Placement()}
	if w.Placement == nil {
		return w, nil
	}

	paths, err := t.Files(ctx, w.Placement.RootDir)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", w.ID, err)
	}

	for _, p := range paths {
		abs, err := ValidatePath(t.ProjectRoot, filepath.Join(w.Placement.RootDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", w.ID, err)
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("loading %s: reading %s: %w", w.ID, p, err)
		}
		w.Files = append(w.Files, component.File{Path: p, Content: content})
	}
	return w, nil
}

// Files enumerates the tracked files below rootDir as sorted slash paths
// relative to rootDir. Hidden entries, the manifest and the artifacts
// directory are not tracked. A missing rootDir has no files.
func (t *Tree) Files(ctx context.Context, rootDir string) ([]string, error) {
	return t.walk(ctx, rootDir, true)
}

// walk lists regular files below rootDir, skipping hidden entries. With
// tracked set the manifest and the artifacts directory are skipped too.
func (t *Tree) walk(ctx context.Context, rootDir string, tracked bool) ([]string, error) {
	root, err := ValidatePath(t.ProjectRoot, rootDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if tracked && rel == t.artifactsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if (tracked && rel == t.manifestFile()) || !d.Type().IsRegular() {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", rootDir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Write puts the working component on disk below its root directory.
func (t *Tree) Write(ctx context.Context, w *component.Working, opts WriteOptions) (*WriteResult, error) {
	if w.Placement == nil {
		return nil, fmt.Errorf("writing %s: %w", w.ID, ErrNoPlacement)
	}
	root := w.Placement.RootDir
	result := &WriteResult{}

	files := append(append([]component.File(nil), w.Files...), opts.Artifacts...)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rel := filepath.Join(root, filepath.FromSlash(f.Path))
		if !opts.Override && t.exists(rel) {
			result.Skipped = append(result.Skipped, filepath.ToSlash(rel))
			continue
		}
		if err := writeFile(t.ProjectRoot, rel, f.Content, 0644); err != nil {
			return result, fmt.Errorf("writing %s: %w", w.ID, err)
		}
		result.Written = append(result.Written, filepath.ToSlash(rel))
	}

	if opts.WriteManifest && t.ManifestExists(root) {
		rel := filepath.Join(root, t.manifestFile())
		if err := t.writeYAML(rel, manifestFor(w.ID, opts.Dependencies)); err != nil {
			return result, fmt.Errorf("writing manifest of %s: %w", w.ID, err)
		}
		result.Written = append(result.Written, filepath.ToSlash(rel))
	}

	if opts.WriteConfig && w.Placement.ConfigDir != "" {
		rel := filepath.Join(w.Placement.ConfigDir, ConfigFileName)
		if err := t.writeYAML(rel, manifestFor(w.ID, opts.Dependencies)); err != nil {
			return result, fmt.Errorf("writing config of %s: %w", w.ID, err)
		}
		result.Written = append(result.Written, filepath.ToSlash(rel))
	}

	return result, nil
}

// Artifacts reads the derived artifacts below rootDir. Paths are relative
// to rootDir and include the artifacts directory.
func (t *Tree) Artifacts(ctx context.Context, rootDir string) ([]component.File, error) {
	dir := filepath.Join(rootDir, filepath.FromSlash(t.artifactsDir()))
	paths, err := t.walk(ctx, dir, false)
	if err != nil {
		return nil, err
	}

	files := make([]component.File, 0, len(paths))
	for _, p := range paths {
		abs, err := ValidatePath(t.ProjectRoot, filepath.Join(dir, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("reading artifact %s: %w", p, err)
		}
		files = append(files, component.File{Path: t.artifactsDir() + "/" + p, Content: content})
	}
	return files, nil
}

// Dependencies returns the dependency ids listed in the manifest at rootDir.
// A component without a manifest has none.
func (t *Tree) Dependencies(rootDir string) ([]component.ID, error) {
	if !t.ManifestExists(rootDir) {
		return nil, nil
	}
	m, err := t.ReadManifest(rootDir)
	if err != nil {
		return nil, err
	}
	deps := make([]component.ID, 0, len(m.Dependencies))
	for _, d := range m.Dependencies {
		id, err := component.ParseID(d)
		if err != nil {
			return nil, fmt.Errorf("manifest in %s: %w", rootDir, err)
		}
		deps = append(deps, id)
	}
	return deps, nil
}

// ManifestExists reports whether rootDir carries a component manifest.
func (t *Tree) ManifestExists(rootDir string) bool {
	return t.exists(filepath.Join(rootDir, t.manifestFile()))
}

// ReadManifest loads the manifest at rootDir.
func (t *Tree) ReadManifest(rootDir string) (*Manifest, error) {
	abs, err := ValidatePath(t.ProjectRoot, filepath.Join(rootDir, t.manifestFile()))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", abs, err)
	}
	return &m, nil
}

func (t *Tree) writeYAML(rel string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return writeFile(t.ProjectRoot, rel, data, 0644)
}

func (t *Tree) exists(rel string) bool {
	abs, err := ValidatePath(t.ProjectRoot, rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (t *Tree) manifestFile() string {
	if t.ManifestFile == "" {
		return DefaultManifestFile
	}
	return t.ManifestFile
}

func (t *Tree) artifactsDir() string {
	if t.ArtifactsDir == "" {
		return DefaultArtifactsDir
	}
	return strings.Trim(filepath.ToSlash(t.ArtifactsDir), "/")
}

func manifestFor(id component.ID, deps []component.ID) *Manifest {
	m := &Manifest{Name: id.Name, Namespace: id.Namespace, Version: id.Version}
	for _, d := range deps {
		m.Dependencies = append(m.Dependencies, d.String())
	}
	return m
}
