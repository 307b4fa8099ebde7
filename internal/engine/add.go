package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/worktree"
)

// AddOptions describes a directory to start tracking.
type AddOptions struct {
	ID        component.ID
	RootDir   string
	ConfigDir string
}

// Add starts tracking a directory of the project as an authored component.
// The component has no version until it is tagged.
func Add(projectRoot string, lf *lock.Lockfile, opts AddOptions) (*lock.LockedComponent, error) {
	if opts.ID.Name == "" {
		return nil, fmt.Errorf("component name is required")
	}
	if _, ok := lf.Find(opts.ID); ok {
		return nil, fmt.Errorf("component %s is already tracked", opts.ID.WithoutVersion())
	}

	root, err := relativeDir(projectRoot, opts.RootDir)
	if err != nil {
		return nil, err
	}
	configDir := ""
	if opts.ConfigDir != "" {
		if configDir, err = relativeDir(projectRoot, opts.ConfigDir); err != nil {
			return nil, err
		}
	}

	for _, other := range lf.Components {
		if other.RootDir == root {
			return nil, fmt.Errorf("directory %s is already tracked by %s", root, other.ID().WithoutVersion())
		}
	}

	c := lock.LockedComponent{
		Name:      opts.ID.Name,
		Namespace: opts.ID.Namespace,
		Origin:    string(component.OriginAuthored),
		RootDir:   root,
		ConfigDir: configDir,
	}
	lf.Put(c)
	return &c, nil
}

// relativeDir checks that dir is an existing directory inside the project
// and returns it relative to the project root, slash separated.
func relativeDir(projectRoot, dir string) (string, error) {
	if filepath.IsAbs(dir) {
		rel, err := filepath.Rel(projectRoot, dir)
		if err != nil {
			return "", fmt.Errorf("directory %s: %w", dir, err)
		}
		dir = rel
	}
	abs, err := worktree.ValidatePath(projectRoot, dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	rel := filepath.ToSlash(filepath.Clean(dir))
	if rel == "." {
		return "", fmt.Errorf("the project root itself cannot be a component")
	}
	return rel, nil
}
