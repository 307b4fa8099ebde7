package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath resolves rel against projectRoot and rejects any result that
// lands outside the project root, following symlinks along the way. The
// returned path is absolute. rel does not have to exist yet.
func ValidatePath(projectRoot, rel string) (string, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root symlinks: %w", err)
	}

	resolved, err := resolveExistingPath(filepath.Clean(filepath.Join(realRoot, rel)))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", rel, err)
	}

	// The separator suffix keeps "root2" from matching "root".
	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the project root '%s'", rel, resolved, realRoot)
	}
	return resolved, nil
}

// resolveExistingPath evaluates symlinks on the longest existing prefix of
// p and appends the remainder unchanged.
func resolveExistingPath(p string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(p)
	if dir == p {
		return p, nil
	}
	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, filepath.Base(p)), nil
}

// writeFile atomically replaces rel under projectRoot with content. Parent
// directories are created after their own containment check.
func writeFile(projectRoot, rel string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(projectRoot, rel)
	if err != nil {
		return err
	}
	dir, err := ValidatePath(projectRoot, filepath.Dir(rel))
	if err != nil {
		return fmt.Errorf("parent directory of %s: %w", rel, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".versync-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", rel, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", rel, err)
	}
	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", resolved, err)
	}

	ok = true
	return nil
}
