package merge

import "fmt"

// ModifiedFile is a path both present upstream and touched by the merge.
// Exactly one of Conflict and Output is non-nil.
type ModifiedFile struct {
	Path     string
	Conflict []byte
	Output   []byte

	// Binary marks files that were not line-merged. Their Conflict payload
	// is never written to disk.
	Binary bool
}

// HasConflict reports whether the entry carries conflict markers.
func (m ModifiedFile) HasConflict() bool {
	return m.Conflict != nil
}

// AddedFile is a path that only exists upstream.
type AddedFile struct {
	Path    string
	Content []byte
}

// OverriddenFile replaces a working file wholesale. Path is relative to the
// working copy root, without the shared dir.
type OverriddenFile struct {
	Path    string
	Content []byte
}

// Outcome is the result of reconciling one component.
type Outcome struct {
	HasConflicts bool
	Modified     []ModifiedFile
	Added        []AddedFile
	Overridden   []OverriddenFile
}

// ConflictedPaths returns the paths whose entries carry conflict markers.
func (o *Outcome) ConflictedPaths() []string {
	var paths []string
	for _, m := range o.Modified {
		if m.HasConflict() {
			paths = append(paths, m.Path)
		}
	}
	return paths
}

// Validate checks the outcome invariants.
func (o *Outcome) Validate() error {
	conflicts := false
	for _, m := range o.Modified {
		if (m.Conflict == nil) == (m.Output == nil) {
			return fmt.Errorf("modified file %s must carry exactly one of conflict or output", m.Path)
		}
		if m.Conflict != nil {
			conflicts = true
		}
	}
	if conflicts != o.HasConflicts {
		return fmt.Errorf("hasConflicts is %t but conflicting entries say %t", o.HasConflicts, conflicts)
	}
	return nil
}
