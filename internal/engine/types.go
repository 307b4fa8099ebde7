package engine

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

// FileStatus is what checkout did to one file.
type FileStatus string

const (
	FileUnchanged  FileStatus = "unchanged"
	FileUpdated    FileStatus = "updated"
	FileAdded      FileStatus = "added"
	FileMerged     FileStatus = "merged"
	FileManual     FileStatus = "manual"
	FileOverridden FileStatus = "overridden"
)

// FileStatusMap is an immutable, ordered path to status mapping. Paths are
// relative to the component root. Paths not in the map were not touched.
type FileStatusMap struct {
	paths  []string
	status map[string]FileStatus
}

// Get returns the status recorded for p.
func (m FileStatusMap) Get(p string) (FileStatus, bool) {
	s, ok := m.status[p]
	return s, ok
}

// Paths returns the recorded paths in order.
func (m FileStatusMap) Paths() []string {
	return append([]string(nil), m.paths...)
}

// Len returns the number of recorded paths.
func (m FileStatusMap) Len() int {
	return len(m.paths)
}

// Count returns how many paths have status s.
func (m FileStatusMap) Count(s FileStatus) int {
	n := 0
	for _, st := range m.status {
		if st == s {
			n++
		}
	}
	return n
}

// statusBuilder accumulates a FileStatusMap. A later set for a path keeps
// the path's original position.
type statusBuilder struct {
	paths  []string
	status map[string]FileStatus
}

func newStatusBuilder() *statusBuilder {
	return &statusBuilder{status: make(map[string]FileStatus)}
}

func (b *statusBuilder) set(p string, s FileStatus) {
	if _, ok := b.status[p]; !ok {
		b.paths = append(b.paths, p)
	}
	b.status[p] = s
}

func (b *statusBuilder) build() FileStatusMap {
	m := FileStatusMap{paths: b.paths, status: b.status}
	b.paths, b.status = nil, nil
	return m
}

// TargetKind selects how the checkout target version is chosen.
type TargetKind int

const (
	// TargetVersion checks out an explicit label.
	TargetVersion TargetKind = iota
	// TargetLatest checks out the highest recorded label.
	TargetLatest
	// TargetReset discards local edits and keeps the current label.
	TargetReset
)

// LatestKeyword requests the latest version on the command line.
const LatestKeyword = "latest"

// Target is the requested checkout target.
type Target struct {
	Kind    TargetKind
	Version string
}

// ParseTarget builds a Target from a version argument. reset ignores the argument.
func ParseTarget(arg string, reset bool) (Target, error) {
	switch {
	case reset:
		if arg != "" {
			return Target{}, fmt.Errorf("a version cannot be combined with reset")
		}
		return Target{Kind: TargetReset}, nil
	case arg == LatestKeyword:
		return Target{Kind: TargetLatest}, nil
	case strings.TrimSpace(arg) == "":
		return Target{}, fmt.Errorf("a version is required: use a version label, '%s', or reset", LatestKeyword)
	}
	return Target{Kind: TargetVersion, Version: arg}, nil
}

func (t Target) String() string {
	switch t.Kind {
	case TargetReset:
		return "reset"
	case TargetLatest:
		return LatestKeyword
	}
	return t.Version
}

// CheckoutOptions configures a checkout operation.
type CheckoutOptions struct {
	Target Target

	// IDs filters tracked components by glob pattern on their id without
	// version (e.g. "ui/*"). Empty selects every tracked component.
	IDs []string

	// Strategy resolves conflicts. Empty means none was given.
	Strategy merge.Strategy

	// Prompt allows asking for a strategy when conflicts exist and none was given.
	Prompt bool

	SkipInstall     bool
	IgnoreArtifacts bool
	Verbose         bool
}

// AppliedComponent is a component that checkout applied.
type AppliedComponent struct {
	ID    component.ID
	Files FileStatusMap
}

// ComponentFailure is a component that was excluded from the batch.
type ComponentFailure struct {
	ID      component.ID
	Message string
	Err     error
}

// CheckoutResult holds the outcome of a checkout operation.
type CheckoutResult struct {
	BatchID string

	// Version is the requested label; "latest" for latest, empty for reset.
	Version string

	Components []AppliedComponent
	Failed     []ComponentFailure
	Strategy   merge.Strategy
}

// Err aggregates the per-component failures, or returns nil.
func (r *CheckoutResult) Err() error {
	var errs *multierror.Error
	for _, f := range r.Failed {
		errs = multierror.Append(errs, f.Err)
	}
	return errs.ErrorOrNil()
}
