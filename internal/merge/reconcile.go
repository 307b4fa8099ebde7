package merge

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/bianoble/versync/internal/component"
)

// Input is the three sides of a reconciliation. All paths must share one
// path space (the stored form, including any shared dir).
type Input struct {
	Base    []component.File
	Other   []component.File // working copy
	Current []component.File // target version

	OtherLabel   string
	CurrentLabel string
}

// Reconciler classifies every path of a three-way comparison. It only
// reports; resolution is up to the caller.
type Reconciler struct {
	Merger Merger
}

// NewReconciler returns a Reconciler backed by the diff3 text merger.
func NewReconciler() *Reconciler {
	return &Reconciler{Merger: NewTextMerger()}
}

// Reconcile computes the outcome for the union of paths in base, other and current.
//
// Paths missing from current produce no entry: checkout never removes files
// from the working copy. A path deleted locally but changed upstream is
// reported as added so the upstream content is restored.
func (r *Reconciler) Reconcile(ctx context.Context, in Input) (*Outcome, error) {
	base := indexFiles(in.Base)
	other := indexFiles(in.Other)
	current := indexFiles(in.Current)

	paths := unionPaths(base, other, current)
	out := &Outcome{}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, inCurrent := current[p]
		if !inCurrent {
			continue
		}
		b, inBase := base[p]
		o, inOther := other[p]

		if !inOther {
			if !inBase || !bytes.Equal(b, c) {
				out.Added = append(out.Added, AddedFile{Path: p, Content: bytes.Clone(c)})
			}
			continue
		}

		localEdit := !inBase || !bytes.Equal(b, o)
		upstreamEdit := !inBase || !bytes.Equal(b, c)

		switch {
		case !upstreamEdit:
			// unchanged upstream: local content stands
		case !localEdit:
			out.Modified = append(out.Modified, ModifiedFile{Path: p, Output: nonNil(c)})
		case bytes.Equal(o, c):
			out.Modified = append(out.Modified, ModifiedFile{Path: p, Output: nonNil(c)})
		default:
			mf, err := r.mergeDivergent(p, b, o, c, in.OtherLabel, in.CurrentLabel)
			if err != nil {
				return nil, err
			}
			if mf.HasConflict() {
				out.HasConflicts = true
			}
			out.Modified = append(out.Modified, mf)
		}
	}

	return out, nil
}

func (r *Reconciler) mergeDivergent(p string, base, other, current []byte, otherLabel, currentLabel string) (ModifiedFile, error) {
	if IsBinary(base) || IsBinary(other) || IsBinary(current) {
		return ModifiedFile{
			Path:     p,
			Conflict: wholeFileConflict(other, current, otherLabel, currentLabel),
			Binary:   true,
		}, nil
	}

	res, err := r.Merger.Merge(base, other, current, otherLabel, currentLabel)
	if err != nil {
		return ModifiedFile{}, fmt.Errorf("merging %s: %w", p, err)
	}
	if res.HasConflicts {
		return ModifiedFile{Path: p, Conflict: nonNil(res.Content)}, nil
	}
	return ModifiedFile{Path: p, Output: nonNil(res.Content)}, nil
}

func indexFiles(files []component.File) map[string][]byte {
	m := make(map[string][]byte, len(files))
	for _, f := range files {
		m[f.Path] = f.Content
	}
	return m
}

func unionPaths(sets ...map[string][]byte) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, set := range sets {
		for p := range set {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)
	return paths
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return bytes.Clone(b)
}
