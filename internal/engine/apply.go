package engine

import (
	"bytes"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

// Apply moves the working files of res to the resolved snapshot under
// strategy and reports what happened to every file. res.Working.Files is
// mutated in place.
//
//   - conflicts under ours: nothing changes, every file is unchanged
//   - conflicts under theirs, or no outcome at all: the snapshot is adopted
//     wholesale and every file is updated
//   - otherwise the outcome is applied on top of the working files; files it
//     does not name are reported updated
func Apply(res *Resolution, strategy merge.Strategy) (FileStatusMap, error) {
	w := res.Working
	out := res.Outcome
	b := newStatusBuilder()

	switch {
	case out != nil && out.HasConflicts && strategy == merge.StrategyOurs:
		for _, f := range w.Files {
			b.set(f.Path, FileUnchanged)
		}
		return b.build(), nil

	case out == nil, out.HasConflicts && strategy == merge.StrategyTheirs:
		w.Files = res.Snapshot.WorkingFiles()
		for _, f := range w.Files {
			b.set(f.Path, FileUpdated)
		}
		return b.build(), nil

	case out.HasConflicts && strategy != merge.StrategyManual:
		return FileStatusMap{}, errMergeBlocked(w.ID)
	}

	if err := checkExclusive(w.ID, out, res.SharedDir); err != nil {
		return FileStatusMap{}, err
	}

	for _, f := range w.Files {
		b.set(f.Path, FileUpdated)
	}

	for _, m := range out.Modified {
		i := indexShared(w.Files, res.SharedDir, m.Path)
		if i < 0 {
			return FileStatusMap{}, errDataInconsistency(w.ID, "merged file %s is not in the working copy", m.Path)
		}
		switch {
		case m.HasConflict() && m.Binary:
			// binary conflicts keep the local bytes
			b.set(w.Files[i].Path, FileManual)
		case m.HasConflict():
			w.Files[i].Content = bytes.Clone(m.Conflict)
			b.set(w.Files[i].Path, FileManual)
		default:
			w.Files[i].Content = bytes.Clone(m.Output)
			b.set(w.Files[i].Path, FileMerged)
		}
	}

	for _, a := range out.Added {
		p := component.StripSharedDir(res.SharedDir, a.Path)
		w.Files = append(w.Files, component.File{Path: p, Content: bytes.Clone(a.Content)})
		b.set(p, FileAdded)
	}

	for _, o := range out.Overridden {
		i := w.Index(o.Path)
		if i < 0 {
			return FileStatusMap{}, errDataInconsistency(w.ID, "overridden file %s is not in the working copy", o.Path)
		}
		w.Files[i].Content = bytes.Clone(o.Content)
		b.set(o.Path, FileOverridden)
	}

	return b.build(), nil
}

func indexShared(files []component.File, sharedDir, p string) int {
	for i, f := range files {
		if component.JoinSharedDir(sharedDir, f.Path) == p {
			return i
		}
	}
	return -1
}

// checkExclusive rejects outcomes naming one path as both modified and overridden.
func checkExclusive(id component.ID, out *merge.Outcome, sharedDir string) error {
	overridden := make(map[string]bool, len(out.Overridden))
	for _, o := range out.Overridden {
		overridden[o.Path] = true
	}
	for _, m := range out.Modified {
		if p := component.StripSharedDir(sharedDir, m.Path); overridden[p] {
			return errDataInconsistency(id, "file %s is both merged and overridden", p)
		}
	}
	return nil
}
