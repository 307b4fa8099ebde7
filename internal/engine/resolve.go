package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
	"github.com/bianoble/versync/internal/store"
)

// HistoryReader looks up the recorded versions of a component.
type HistoryReader interface {
	Model(id component.ID) (*store.Model, bool, error)
}

// ObjectStore is the read side of the object store used by checkout.
type ObjectStore interface {
	HistoryReader
	store.SnapshotReader
}

// Status is the resolved plan for one component. Exactly one of Failure and
// Resolution is set.
type Status struct {
	// ID is bound to the target version when resolution succeeded.
	ID         component.ID
	Failure    *ComponentError
	Resolution *Resolution
}

// Resolution binds a working copy to the snapshot it moves to.
type Resolution struct {
	Working  *component.Working
	Snapshot *component.Snapshot

	// Outcome is set only when local edits were reconciled against the target.
	Outcome *merge.Outcome

	// SharedDir is the path space the outcome paths live in.
	SharedDir string
}

// HasConflicts reports whether the resolution carries unresolved conflicts.
func (s *Status) HasConflicts() bool {
	return s.Resolution != nil && s.Resolution.Outcome != nil && s.Resolution.Outcome.HasConflicts
}

// StatusResolver decides what checkout does to one component. It only reads.
type StatusResolver struct {
	History    HistoryReader
	Snapshots  store.SnapshotReader
	Reconciler *merge.Reconciler
}

// Resolve computes the status of w for target. Component level failures are
// reported in the status; the error is reserved for store and merge failures.
func (r *StatusResolver) Resolve(ctx context.Context, w *component.Working, target Target) (*Status, error) {
	id := w.ID
	fail := func(e *ComponentError) (*Status, error) {
		return &Status{ID: id, Failure: e}, nil
	}

	model, found, err := r.History.Model(id)
	if err != nil {
		return nil, err
	}
	if !found || len(model.Versions) == 0 {
		return fail(errNotVersioned(id))
	}
	current := id.Version
	if current == "" {
		return fail(errNotVersioned(id))
	}

	var label string
	switch target.Kind {
	case TargetReset:
		label = current
	case TargetLatest:
		label = model.Latest()
	default:
		label = target.Version
		if !model.HasVersion(label) {
			return fail(errVersionNotFound(id, label))
		}
	}

	if target.Kind == TargetVersion && label == current {
		return fail(errAlreadyAt(id, label))
	}
	if target.Kind == TargetLatest && label == current {
		return fail(errAlreadyLatest(id, label))
	}

	base, err := r.load(ctx, model, id, current)
	if err != nil || base == nil {
		return r.orFail(id, current, err)
	}

	modified := isModified(w.Files, base)
	if target.Kind == TargetReset && !modified {
		return fail(errNotModified(id))
	}

	snap := base
	if target.Kind != TargetReset {
		if snap, err = r.load(ctx, model, id, label); err != nil || snap == nil {
			return r.orFail(id, label, err)
		}
	}

	res := &Resolution{Working: w, Snapshot: snap, SharedDir: base.SharedDir}
	if modified && target.Kind != TargetReset {
		res.Outcome, err = r.Reconciler.Reconcile(ctx, merge.Input{
			Base:         base.Files,
			Other:        component.Rebase(w.Files, "", base.SharedDir),
			Current:      component.Rebase(snap.Files, snap.SharedDir, base.SharedDir),
			OtherLabel:   fmt.Sprintf("local (%s)", current),
			CurrentLabel: label,
		})
		if err != nil {
			return nil, fmt.Errorf("reconciling %s: %w", id, err)
		}
	}

	return &Status{ID: id.ChangeVersion(label), Resolution: res}, nil
}

// load returns nil without error when label is not in the history.
func (r *StatusResolver) load(ctx context.Context, model *store.Model, id component.ID, label string) (*component.Snapshot, error) {
	ref, ok := model.Ref(label)
	if !ok {
		return nil, nil
	}
	snap, err := r.Snapshots.GetSnapshot(ctx, ref.Hash)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id.ChangeVersion(label), err)
	}
	return snap, nil
}

func (r *StatusResolver) orFail(id component.ID, label string, err error) (*Status, error) {
	if err != nil {
		return nil, err
	}
	return &Status{ID: id, Failure: errVersionNotFound(id, label)}, nil
}

// isModified compares the working files with the base snapshot by path set
// and content.
func isModified(files []component.File, base *component.Snapshot) bool {
	if len(files) != len(base.Files) {
		return true
	}
	for _, f := range files {
		b, ok := base.File(component.JoinSharedDir(base.SharedDir, f.Path))
		if !ok || !bytes.Equal(b.Content, f.Content) {
			return true
		}
	}
	return false
}
