package engine

import (
	"context"

	"github.com/bianoble/versync/internal/lock"
)

// ComponentState summarizes a tracked component.
type ComponentState string

const (
	StateClean     ComponentState = "clean"
	StateModified  ComponentState = "modified"
	StateUntracked ComponentState = "untracked" // no recorded history
	StateMissing   ComponentState = "missing"   // no placement in the workspace map
)

// StatusEngine reports the state of tracked components.
type StatusEngine struct {
	Store ObjectStore
	Tree  WorkTree
}

// ComponentStatus describes one tracked component.
type ComponentStatus struct {
	ID      string
	Version string
	Latest  string
	State   ComponentState
}

// Outdated reports whether a newer version is recorded.
func (s ComponentStatus) Outdated() bool {
	return s.Latest != "" && s.Version != "" && s.Latest != s.Version
}

// Status returns the state of all (or matching) tracked components.
func (e *StatusEngine) Status(ctx context.Context, lf *lock.Lockfile, patterns []string) ([]ComponentStatus, error) {
	selected := lf.Components
	if len(patterns) > 0 {
		var err error
		if selected, err = filterComponents(lf.Components, patterns); err != nil {
			return nil, err
		}
	}

	statuses := make([]ComponentStatus, 0, len(selected))
	for _, c := range selected {
		s, err := e.statusOf(ctx, c)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func (e *StatusEngine) statusOf(ctx context.Context, c lock.LockedComponent) (ComponentStatus, error) {
	id := c.ID()
	s := ComponentStatus{ID: id.WithoutVersion(), Version: id.Version}

	if c.Placement() == nil {
		s.State = StateMissing
		return s, nil
	}

	model, found, err := e.Store.Model(id)
	if err != nil {
		return s, err
	}
	if !found {
		s.State = StateUntracked
		return s, nil
	}
	s.Latest = model.Latest()

	ref, ok := model.Ref(id.Version)
	if !ok {
		s.State = StateUntracked
		return s, nil
	}

	base, err := e.Store.GetSnapshot(ctx, ref.Hash)
	if err != nil {
		return s, err
	}
	w, err := e.Tree.Load(ctx, c)
	if err != nil {
		return s, err
	}

	s.State = StateClean
	if isModified(w.Files, base) {
		s.State = StateModified
	}
	return s, nil
}
