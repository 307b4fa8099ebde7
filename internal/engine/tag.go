package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/lock"
)

// Recorder stores new versions.
type Recorder interface {
	Record(ctx context.Context, id component.ID, snap *component.Snapshot) (string, error)
}

// SnapshotSource reads what a tag records beyond the tracked files.
type SnapshotSource interface {
	Artifacts(ctx context.Context, rootDir string) ([]component.File, error)
	Dependencies(rootDir string) ([]component.ID, error)
}

// TagEngine records the working copies of tracked components as a new version.
type TagEngine struct {
	Store    Recorder
	Tree     WorkTree
	Source   SnapshotSource
	Lock     *lock.Lockfile
	LockPath string
	Log      *zap.Logger
}

// TagOptions configures a tag operation.
type TagOptions struct {
	Version string
	IDs     []string // glob patterns; empty tags every component
}

// TaggedComponent is a component recorded under a new version.
type TaggedComponent struct {
	ID   component.ID
	Hash string
}

// TagResult holds the outcome of a tag operation.
type TagResult struct {
	Tagged []TaggedComponent
	Failed []ComponentFailure
}

// Tag snapshots each selected working copy under opts.Version and binds the
// component to it.
func (e *TagEngine) Tag(ctx context.Context, opts TagOptions) (*TagResult, error) {
	if opts.Version == "" || opts.Version == LatestKeyword {
		return nil, fmt.Errorf("invalid version label '%s'", opts.Version)
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}

	selected := e.Lock.Components
	if len(opts.IDs) > 0 {
		var err error
		if selected, err = filterComponents(e.Lock.Components, opts.IDs); err != nil {
			return nil, err
		}
	}

	result := &TagResult{}
	for _, c := range selected {
		id := c.ID().ChangeVersion(opts.Version)
		placement := c.Placement()
		if placement == nil {
			ce := errMissingPlacement(c.ID())
			result.Failed = append(result.Failed, ComponentFailure{ID: c.ID(), Message: ce.Msg, Err: ce})
			continue
		}

		snap, err := e.snapshot(ctx, c, placement.RootDir)
		if err != nil {
			return result, err
		}

		hash, err := e.Store.Record(ctx, id, snap)
		if err != nil {
			result.Failed = append(result.Failed, ComponentFailure{ID: c.ID(), Message: err.Error(), Err: err})
			continue
		}

		e.Lock.Bind(id)
		result.Tagged = append(result.Tagged, TaggedComponent{ID: id, Hash: hash})
		log.Info("tagged", zap.Stringer("component", id), zap.String("hash", hash))
	}

	if e.LockPath != "" && len(result.Tagged) > 0 {
		if err := lock.Save(e.LockPath, e.Lock); err != nil {
			return result, fmt.Errorf("saving workspace map: %w", err)
		}
	}
	return result, nil
}

func (e *TagEngine) snapshot(ctx context.Context, c lock.LockedComponent, rootDir string) (*component.Snapshot, error) {
	w, err := e.Tree.Load(ctx, c)
	if err != nil {
		return nil, err
	}
	snap := &component.Snapshot{Files: w.Files}
	if e.Source == nil {
		return snap, nil
	}
	if snap.Artifacts, err = e.Source.Artifacts(ctx, rootDir); err != nil {
		return nil, err
	}
	if snap.Dependencies, err = e.Source.Dependencies(rootDir); err != nil {
		return nil, err
	}
	return snap, nil
}
