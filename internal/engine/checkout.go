package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/install"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/merge"
	"github.com/bianoble/versync/internal/store"
	"github.com/bianoble/versync/internal/worktree"
)

// WorkTree reads and writes component working copies.
type WorkTree interface {
	Load(ctx context.Context, c lock.LockedComponent) (*component.Working, error)
	Write(ctx context.Context, w *component.Working, opts worktree.WriteOptions) (*worktree.WriteResult, error)
}

// Installer materializes the dependencies of a written component.
type Installer interface {
	Install(ctx context.Context, req install.Request) error
}

// CheckoutEngine moves tracked components between recorded versions,
// reconciling local edits with the requested version.
type CheckoutEngine struct {
	Store     ObjectStore
	Tree      WorkTree
	Lock      *lock.Lockfile
	Prompter  Prompter
	Installer Installer
	Log       *zap.Logger

	// LockPath, when set, is where the lockfile is saved after every
	// applied component.
	LockPath string

	// Concurrency bounds parallel status resolution. Zero means unbounded.
	Concurrency int
	ScratchSize int

	scratchHook func(*store.Scratch)
}

// Checkout resolves every selected component, picks a strategy if any of
// them conflicts, then applies them one at a time in request order.
//
// Per-component failures are reported in the result. A merge blocked by a
// missing strategy fails before anything is written. A fatal error while
// applying stops the remaining components; those already applied stay.
func (e *CheckoutEngine) Checkout(ctx context.Context, opts CheckoutOptions) (*CheckoutResult, error) {
	log := e.logger()
	result := &CheckoutResult{BatchID: uuid.NewString()}
	if opts.Target.Kind != TargetReset {
		result.Version = opts.Target.String()
	}
	log = log.With(zap.String("batch", result.BatchID), zap.Stringer("target", opts.Target))

	selected, err := e.selectComponents(opts.IDs)
	if err != nil {
		return nil, err
	}

	working := make([]*component.Working, len(selected))
	for i, c := range selected {
		if working[i], err = e.Tree.Load(ctx, c); err != nil {
			return nil, err
		}
	}

	statuses, err := e.resolveAll(ctx, working, opts.Target)
	if err != nil {
		return nil, err
	}

	failed := lo.Filter(statuses, func(s *Status, _ int) bool { return s.Failure != nil })
	succeeded := lo.Reject(statuses, func(s *Status, _ int) bool { return s.Failure != nil })
	for _, s := range failed {
		log.Debug("component skipped", zap.Stringer("component", s.ID), zap.String("reason", s.Failure.Msg))
		result.Failed = append(result.Failed, ComponentFailure{ID: s.ID, Message: s.Failure.Msg, Err: s.Failure})
	}

	conflicted := lo.Filter(succeeded, func(s *Status, _ int) bool { return s.HasConflicts() })
	strategy := opts.Strategy
	if len(conflicted) > 0 {
		resolver := &StrategyResolver{Prompter: e.Prompter}
		ids := lo.Map(conflicted, func(s *Status, _ int) component.ID { return s.ID })
		if strategy, err = resolver.Resolve(ctx, opts.Strategy, opts.Prompt, ids); err != nil {
			return nil, err
		}
		log.Info("resolving conflicts", zap.String("strategy", string(strategy)), zap.Int("components", len(conflicted)))
	}
	result.Strategy = strategy

	// Applied in order; a component may read files written by an earlier one.
	for _, s := range succeeded {
		applied, err := e.applyOne(ctx, s, strategy, opts)
		if err != nil {
			log.Error("checkout stopped", zap.Stringer("component", s.ID), zap.Error(err))
			return result, err
		}
		result.Components = append(result.Components, *applied)
	}

	return result, nil
}

func (e *CheckoutEngine) selectComponents(patterns []string) ([]lock.LockedComponent, error) {
	if e.Lock == nil {
		return nil, fmt.Errorf("no workspace map loaded")
	}
	if len(patterns) == 0 {
		return append([]lock.LockedComponent(nil), e.Lock.Components...), nil
	}
	return filterComponents(e.Lock.Components, patterns)
}

// filterComponents returns the components matching patterns in request
// order: the matches of each pattern, in lockfile order, before those of the
// next. A component matched twice keeps its first position. Every pattern
// must match something.
func filterComponents(all []lock.LockedComponent, patterns []string) ([]lock.LockedComponent, error) {
	var selected []lock.LockedComponent
	seen := make(map[string]bool, len(all))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid component pattern '%s': %w", p, err)
		}
		matches := lo.Filter(all, func(c lock.LockedComponent, _ int) bool {
			return g.Match(c.ID().WithoutVersion())
		})
		if len(matches) == 0 {
			return nil, fmt.Errorf("no tracked component matches '%s'", p)
		}
		for _, c := range matches {
			key := c.ID().WithoutVersion()
			if seen[key] {
				continue
			}
			seen[key] = true
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// resolveAll resolves statuses concurrently inside a scratch workspace that
// is released before returning.
func (e *CheckoutEngine) resolveAll(ctx context.Context, working []*component.Working, target Target) ([]*Status, error) {
	scratch, err := store.NewScratch(e.Store, e.ScratchSize)
	if err != nil {
		return nil, err
	}
	defer scratch.Release()
	if e.scratchHook != nil {
		e.scratchHook(scratch)
	}

	resolver := &StatusResolver{History: e.Store, Snapshots: scratch, Reconciler: merge.NewReconciler()}
	statuses := make([]*Status, len(working))

	g, gctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for i, w := range working {
		i, w := i, w
		g.Go(func() error {
			s, err := resolver.Resolve(gctx, w, target)
			if err != nil {
				return err
			}
			statuses[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (e *CheckoutEngine) applyOne(ctx context.Context, s *Status, strategy merge.Strategy, opts CheckoutOptions) (*AppliedComponent, error) {
	log := e.logger().With(zap.Stringer("component", s.ID))
	res := s.Resolution

	files, err := Apply(res, strategy)
	if err != nil {
		return nil, err
	}

	oursOnly := s.HasConflicts() && strategy == merge.StrategyOurs
	if !oursOnly {
		if err := e.write(ctx, s.ID, res, opts); err != nil {
			return nil, err
		}
	}

	if err := e.rebind(s.ID); err != nil {
		return nil, err
	}

	log.Info("checked out",
		zap.Int("updated", files.Count(FileUpdated)),
		zap.Int("merged", files.Count(FileMerged)),
		zap.Int("manual", files.Count(FileManual)),
		zap.Int("added", files.Count(FileAdded)))
	return &AppliedComponent{ID: s.ID, Files: files}, nil
}

func (e *CheckoutEngine) write(ctx context.Context, id component.ID, res *Resolution, opts CheckoutOptions) error {
	w := res.Working
	if w.Placement == nil {
		return errMissingPlacement(id)
	}
	w.ID = id

	deps := res.Snapshot.Dependencies
	if w.Placement.Origin == component.OriginAuthored && id.Namespace == "" {
		deps = nil
	}

	wo := worktree.WriteOptions{
		Override:      true,
		WriteManifest: true,
		WriteConfig:   w.Placement.ConfigDir != "",
		Dependencies:  deps,
	}
	if !opts.IgnoreArtifacts {
		wo.Artifacts = res.Snapshot.Artifacts
	}

	written, err := e.Tree.Write(ctx, w, wo)
	if err != nil {
		if errors.Is(err, worktree.ErrNoPlacement) {
			return errMissingPlacement(id)
		}
		return err
	}
	e.logger().Debug("wrote files", zap.Stringer("component", id), zap.Strings("files", written.Written))

	if opts.SkipInstall || w.Placement.Origin == component.OriginAuthored || e.Installer == nil {
		return nil
	}
	return e.Installer.Install(ctx, install.Request{
		ID:           id,
		RootDir:      w.Placement.RootDir,
		Dependencies: deps,
		Verbose:      opts.Verbose,
	})
}

func (e *CheckoutEngine) rebind(id component.ID) error {
	if !e.Lock.Bind(id) {
		return errDataInconsistency(id, "component is not in the workspace map")
	}
	if e.LockPath == "" {
		return nil
	}
	if err := lock.Save(e.LockPath, e.Lock); err != nil {
		return fmt.Errorf("saving workspace map after %s: %w", id, err)
	}
	return nil
}

func (e *CheckoutEngine) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
