package versync

import (
	"github.com/bianoble/versync/internal/engine"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/merge"
)

// Type aliases re-export engine result types as the public API.

type Strategy = merge.Strategy
type FileStatus = engine.FileStatus
type FileStatusMap = engine.FileStatusMap
type AppliedComponent = engine.AppliedComponent
type ComponentFailure = engine.ComponentFailure
type CheckoutResult = engine.CheckoutResult
type ComponentStatus = engine.ComponentStatus
type ComponentState = engine.ComponentState
type TagResult = engine.TagResult
type TaggedComponent = engine.TaggedComponent
type InfoResult = engine.InfoResult
type LockedComponent = lock.LockedComponent
type Prompter = engine.Prompter

// Merge strategies.
const (
	StrategyOurs   = merge.StrategyOurs
	StrategyTheirs = merge.StrategyTheirs
	StrategyManual = merge.StrategyManual
)

// Error kinds reported by checkout. Match them with errors.Is.
var (
	ErrNotVersioned      = engine.ErrNotVersioned
	ErrVersionNotFound   = engine.ErrVersionNotFound
	ErrNoOp              = engine.ErrNoOp
	ErrMergeBlocked      = engine.ErrMergeBlocked
	ErrDataInconsistency = engine.ErrDataInconsistency
	ErrMissingPlacement  = engine.ErrMissingPlacement
)
