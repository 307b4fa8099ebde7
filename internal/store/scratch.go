package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bianoble/versync/internal/component"
)

// DefaultScratchSize bounds the number of snapshots a scratch workspace keeps.
const DefaultScratchSize = 256

// ErrScratchReleased is returned by a scratch workspace used after Release.
var ErrScratchReleased = errors.New("scratch workspace released")

// SnapshotReader loads snapshots by hash.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, hash string) (*component.Snapshot, error)
}

// Scratch is a batch-scoped workspace shared by concurrent status resolution.
// It memoizes snapshot reads and hands out private copies.
type Scratch struct {
	src   SnapshotReader
	cache *lru.Cache[string, *component.Snapshot]

	mu       sync.RWMutex
	released bool
}

// NewScratch acquires a scratch workspace reading through src.
func NewScratch(src SnapshotReader, size int) (*Scratch, error) {
	if size <= 0 {
		size = DefaultScratchSize
	}
	cache, err := lru.New[string, *component.Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("creating scratch workspace: %w", err)
	}
	return &Scratch{src: src, cache: cache}, nil
}

// GetSnapshot returns a private copy of the snapshot stored under hash.
func (sc *Scratch) GetSnapshot(ctx context.Context, hash string) (*component.Snapshot, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.released {
		return nil, ErrScratchReleased
	}

	if snap, ok := sc.cache.Get(hash); ok {
		return snap.Clone(), nil
	}

	snap, err := sc.src.GetSnapshot(ctx, hash)
	if err != nil {
		return nil, err
	}
	sc.cache.Add(hash, snap.Clone())
	return snap, nil
}

// Len returns the number of cached snapshots.
func (sc *Scratch) Len() int {
	return sc.cache.Len()
}

// Release drops everything held by the workspace. It is safe to call more than once.
func (sc *Scratch) Release() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.released {
		return
	}
	sc.released = true
	sc.cache.Purge()
}
