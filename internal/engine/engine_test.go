package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/merge"
	"github.com/bianoble/versync/internal/store"
	"github.com/bianoble/versync/internal/worktree"
)

// fixture is a project with a real object store and working tree.
type fixture struct {
	t     *testing.T
	root  string
	store *store.Store
	tree  *worktree.Tree
	lock  *lock.Lockfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	st, err := store.New(filepath.Join(root, ".versync", "store"))
	require.NoError(t, err)
	return &fixture{t: t, root: root, store: st, tree: worktree.New(root), lock: lock.New()}
}

// record stores files as a new version of id.
func (f *fixture) record(id string, files map[string]string) component.ID {
	f.t.Helper()
	cid, err := component.ParseID(id)
	require.NoError(f.t, err)
	snap := &component.Snapshot{}
	for _, p := range sortedKeys(files) {
		snap.Files = append(snap.Files, component.File{Path: p, Content: []byte(files[p])})
	}
	_, err = f.store.Record(context.Background(), cid, snap)
	require.NoError(f.t, err)
	return cid
}

// track adds a lock entry bound to id and writes files into its root dir.
func (f *fixture) track(id, dir string, files map[string]string) {
	f.t.Helper()
	cid, err := component.ParseID(id)
	require.NoError(f.t, err)
	f.lock.Put(lock.LockedComponent{
		Name: cid.Name, Namespace: cid.Namespace, Version: cid.Version,
		Origin: string(component.OriginImported), RootDir: dir,
	})
	for p, content := range files {
		f.write(filepath.Join(dir, p), content)
	}
}

func (f *fixture) write(rel, content string) {
	f.t.Helper()
	p := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(f.t, os.WriteFile(p, []byte(content), 0644))
}

func (f *fixture) read(rel string) string {
	f.t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	require.NoError(f.t, err)
	return string(data)
}

func (f *fixture) engine() *CheckoutEngine {
	return &CheckoutEngine{Store: f.store, Tree: f.tree, Lock: f.lock}
}

func (f *fixture) version(name string) string {
	f.t.Helper()
	c, ok := f.lock.Find(component.ID{Name: name})
	require.True(f.t, ok, "component %s not tracked", name)
	return c.Version
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// countingStore counts snapshot reads.
type countingStore struct {
	*store.Store
	reads atomic.Int32
}

func (s *countingStore) GetSnapshot(ctx context.Context, hash string) (*component.Snapshot, error) {
	s.reads.Add(1)
	return s.Store.GetSnapshot(ctx, hash)
}

// stubPrompter answers every prompt with one strategy.
type stubPrompter struct {
	strategy merge.Strategy
	calls    int
	asked    []component.ID
}

func (p *stubPrompter) SelectStrategy(_ context.Context, conflicted []component.ID) (merge.Strategy, error) {
	p.calls++
	p.asked = conflicted
	return p.strategy, nil
}

func target(v string) Target {
	if v == LatestKeyword {
		return Target{Kind: TargetLatest}
	}
	return Target{Kind: TargetVersion, Version: v}
}

func statusOf(t *testing.T, files FileStatusMap, p string) FileStatus {
	t.Helper()
	s, ok := files.Get(p)
	require.True(t, ok, "no status for %s", p)
	return s
}
