package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bianoble/versync/internal/component"
)

type countingReader struct {
	calls atomic.Int32
	snap  *component.Snapshot
}

func (r *countingReader) GetSnapshot(ctx context.Context, hash string) (*component.Snapshot, error) {
	r.calls.Add(1)
	c := r.snap.Clone()
	c.Hash = hash
	return c, nil
}

func TestScratchMemoizesAndCopies(t *testing.T) {
	src := &countingReader{snap: &component.Snapshot{
		Files: []component.File{{Path: "f", Content: []byte("x")}},
	}}
	sc, err := NewScratch(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Release()

	ctx := context.Background()
	first, err := sc.GetSnapshot(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	first.Files[0].Content[0] = 'y'

	second, err := sc.GetSnapshot(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if string(second.Files[0].Content) != "x" {
		t.Errorf("cached snapshot was mutated through a returned copy: %q", second.Files[0].Content)
	}
	if src.calls.Load() != 1 {
		t.Errorf("source reads = %d, want 1", src.calls.Load())
	}
	if sc.Len() != 1 {
		t.Errorf("Len = %d, want 1", sc.Len())
	}
}

func TestScratchConcurrentReads(t *testing.T) {
	src := &countingReader{snap: &component.Snapshot{}}
	sc, err := NewScratch(src, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Release()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sc.GetSnapshot(context.Background(), "shared"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestScratchRelease(t *testing.T) {
	sc, err := NewScratch(&countingReader{snap: &component.Snapshot{}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sc.GetSnapshot(context.Background(), "h"); err != nil {
		t.Fatal(err)
	}

	sc.Release()
	sc.Release()

	if sc.Len() != 0 {
		t.Errorf("Len after release = %d", sc.Len())
	}
	if _, err := sc.GetSnapshot(context.Background(), "h"); !errors.Is(err, ErrScratchReleased) {
		t.Fatalf("err = %v, want ErrScratchReleased", err)
	}
}
