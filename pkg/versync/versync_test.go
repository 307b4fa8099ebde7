package versync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/merge"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// newTestClient creates a client with isolated temp paths.
func newTestClient(t *testing.T, dir string, opts Options) *Client {
	t.Helper()
	opts.ProjectRoot = dir
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(dir, "versync.yaml")
	}
	opts.LockfilePath = filepath.Join(dir, "versync.lock")
	opts.NoInherit = true
	client, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, Options{})

	cfg := client.Config()
	if cfg.Store != ".versync/store" || cfg.ManifestFile != "component.yaml" {
		t.Errorf("config defaults not applied: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(dir, ".versync", "store", "objects")); err != nil {
		t.Errorf("store not created: %v", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "versync.yaml", "version: 2\n")
	_, err := New(Options{ProjectRoot: dir, ConfigPath: filepath.Join(dir, "versync.yaml"), NoInherit: true})
	if err == nil || !strings.Contains(err.Error(), "unsupported version 2") {
		t.Fatalf("err = %v", err)
	}
}

func TestAddTagCheckoutRoundTrip(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, Options{})
	ctx := context.Background()

	writeFile(t, dir, "ui/button/index.txt", "v1\n")
	if _, err := client.Add(AddOptions{ID: "ui/button", RootDir: "ui/button"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := client.Add(AddOptions{ID: "ui/card@1.0.0", RootDir: "ui/button"}); err == nil {
		t.Error("expected error adding a versioned id")
	}

	statuses, err := client.Status(ctx, nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 || statuses[0].State != "untracked" {
		t.Fatalf("statuses = %+v", statuses)
	}

	if _, err := client.Tag(ctx, TagOptions{Version: "1.0.0"}); err != nil {
		t.Fatalf("Tag 1.0.0: %v", err)
	}
	writeFile(t, dir, "ui/button/index.txt", "v2\n")
	if _, err := client.Tag(ctx, TagOptions{Version: "2.0.0"}); err != nil {
		t.Fatalf("Tag 2.0.0: %v", err)
	}

	result, err := client.Checkout(ctx, CheckoutOptions{Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(result.Components) != 1 || result.Components[0].ID.String() != "ui/button@1.0.0" {
		t.Fatalf("components = %+v", result.Components)
	}
	if got := readFile(t, dir, "ui/button/index.txt"); got != "v1\n" {
		t.Errorf("index.txt = %q", got)
	}

	statuses, err = client.Status(ctx, []string{"ui/*"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if statuses[0].State != "clean" || !statuses[0].Outdated() {
		t.Errorf("status = %+v", statuses[0])
	}

	result, err = client.Checkout(ctx, CheckoutOptions{Version: "1.0.0"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(result.Failed) != 1 || !errors.Is(result.Failed[0].Err, ErrNoOp) {
		t.Errorf("failed = %+v", result.Failed)
	}
}

type fixedPrompter struct {
	strategy Strategy
	called   bool
}

func (p *fixedPrompter) SelectStrategy(context.Context, []component.ID) (merge.Strategy, error) {
	p.called = true
	return p.strategy, nil
}

func TestCheckoutConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "versync.yaml", "version: 1\ncheckout:\n  strategy: theirs\n")
	client := newTestClient(t, dir, Options{})
	ctx := context.Background()

	writeFile(t, dir, "x/a.txt", "one\ntwo\nthree\n")
	if _, err := client.Add(AddOptions{ID: "x", RootDir: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Tag(ctx, TagOptions{Version: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "x/a.txt", "one\nupstream\nthree\n")
	if _, err := client.Tag(ctx, TagOptions{Version: "2.0.0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Checkout(ctx, CheckoutOptions{Version: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "x/a.txt", "one\nlocal\nthree\n")

	result, err := client.Checkout(ctx, CheckoutOptions{Version: "latest"})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if result.Strategy != StrategyTheirs {
		t.Errorf("strategy = %q, want theirs from config", result.Strategy)
	}
	if got := readFile(t, dir, "x/a.txt"); got != "one\nupstream\nthree\n" {
		t.Errorf("a.txt = %q", got)
	}
}

func TestCheckoutInteractive(t *testing.T) {
	dir := t.TempDir()
	prompter := &fixedPrompter{strategy: StrategyOurs}
	client := newTestClient(t, dir, Options{Prompter: prompter})
	ctx := context.Background()

	writeFile(t, dir, "x/a.txt", "one\ntwo\nthree\n")
	if _, err := client.Add(AddOptions{ID: "x", RootDir: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Tag(ctx, TagOptions{Version: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "x/a.txt", "one\nupstream\nthree\n")
	if _, err := client.Tag(ctx, TagOptions{Version: "2.0.0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Checkout(ctx, CheckoutOptions{Version: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "x/a.txt", "one\nlocal\nthree\n")

	_, err := client.Checkout(ctx, CheckoutOptions{Version: "2.0.0"})
	if !errors.Is(err, ErrMergeBlocked) {
		t.Fatalf("err = %v, want merge blocked", err)
	}
	if prompter.called {
		t.Error("prompted without Interactive")
	}

	if _, err := client.Checkout(ctx, CheckoutOptions{Version: "2.0.0", Interactive: true}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !prompter.called {
		t.Error("expected a prompt")
	}
	if got := readFile(t, dir, "x/a.txt"); got != "one\nlocal\nthree\n" {
		t.Errorf("ours must keep local edits, got %q", got)
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, Options{})
	r, err := client.Info("1.0.0")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if r.Version != "1.0.0" || r.Components != 0 {
		t.Errorf("info = %+v", r)
	}
	if len(r.ConfigChain) != 1 || r.ConfigChain[0].Loaded {
		t.Errorf("config chain = %+v", r.ConfigChain)
	}
}
