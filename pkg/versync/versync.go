// Package versync provides the public Go library API for versync.
//
// versync records versions of components living in a project and moves them
// between versions, reconciling local edits with the requested version.
//
// # Basic Usage
//
//	client, err := versync.New(versync.Options{
//	    ProjectRoot:  "/path/to/project",
//	    ConfigPath:   "versync.yaml",
//	    LockfilePath: "versync.lock",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Record the current working copies as 1.0.0
//	tagged, err := client.Tag(ctx, versync.TagOptions{Version: "1.0.0"})
//
//	// Move every component to its latest version
//	result, err := client.Checkout(ctx, versync.CheckoutOptions{Version: "latest"})
package versync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bianoble/versync/internal/component"
	"github.com/bianoble/versync/internal/config"
	"github.com/bianoble/versync/internal/engine"
	"github.com/bianoble/versync/internal/install"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/merge"
	"github.com/bianoble/versync/internal/store"
	"github.com/bianoble/versync/internal/worktree"
)

// Options configures a versync client.
type Options struct {
	// ProjectRoot is the directory containing versync.yaml.
	// If empty, defaults to the directory containing ConfigPath.
	ProjectRoot string

	// ConfigPath is the path to the config file. Default: "versync.yaml".
	ConfigPath string

	// LockfilePath is the path to the lockfile. Default: "versync.lock".
	LockfilePath string

	// StoreDir overrides the store location from the config.
	StoreDir string

	// NoInherit disables system and user config layers.
	NoInherit bool

	// Logger receives engine logs. Nil discards them.
	Logger *zap.Logger

	// Prompter asks for a merge strategy on interactive checkouts.
	Prompter Prompter

	// InstallOutput receives install command output on verbose checkouts.
	InstallOutput io.Writer
}

// CheckoutOptions configures a checkout operation.
type CheckoutOptions struct {
	// Version is a recorded label or "latest". Ignored when Reset is set.
	Version string
	Reset   bool

	// IDs are glob patterns on component ids without version; empty selects all.
	IDs []string

	// Strategy resolves conflicts. Empty falls back to the configured default.
	Strategy Strategy

	// Interactive allows prompting for a strategy.
	Interactive     bool
	SkipInstall     bool
	IgnoreArtifacts bool
	Verbose         bool
}

// TagOptions configures a tag operation.
type TagOptions struct {
	Version string
	IDs     []string
}

// AddOptions describes a directory to start tracking.
type AddOptions struct {
	// ID is "namespace/name" or "name".
	ID        string
	RootDir   string
	ConfigDir string
}

// Client is the main entry point for the versync library.
type Client struct {
	projectRoot  string
	configPath   string
	lockfilePath string

	cfg    *config.Config
	layers []config.ConfigLayerInfo
	store  *store.Store
	tree   *worktree.Tree

	log        *zap.Logger
	prompter   Prompter
	installOut io.Writer
}

// New creates a new versync Client. A missing config file is not an error;
// the defaults apply.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.FileName
	}
	if opts.LockfilePath == "" {
		opts.LockfilePath = lock.DefaultFileName
	}

	root := opts.ProjectRoot
	if root == "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		root = filepath.Dir(abs)
	}

	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: opts.ConfigPath,
		NoInherit:   opts.NoInherit,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := hr.Config

	storeDir := opts.StoreDir
	if storeDir == "" {
		storeDir = cfg.Store
	}
	if !filepath.IsAbs(storeDir) {
		storeDir = filepath.Join(root, storeDir)
	}
	st, err := store.New(storeDir)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		projectRoot:  root,
		configPath:   opts.ConfigPath,
		lockfilePath: opts.LockfilePath,
		cfg:          cfg,
		layers:       hr.Layers,
		store:        st,
		tree: &worktree.Tree{
			ProjectRoot:  root,
			ManifestFile: cfg.ManifestFile,
			ArtifactsDir: cfg.ArtifactsDir,
		},
		log:        log,
		prompter:   opts.Prompter,
		installOut: opts.InstallOutput,
	}, nil
}

// Config returns the merged configuration the client runs with.
func (c *Client) Config() *config.Config {
	return c.cfg
}

func (c *Client) loadLockfile() (*lock.Lockfile, error) {
	lf, err := lock.Load(c.lockfilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return lock.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return lf, nil
}

// Checkout moves the selected components to the requested version. Options
// left unset fall back to the checkout defaults of the config.
func (c *Client) Checkout(ctx context.Context, opts CheckoutOptions) (*CheckoutResult, error) {
	target, err := engine.ParseTarget(opts.Version, opts.Reset)
	if err != nil {
		return nil, err
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}

	defaults := c.cfg.Checkout
	strategy := opts.Strategy
	if strategy == "" {
		if strategy, err = merge.ParseStrategy(defaults.Strategy); err != nil {
			return nil, err
		}
	}

	eng := &engine.CheckoutEngine{
		Store:    c.store,
		Tree:     c.tree,
		Lock:     lf,
		Prompter: c.prompter,
		Installer: &install.CommandInstaller{
			ProjectRoot: c.projectRoot,
			Command:     c.cfg.Install.Command,
			Output:      c.installOut,
			Log:         c.log,
		},
		Log:         c.log,
		LockPath:    c.lockfilePath,
		Concurrency: c.cfg.Concurrency,
	}

	return eng.Checkout(ctx, engine.CheckoutOptions{
		Target:          target,
		IDs:             opts.IDs,
		Strategy:        strategy,
		Prompt:          opts.Interactive || config.Bool(defaults.Prompt),
		SkipInstall:     opts.SkipInstall || config.Bool(defaults.SkipInstall),
		IgnoreArtifacts: opts.IgnoreArtifacts || config.Bool(defaults.IgnoreArtifacts),
		Verbose:         opts.Verbose,
	})
}

// Status reports the state of all (or matching) tracked components.
func (c *Client) Status(ctx context.Context, ids []string) ([]ComponentStatus, error) {
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}
	eng := &engine.StatusEngine{Store: c.store, Tree: c.tree}
	return eng.Status(ctx, lf, ids)
}

// Tag records the working copies of the selected components as a new version.
func (c *Client) Tag(ctx context.Context, opts TagOptions) (*TagResult, error) {
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}
	eng := &engine.TagEngine{
		Store:    c.store,
		Tree:     c.tree,
		Source:   c.tree,
		Lock:     lf,
		LockPath: c.lockfilePath,
		Log:      c.log,
	}
	return eng.Tag(ctx, engine.TagOptions{Version: opts.Version, IDs: opts.IDs})
}

// Add starts tracking a directory as an authored component and saves the lockfile.
func (c *Client) Add(opts AddOptions) (*LockedComponent, error) {
	id, err := component.ParseID(opts.ID)
	if err != nil {
		return nil, err
	}
	if id.Version != "" {
		return nil, fmt.Errorf("component %s: a new component has no version; use tag to record one", opts.ID)
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}

	added, err := engine.Add(c.projectRoot, lf, engine.AddOptions{ID: id, RootDir: opts.RootDir, ConfigDir: opts.ConfigDir})
	if err != nil {
		return nil, err
	}
	if err := lock.Save(c.lockfilePath, lf); err != nil {
		return nil, fmt.Errorf("saving lockfile: %w", err)
	}
	return added, nil
}

// Info gathers tool information. version is the running tool version.
func (c *Client) Info(version string) (*InfoResult, error) {
	lf, err := c.loadLockfile()
	if err != nil {
		lf = nil
	}
	return engine.Info(version, c.layers, c.store, lf, c.configPath, c.lockfilePath)
}
