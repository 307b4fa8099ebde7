// Package config loads versync.yaml. Files are discovered in layers (system,
// user, project) and merged field by field, later layers winning.
package config

import "runtime"

// FileName is the project configuration file name.
const FileName = "versync.yaml"

// Defaults applied after all layers are merged.
const (
	DefaultStore        = ".versync/store"
	DefaultManifestFile = "component.yaml"
	DefaultArtifactsDir = "dist"
)

// DefaultConcurrency bounds parallel status resolution when unset.
var DefaultConcurrency = min(8, runtime.NumCPU())

// Config represents the versync.yaml configuration file.
type Config struct {
	Version      int      `yaml:"version"`
	Store        string   `yaml:"store,omitempty"`
	ManifestFile string   `yaml:"manifest_file,omitempty"`
	ArtifactsDir string   `yaml:"artifacts_dir,omitempty"`
	Concurrency  int      `yaml:"concurrency,omitempty"`
	Install      Install  `yaml:"install,omitempty"`
	Checkout     Checkout `yaml:"checkout,omitempty"`
}

// Install configures dependency materialization after checkout.
type Install struct {
	// Command is run in the component root. Empty disables installation.
	Command []string `yaml:"command,omitempty"`
}

// Checkout holds defaults for the checkout command. Nil pointers are unset
// so a lower layer's value survives the merge.
type Checkout struct {
	Strategy        string `yaml:"strategy,omitempty"`
	Prompt          *bool  `yaml:"prompt,omitempty"`
	SkipInstall     *bool  `yaml:"skip_install,omitempty"`
	IgnoreArtifacts *bool  `yaml:"ignore_artifacts,omitempty"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
	if c.ManifestFile == "" {
		c.ManifestFile = DefaultManifestFile
	}
	if c.ArtifactsDir == "" {
		c.ArtifactsDir = DefaultArtifactsDir
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Bool returns the value of an optional flag, or false when unset.
func Bool(b *bool) bool {
	return b != nil && *b
}
