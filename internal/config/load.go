package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/versync/internal/merge"
)

// Load reads and validates a single versync.yaml file.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads only the project file. VERSYNC_NO_INHERIT has the same effect.
	NoInherit bool
}

// HierarchicalResult is the merged config plus what was found at each level.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical discovers every config layer, merges the ones that exist
// and validates the result. Missing layers are skipped; a project without any
// config file gets the defaults.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	result := &HierarchicalResult{}
	if opts.NoInherit || EnvNoInherit() {
		result.Layers = []ConfigLayerInfo{{Path: opts.ProjectPath, Level: LevelProject}}
	} else {
		result.Layers = DiscoverPaths(DiscoverOptions{
			ProjectPath:      opts.ProjectPath,
			SystemConfigPath: opts.SystemConfigPath,
			UserConfigPath:   opts.UserConfigPath,
		})
	}

	var configs []*Config
	for i := range result.Layers {
		cfg, err := parse(result.Layers[i].Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			result.Layers[i].Err = err
			return result, err
		}
		result.Layers[i].Loaded = true
		configs = append(configs, cfg)
	}

	merged := &Config{Version: 1}
	if len(configs) > 0 {
		var err error
		if merged, err = MergeAll(configs); err != nil {
			return result, err
		}
		if merged.Version == 0 {
			merged.Version = 1
		}
	}

	if errs := Validate(merged); len(errs) > 0 {
		return result, &ValidationError{Errors: errs}
	}
	merged.ApplyDefaults()
	result.Config = merged
	return result, nil
}

func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency: must not be negative, got %d", cfg.Concurrency))
	}

	if strings.ContainsAny(cfg.ManifestFile, `/\`) {
		errs = append(errs, fmt.Sprintf("manifest_file: '%s' must be a file name, not a path", cfg.ManifestFile))
	}

	if cfg.Checkout.Strategy != "" {
		if _, err := merge.ParseStrategy(cfg.Checkout.Strategy); err != nil {
			errs = append(errs, "checkout: "+err.Error())
		}
	}

	if len(cfg.Install.Command) > 0 && strings.TrimSpace(cfg.Install.Command[0]) == "" {
		errs = append(errs, "install: 'command' must start with a program name")
	}

	return errs
}
