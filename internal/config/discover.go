package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const configDirName = "versync"

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level config path (required).
	ProjectPath string

	// SystemConfigPath and UserConfigPath override the OS defaults. Point
	// them at a nonexistent path to skip a level.
	SystemConfigPath string
	UserConfigPath   string
}

// DiscoverPaths returns the config layers to check, lowest precedence
// first. A file reachable from two levels is only listed at the lower one.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	candidates := []ConfigLayerInfo{
		{Level: LevelSystem, Path: orDefault(opts.SystemConfigPath, defaultSystemConfigPath)},
		{Level: LevelUser, Path: orDefault(opts.UserConfigPath, defaultUserConfigPath)},
		{Level: LevelProject, Path: opts.ProjectPath},
	}

	var layers []ConfigLayerInfo
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c.Path == "" {
			continue
		}
		abs, err := filepath.Abs(c.Path)
		if err != nil {
			abs = c.Path
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		layers = append(layers, c)
	}
	return layers
}

func orDefault(p string, def func() string) string {
	if p != "" {
		return p
	}
	return def()
}

func defaultSystemConfigPath() string {
	if runtime.GOOS == "windows" {
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, configDirName, FileName)
	}
	return filepath.Join("/etc", configDirName, FileName)
}

func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileName)
}

// EnvNoInherit reports whether VERSYNC_NO_INHERIT is "1" or "true", which
// restricts loading to the project file.
func EnvNoInherit() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("VERSYNC_NO_INHERIT")))
	return v == "1" || v == "true"
}
