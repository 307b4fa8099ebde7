package engine

import (
	"github.com/bianoble/versync/internal/config"
	"github.com/bianoble/versync/internal/lock"
	"github.com/bianoble/versync/internal/store"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version     string
	ConfigPath  string
	LockPath    string
	StoreDir    string
	ConfigChain []ConfigLayerStatus
	StoreSize   int64
	Components  int
	Versioned   int
}

// Info gathers tool information.
func Info(version string, layers []config.ConfigLayerInfo, st *store.Store, lf *lock.Lockfile, configPath, lockPath string) (*InfoResult, error) {
	r := &InfoResult{
		Version:    version,
		ConfigPath: configPath,
		LockPath:   lockPath,
	}

	for _, l := range layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	if st != nil {
		r.StoreDir = st.Path()
		if size, err := st.Size(); err == nil {
			r.StoreSize = size
		}
	}

	if lf != nil {
		r.Components = len(lf.Components)
		for _, c := range lf.Components {
			if c.Version != "" {
				r.Versioned++
			}
		}
	}

	return r, nil
}
