package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base.
//   - version: must agree if both declare it (non-zero); fatal error on mismatch
//   - scalar fields: overlay wins when set
//   - install.command: replaced wholesale when the overlay sets one
//   - checkout flags: overlay wins per flag when set
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.Store = pick(base.Store, overlay.Store)
	result.ManifestFile = pick(base.ManifestFile, overlay.ManifestFile)
	result.ArtifactsDir = pick(base.ArtifactsDir, overlay.ArtifactsDir)

	result.Concurrency = base.Concurrency
	if overlay.Concurrency != 0 {
		result.Concurrency = overlay.Concurrency
	}

	result.Install.Command = base.Install.Command
	if len(overlay.Install.Command) > 0 {
		result.Install.Command = overlay.Install.Command
	}

	result.Checkout = Checkout{
		Strategy:        pick(base.Checkout.Strategy, overlay.Checkout.Strategy),
		Prompt:          pickBool(base.Checkout.Prompt, overlay.Checkout.Prompt),
		SkipInstall:     pickBool(base.Checkout.SkipInstall, overlay.Checkout.SkipInstall),
		IgnoreArtifacts: pickBool(base.Checkout.IgnoreArtifacts, overlay.Checkout.IgnoreArtifacts),
	}

	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d — all config layers must agree on version", base, overlay)
	}
	return nil
}

func pick(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func pickBool(base, overlay *bool) *bool {
	if overlay != nil {
		return overlay
	}
	return base
}
