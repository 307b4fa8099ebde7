package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/versync/internal/component"
)

// Load reads and validates a versync.lock file.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile %s: %w", path, err)
	}

	if errs := Validate(&lf); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &lf, nil
}

// Save writes a lockfile atomically using a temp file and rename.
func Save(path string, lf *Lockfile) error {
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lockfile: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp lockfile %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp lockfile to %s: %w", path, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lockfile validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Lockfile for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(lf *Lockfile) []string {
	var errs []string

	if lf.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", lf.Version))
	}

	seen := make(map[string]bool)
	for i, c := range lf.Components {
		prefix := fmt.Sprintf("component[%d]", i)
		if c.Name != "" {
			prefix = fmt.Sprintf("component '%s'", c.ID().WithoutVersion())
		}

		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if key := c.ID().WithoutVersion(); seen[key] {
			errs = append(errs, fmt.Sprintf("%s: duplicate component", prefix))
		} else {
			seen[key] = true
		}

		if c.Origin != "" && !component.Origin(c.Origin).Valid() {
			errs = append(errs, fmt.Sprintf("%s: invalid origin '%s' — must be one of: authored, imported, nested", prefix, c.Origin))
		}

		if filepath.IsAbs(c.RootDir) || filepath.IsAbs(c.ConfigDir) {
			errs = append(errs, fmt.Sprintf("%s: root_dir and config_dir must be relative to the project root", prefix))
		}
	}

	return errs
}
