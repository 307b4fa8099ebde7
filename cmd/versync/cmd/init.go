package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/versync/internal/lock"
)

var initForce bool

// initTemplate is the default versync.yaml scaffold.
const initTemplate = `# versync configuration
version: 1

# Object store holding every recorded version (relative to this file).
store: .versync/store

# Per-component manifest file and derived artifacts directory.
# manifest_file: component.yaml
# artifacts_dir: dist

# Parallel status resolution during checkout.
# concurrency: 8

# Command run in a component root after checkout. The dependency ids are
# passed in VERSYNC_DEPENDENCIES.
# install:
#   command: [npm, install]

# Defaults for 'versync checkout'.
checkout:
  # strategy: manual        # ours | theirs | manual
  prompt: true
  # skip_install: false
  # ignore_artifacts: false
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter versync.yaml and an empty lockfile",
	Long: `Creates a versync.yaml file with a commented template and, when missing,
an empty versync.lock workspace map.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		info("Created %s", outPath)

		if _, err := os.Stat(lockfilePath); errors.Is(err, fs.ErrNotExist) {
			if err := lock.Save(lockfilePath, lock.New()); err != nil {
				return fmt.Errorf("writing lockfile: %w", err)
			}
			info("Created %s", lockfilePath)
		}

		info("")
		info("Next steps:")
		info("  1. Run 'versync add <name> <dir>' for every component")
		info("  2. Run 'versync tag <version>' to record them")
		info("  3. Run 'versync checkout <version|latest>' to move between versions")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
