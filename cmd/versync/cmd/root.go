package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/versync/internal/config"
	"github.com/bianoble/versync/internal/lock"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath   string
	lockfilePath string
	storeDir     string
	verbose      bool
	quiet        bool
	noColor      bool
	noInherit    bool
)

var rootCmd = &cobra.Command{
	Use:   "versync",
	Short: "Version and check out the components of a project",
	Long: `versync records versions of components that live inside a project and
moves them between versions. Local edits are reconciled with the requested
version by a three-way merge; files are never deleted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("versync %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to config file")
	rootCmd.PersistentFlags().StringVar(&lockfilePath, "lockfile", lock.DefaultFileName, "path to lockfile")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "object store directory (default from config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noInherit, "no-inherit", false, "ignore system and user config files")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
