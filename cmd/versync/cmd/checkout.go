package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/versync/internal/engine"
	"github.com/bianoble/versync/pkg/versync"
)

var (
	checkoutReset           bool
	checkoutOurs            bool
	checkoutTheirs          bool
	checkoutManual          bool
	checkoutInteractive     bool
	checkoutSkipInstall     bool
	checkoutIgnoreArtifacts bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <version|latest> [pattern...]",
	Short: "Move tracked components to another version",
	Long: `Moves every (or every matching) tracked component to the given version.
Local edits are merged with the requested version; when they conflict a
strategy decides the outcome for the whole batch:

  --ours     keep the local files and only update the version
  --theirs   replace the local files with the requested version
  --manual   write conflict markers to resolve by hand

With --reset the local edits are discarded and the current version is
restored. Patterns match component ids without version, e.g. 'ui/*'.
Files are never deleted.`,
	Example: `  versync checkout latest
  versync checkout 2.0.0 'ui/*' --manual
  versync checkout --reset ui/button`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkoutOptions(args)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Checkout(cmd.Context(), opts)
		if result != nil {
			renderCheckout(os.Stdout, result, verbose)
		}
		if err != nil {
			return err
		}
		return failureError(result)
	},
}

// checkoutOptions maps the command line onto library options.
func checkoutOptions(args []string) (versync.CheckoutOptions, error) {
	opts := versync.CheckoutOptions{
		Reset:           checkoutReset,
		Interactive:     checkoutInteractive,
		SkipInstall:     checkoutSkipInstall,
		IgnoreArtifacts: checkoutIgnoreArtifacts,
		Verbose:         verbose,
	}

	if checkoutReset {
		opts.IDs = args
	} else {
		if len(args) == 0 {
			return opts, fmt.Errorf("a version is required: use a version label, '%s', or --reset", engine.LatestKeyword)
		}
		opts.Version = args[0]
		opts.IDs = args[1:]
	}

	switch {
	case checkoutOurs:
		opts.Strategy = versync.StrategyOurs
	case checkoutTheirs:
		opts.Strategy = versync.StrategyTheirs
	case checkoutManual:
		opts.Strategy = versync.StrategyManual
	}
	return opts, nil
}

// renderCheckout prints what happened to every applied component and why
// the others were skipped.
func renderCheckout(w io.Writer, result *versync.CheckoutResult, verbose bool) {
	for _, c := range result.Components {
		fmt.Fprintf(w, "%s\n", paint(styleHeading, c.ID.String()))
		for _, p := range c.Files.Paths() {
			s, _ := c.Files.Get(p)
			if s == engine.FileUpdated && !verbose {
				continue
			}
			fmt.Fprintf(w, "  %-10s %s\n", paint(fileStatusStyle(s), string(s)), p)
		}
		if n := c.Files.Count(engine.FileUpdated); n > 0 && !verbose {
			fmt.Fprintf(w, "  %d file(s) updated\n", n)
		}
		if n := c.Files.Count(engine.FileManual); n > 0 {
			fmt.Fprintf(w, "  %s\n", paint(styleBad, fmt.Sprintf("%d file(s) need a manual merge", n)))
		}
	}

	for _, f := range result.Failed {
		if errors.Is(f.Err, engine.ErrNoOp) {
			fmt.Fprintf(w, "%s\n", paint(styleMuted, f.Message))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", paint(styleBad, "skipped:"), f.Message)
	}
}

// failureError reports failures other than no-ops as a command error.
func failureError(result *versync.CheckoutResult) error {
	n := 0
	for _, f := range result.Failed {
		if !errors.Is(f.Err, engine.ErrNoOp) {
			n++
		}
	}
	if n > 0 {
		return fmt.Errorf("%d component(s) could not be checked out", n)
	}
	return nil
}

func init() {
	f := checkoutCmd.Flags()
	f.BoolVar(&checkoutReset, "reset", false, "discard local edits and restore the current version")
	f.BoolVar(&checkoutOurs, "ours", false, "on conflicts keep the local files")
	f.BoolVar(&checkoutTheirs, "theirs", false, "on conflicts take the requested version")
	f.BoolVar(&checkoutManual, "manual", false, "on conflicts write conflict markers")
	f.BoolVarP(&checkoutInteractive, "interactive", "i", false, "ask for a strategy when conflicts are found")
	f.BoolVar(&checkoutSkipInstall, "skip-install", false, "do not run the install command")
	f.BoolVar(&checkoutIgnoreArtifacts, "ignore-artifacts", false, "do not write derived artifacts")
	checkoutCmd.MarkFlagsMutuallyExclusive("ours", "theirs", "manual")
	checkoutCmd.MarkFlagsMutuallyExclusive("reset", "ours")
	checkoutCmd.MarkFlagsMutuallyExclusive("reset", "theirs")
	checkoutCmd.MarkFlagsMutuallyExclusive("reset", "manual")
	rootCmd.AddCommand(checkoutCmd)
}
