package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [pattern...]",
	Short: "Show the state of tracked components",
	Long: `Shows every (or every matching) tracked component with its checked-out
version, the latest recorded version, and its state: clean, modified,
untracked (never recorded) or missing (no directory in the lockfile).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		statuses, err := client.Status(cmd.Context(), args)
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			info("No components tracked.")
			return nil
		}

		fmt.Println(paint(styleHeading, fmt.Sprintf("%-30s %-12s %-12s %s", "COMPONENT", "VERSION", "LATEST", "STATE")))
		for _, s := range statuses {
			ver := s.Version
			if ver == "" {
				ver = "-"
			}
			latest := s.Latest
			if latest == "" {
				latest = "-"
			}
			if s.Outdated() {
				latest = paint(styleWarn, fmt.Sprintf("%-12s", latest))
			} else {
				latest = fmt.Sprintf("%-12s", latest)
			}
			fmt.Printf("%-30s %-12s %s %s\n", s.ID, ver, latest, paint(stateStyle(s.State), string(s.State)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
