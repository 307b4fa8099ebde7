package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/versync/pkg/versync"
)

var tagCmd = &cobra.Command{
	Use:   "tag <version> [pattern...]",
	Short: "Record the working copies as a new version",
	Long: `Snapshots the files of every (or every matching) tracked component into the
object store under the given version label, then binds the lockfile to it.
A label that already holds different content is refused.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Tag(cmd.Context(), versync.TagOptions{Version: args[0], IDs: args[1:]})
		if err != nil {
			return err
		}

		for _, t := range result.Tagged {
			info("  %s  %s", paint(styleGood, "tagged"), t.ID)
			detail("snapshot %s", t.Hash)
		}
		for _, f := range result.Failed {
			errorf("%s", f.Message)
		}

		if len(result.Failed) > 0 {
			return fmt.Errorf("%d component(s) could not be tagged", len(result.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
