package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/versync/pkg/versync"
)

var addConfigDir string

var addCmd = &cobra.Command{
	Use:   "add <[namespace/]name> <dir>",
	Short: "Start tracking a directory as a component",
	Long: `Adds a directory of the project to the lockfile as an authored component.
The component has no version until it is recorded with 'versync tag'.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		added, err := client.Add(versync.AddOptions{ID: args[0], RootDir: args[1], ConfigDir: addConfigDir})
		if err != nil {
			return err
		}
		info("Tracking %s in %s", added.ID(), added.RootDir)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addConfigDir, "config-dir", "", "directory receiving the component config file")
	rootCmd.AddCommand(addCmd)
}
