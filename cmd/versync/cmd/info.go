package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the versync configuration and store",
	Long: `Displays the versync version, the config layers that were found, the
lockfile path, the object store directory and size, and how many tracked
components have a recorded version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Info(version)
		if err != nil {
			return err
		}

		fmt.Printf("versync %s\n", result.Version)

		if len(result.ConfigChain) > 1 {
			fmt.Println("  config chain:")
			for _, layer := range result.ConfigChain {
				status := paint(styleMuted, "not found")
				if layer.Loaded {
					status = paint(styleGood, "loaded")
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		} else {
			fmt.Printf("  config:        %s\n", result.ConfigPath)
		}

		fmt.Printf("  lockfile:      %s\n", result.LockPath)
		fmt.Printf("  store dir:     %s\n", result.StoreDir)
		fmt.Printf("  store size:    %s\n", humanSize(result.StoreSize))
		fmt.Printf("  components:    %d (%d versioned)\n", result.Components, result.Versioned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
