package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lanes/internal/config"
)

var flagConfigOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or save the default config",
	Long: `Print the default lanes config as YAML, or write it to a file to
use as a starting point for 'lanes play --config'.

Examples:
  lanes config
  lanes config --out ~/.lanes/configs/lanes.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigOut, "out", "", "Write the config to this file instead of stdout")
}

func runConfig(cmd *cobra.Command, args []string) {
	if flagConfigOut == "" {
		os.Stdout.Write(config.GetDefaultYAML())
		return
	}

	if err := config.DefaultLanesConfig().WriteYAML(flagConfigOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", flagConfigOut)
}
