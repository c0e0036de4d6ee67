// Command seed manages the store from the command line: schema setup,
// CSV imports and upload scoring.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "seed",
		Short:        "Set up and load the storyfusion store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or config.yaml)")

	e := &env{configPath: &configPath}
	root.AddCommand(
		newInitCmd(e),
		newImportNounsCmd(e),
		newImportPredictionsCmd(e),
		newScoreCmd(e),
	)
	return root
}
