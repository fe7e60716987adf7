package cmd

import (
	"github.com/huangsam/seoscore/core"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/spf13/cobra"
)

// weightsCmd prints the active weight table.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show the active check weights",
	Long: `Print every check weight after applying the config file and --weights-override.

Custom weights for ids that are not built in are listed after the built-in checks.

Examples:
  # Show defaults
  seoscore weights

  # Preview an override
  seoscore weights --weights-override "title_length:3,open_graph:0"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg); err != nil {
			contract.LogFatal("Failed to print weights", err)
		}
	},
}
