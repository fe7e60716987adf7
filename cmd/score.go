package cmd

import (
	"github.com/huangsam/seoscore/core"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores precomputed check results.
var scoreCmd = &cobra.Command{
	Use:   "score [checks-file...]",
	Short: "Score precomputed check results from JSON or YAML",
	Long: `Aggregate check results that were produced elsewhere into a 0-100 score.

Each input is a JSON or YAML mapping of check id to result:

  title_length:
    status: pass
    weight: 0.3
    label: Title length
  meta_description:
    status: warn
    fix_hint: Write a description of 70 to 160 characters.

Statuses are pass, warn or fail. Anything else scores as a failure.
Weights come from the built-in table and --weights-override first, then
from the check itself, then default to 1.0. Use --weight-precedence embedded
to let the check's own weight win.

Reads from stdin when no file is given or the file is "-".

Examples:
  # Score a checks file
  seoscore score checks.yaml

  # Pipe checks from another tool
  crawler --dump-checks | seoscore score --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteScore(rootCtx, cfg, args); err != nil {
			contract.LogFatal("Score failed", err)
		}
	},
}
