package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/seoscore/core"
	"github.com/huangsam/seoscore/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd fetches pages, runs the built-in checks and ranks them.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|file|dir>...",
	Short: "Run the built-in SEO checks on pages and rank them worst first",
	Long: `Fetch or read each page, run the built-in on-page checks and score it.

Sources may be http(s) URLs, HTML files or directories. Directories are
walked for files matching --include. Fetched pages are cached in the
configured cache backend for --cache-ttl.

Pages are ranked from lowest to highest score. Use --explain to show the
worst checks of every page and a full breakdown when a single page is given.

Examples:
  # Analyze a live page
  seoscore analyze https://example.com

  # Analyze a static site build
  seoscore analyze ./public --limit 20 --explain

  # Export every page and check to Parquet
  seoscore analyze ./public --output parquet --output-file site.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runPages(core.ExecuteAnalyze, "Analysis failed"),
}

// runPages adapts a page executor into a cobra Run function.
// A failed score gate exits 1 without the fatal error prefix.
func runPages(execute core.ExecutorFunc, failMsg string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		err := execute(rootCtx, cfg, cacheManager, args)
		if errors.Is(err, core.ErrPolicyFailed) {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			_ = StopProfiling()
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal(failMsg, err)
		}
	}
}
