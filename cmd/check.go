package cmd

import (
	"github.com/huangsam/seoscore/core"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <url|file|dir>...",
	Short: "Enforce a minimum SEO score for CI/CD pipelines (fails build on violations)",
	Long: `Analyze pages and fail with a non-zero exit code when any page misses the gate.

A page fails when its score is below --min-score or its status is at or
below --fail-on. The default gate is a score of 50 and a red status.

Use cases:
- Pull request gates for static sites and docs
- Release validation of landing pages
- Preventing regressions in page metadata

Examples:
  # Gate a static site build
  seoscore check ./public

  # Require every page to be green
  seoscore check ./public --min-score 80 --fail-on yellow

  # Gate production pages
  seoscore check https://example.com https://example.com/pricing`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runPages(core.ExecuteCheck, "Policy check failed"),
}
