package outwriter

import (
	"os"

	"github.com/huangsam/seoscore/internal/contract"
	"golang.org/x/term"
)

// getMaxTableSourceWidth calculates the maximum width for page sources in table output
// based on terminal width and table configuration.
func getMaxTableSourceWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Status with borders/padding
	baseWidth := 30
	if cfg.Explain {
		baseWidth += 45 // Worst checks column
	}
	baseWidth += 10 // Separators and padding

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}
