package outwriter

import (
	"os"

	"github.com/huangsam/adviz/internal/contract"
	"golang.org/x/term"
)

// heatmapCellWidth is the rendered width of one heatmap column including padding.
const heatmapCellWidth = 9

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxLabelWidth calculates the maximum width for entity labels in table output
// given how many fixed-width columns share the line with it.
func GetMaxLabelWidth(cfg *contract.Config, columns int) int {
	// Reserve space for the fixed columns plus borders and separators
	available := terminalWidth(cfg) - columns*heatmapCellWidth - 4
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
