package cmd

import (
	"github.com/huangsam/lightbox/core"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/spf13/cobra"
)

// sharpnessCmd performs the sharpness analysis.
var sharpnessCmd = &cobra.Command{
	Use:   "sharpness [folder]",
	Short: "Rank photos by focus quality using edge variance.",
	Long: `Decode every photo and score its sharpness with a Laplacian edge filter.

Each image is split into a grid of blocks and the strongest block variance
becomes the score, so a portrait with a tack-sharp eye against creamy bokeh
still ranks as sharp. Use it to:
- Surface the softest frames in a burst for deletion
- Verify a lens or focus-calibration problem across a shoot
- Cull below a score floor without opening an editor

Scores depend on image content, so thresholds are tunable per library.
Cached scores are reused across runs when the grid matches.

Examples:
  # Rank the current folder
  lightbox sharpness

  # Tighter grid and custom thresholds
  lightbox sharpness ~/Pictures --grid 16 --blur-threshold 80 --sharp-threshold 400

  # Preview a cull below a score floor
  lightbox sharpness ~/Pictures --below 50

  # Actually move the culled files to the system trash
  lightbox sharpness ~/Pictures --below 50 --trash`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSharpness(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run sharpness analysis", err)
		}
	},
}
