package cmd

import (
	"github.com/huangsam/lightbox/core"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/spf13/cobra"
)

// metaCmd performs the metadata analysis.
var metaCmd = &cobra.Command{
	Use:   "meta [folder]",
	Short: "Summarize capture settings across a photo library.",
	Long: `Read EXIF metadata from every photo and aggregate it into distributions.

Builds ranked frequency tables for aperture, shutter speed, ISO, focal length,
lens model and the aperture/shutter/ISO exposure combo, helping you:
- See which focal lengths and apertures you actually shoot with
- Spot lenses that rarely leave the bag
- Compare exposure habits across bodies or trips
- Decide what gear to bring, keep or sell

Files without readable metadata still count toward the scan total, so the
report always tells you how much of the library it could see into.

Examples:
  # Summarize the current folder
  lightbox meta

  # Summarize a library with 35mm-equivalent focal lengths for APS-C
  lightbox meta ~/Pictures --crop-factor 1.5

  # Top 10 entries per table, CSV export
  lightbox meta ~/Pictures --limit 10 --output csv --output-file habits.csv

  # Include RAW files via an external decoder
  lightbox meta ~/Pictures -e cr3,nef --decoder-path /usr/local/bin/exiftool`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMeta(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run metadata analysis", err)
		}
	},
}
