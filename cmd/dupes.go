package cmd

import (
	"github.com/huangsam/lightbox/core"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/spf13/cobra"
)

// dupesCmd performs the duplicate analysis.
var dupesCmd = &cobra.Command{
	Use:   "dupes [folder]",
	Short: "Find byte-identical photos wasting disk space.",
	Long: `Group files by size and content hash to find exact duplicate copies.

Files are bucketed by size first, so only size collisions get hashed. Each
duplicate group reports its members and how many bytes would be reclaimed by
keeping a single copy. Use it to:
- Clean up after merging card dumps or backup restores
- Measure how much space duplicate exports are costing
- Remove redundant copies while always preserving one per group

With --trash, every group keeps its first member and moves the rest to the
system trash, never emptying a group.

Examples:
  # Report duplicates in the current folder
  lightbox dupes

  # Scan a library without descending into subfolders
  lightbox dupes ~/Pictures --no-recursive

  # Export the groups for scripting
  lightbox dupes ~/Pictures --output json --output-file dupes.json

  # Reclaim the space
  lightbox dupes ~/Pictures --trash`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDupes(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run duplicate analysis", err)
		}
	},
}
