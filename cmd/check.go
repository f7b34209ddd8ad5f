package cmd

import (
	"github.com/huangsam/lightbox/core"
	"github.com/spf13/cobra"
)

// checkCmd probes external collaborators before a long scan.
var checkCmd = &cobra.Command{
	Use:   "check [folder]",
	Short: "Verify decoder, trash and database connectivity (fails on broken setup)",
	Long: `Probe every external collaborator a scan depends on and report each one.

Checks the metadata decoder binary, the system trash location, the scan cache
backend and the run history backend. Exits non-zero when any probe fails, so
it can gate automated culling jobs before they touch real files.

Use cases:
- Validate a new machine or container before the first big scan
- Confirm database connectivity for mysql/postgresql backends
- Make sure --trash has somewhere to move files before a cull

Examples:
  # Check the default setup
  lightbox check

  # Check a MySQL-backed setup
  lightbox check --cache-backend mysql --cache-db-connect "user:pass@tcp(localhost:3306)/lightbox"

  # Check a custom decoder
  lightbox check --decoder-path /usr/local/bin/exiftool`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// A failed probe returns an error so the process exits non-zero.
		return core.ExecuteCheck(rootCtx, cfg, cacheManager)
	},
}
