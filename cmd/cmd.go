// Package cmd defines the command-line interface for lightbox.
package cmd

import (
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(sharpnessCmd)
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = per-report default)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("no-recursive", false, "Only scan the top level of the folder")
	rootCmd.PersistentFlags().StringP("extensions", "e", "", "Comma-separated list of file extensions to force-include (e.g. cr3,nef)")
	rootCmd.PersistentFlags().String("decoder-path", "", "Path to an external decoder binary for RAW metadata")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emoji markers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of metaCmd to Viper
	metaCmd.Flags().Float64("crop-factor", 0, "Sensor crop factor for 35mm-equivalent focal lengths (0 = skip)")
	if err := viper.BindPFlags(metaCmd.Flags()); err != nil {
		contract.LogFatal("Error binding meta flags", err)
	}

	// Bind all flags of sharpnessCmd to Viper
	sharpnessCmd.Flags().Int("grid", schema.DefaultGridSize, "Blocks per axis for the sharpness grid")
	sharpnessCmd.Flags().Float64("blur-threshold", schema.DefaultBlurThreshold, "Scores below this are labeled blurry")
	sharpnessCmd.Flags().Float64("sharp-threshold", schema.DefaultSharpThreshold, "Scores at or above this are labeled sharp")
	sharpnessCmd.Flags().Float64("below", 0, "Cull files scoring below this value (0 = disabled)")
	sharpnessCmd.Flags().Bool("trash", false, "Move culled or duplicate files to the system trash")
	if err := viper.BindPFlags(sharpnessCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sharpness flags", err)
	}

	// Bind all flags of dupesCmd to Viper
	dupesCmd.Flags().Bool("trash", false, "Move redundant duplicate copies to the system trash")
	if err := viper.BindPFlags(dupesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dupes flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
