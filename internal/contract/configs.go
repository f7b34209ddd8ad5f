package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/lightbox/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // 0 keeps the per-metric display defaults
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxGridSize        = 64
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	Folder      string // absolute path to the photo folder
	Recursive   bool
	ResultLimit int // 0 = per-metric defaults
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CropFactor float64 // adds a 35mm-equivalent focal view when > 0

	GridSize       int
	BlurThreshold  float64
	SharpThreshold float64
	CullBelow      float64 // sharpness cull bound, 0 = no cull
	Trash          bool    // move flagged files to trash

	// The extension sets decide which files each scan touches. They are
	// fixed at validation time and threaded to every component.
	MetadataExts  schema.ExtensionSet
	ForcedExts    schema.ExtensionSet
	DuplicateExts schema.ExtensionSet
	PixelExts     schema.ExtensionSet

	DecoderPath string // external decoder binary, "" = exiftool on PATH

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	FolderStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	NoRecursive      bool   `mapstructure:"no-recursive"`
	Extensions       string `mapstructure:"extensions"`
	DecoderPath      string `mapstructure:"decoder-path"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from metaCmd.Flags() ---
	CropFactor float64 `mapstructure:"crop-factor"`

	// --- Fields from sharpnessCmd.Flags() ---
	Grid           int     `mapstructure:"grid"`
	BlurThreshold  float64 `mapstructure:"blur-threshold"`
	SharpThreshold float64 `mapstructure:"sharp-threshold"`
	Below          float64 `mapstructure:"below"`

	// --- Shared by sharpnessCmd and dupesCmd ---
	Trash bool `mapstructure:"trash"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.MetadataExts = cloneExts(c.MetadataExts)
	clone.ForcedExts = cloneExts(c.ForcedExts)
	clone.DuplicateExts = cloneExts(c.DuplicateExts)
	clone.PixelExts = cloneExts(c.PixelExts)
	return &clone
}

func cloneExts(s schema.ExtensionSet) schema.ExtensionSet {
	if s == nil {
		return nil
	}
	out := make(schema.ExtensionSet, len(s))
	copy(out, s)
	return out
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScanOptions(cfg, input); err != nil {
		return err
	}
	if err := processExtensions(cfg, input); err != nil {
		return err
	}
	if err := resolveFolder(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidCacheBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Validate that cache and history use different databases
		if cfg.CacheBackend == cfg.HistoryBackend && cfg.CacheBackend == schema.SQLiteBackend {
			// Resolve to actual file paths to catch default path conflicts
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-scan related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Recursive = !input.NoRecursive
	cfg.DecoderPath = input.DecoderPath
	cfg.Trash = input.Trash

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processScanOptions validates the per-scan tuning knobs.
func processScanOptions(cfg *Config, input *ConfigRawInput) error {
	if input.CropFactor < 0 {
		return fmt.Errorf("crop-factor cannot be negative (received %g)", input.CropFactor)
	}
	cfg.CropFactor = input.CropFactor

	if input.Grid <= 0 || input.Grid > MaxGridSize {
		return fmt.Errorf("grid must be between 1 and %d (received %d)", MaxGridSize, input.Grid)
	}
	cfg.GridSize = input.Grid

	if input.BlurThreshold < 0 {
		return fmt.Errorf("blur-threshold cannot be negative (received %g)", input.BlurThreshold)
	}
	if input.SharpThreshold < input.BlurThreshold {
		return fmt.Errorf("sharp-threshold (%g) cannot be below blur-threshold (%g)",
			input.SharpThreshold, input.BlurThreshold)
	}
	cfg.BlurThreshold = input.BlurThreshold
	cfg.SharpThreshold = input.SharpThreshold

	if input.Below < 0 {
		return fmt.Errorf("below cannot be negative (received %g)", input.Below)
	}
	cfg.CullBelow = input.Below

	return nil
}

// processExtensions builds the final extension sets, honoring a user override
// of the metadata set. Override entries are normalized to dotted lowercase.
func processExtensions(cfg *Config, input *ConfigRawInput) error {
	cfg.ForcedExts = schema.ForcedDecoderExtensions
	cfg.DuplicateExts = schema.DuplicateExtensions
	cfg.PixelExts = schema.PixelExtensions
	cfg.MetadataExts = schema.MetadataExtensions

	if input.Extensions == "" {
		return nil
	}

	var override schema.ExtensionSet
	for part := range strings.SplitSeq(input.Extensions, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		override = override.Union(ext)
	}
	if len(override) == 0 {
		return fmt.Errorf("extensions override '%s' contains no usable suffixes", input.Extensions)
	}
	cfg.MetadataExts = override
	return nil
}

// resolveFolder resolves the target folder to an absolute path and verifies
// it is a directory.
func resolveFolder(cfg *Config, input *ConfigRawInput) error {
	folder, err := ResolveFolder(input.FolderStr)
	if err != nil {
		return err
	}
	cfg.Folder = folder
	return nil
}

// ResolveFolder turns a user-provided path into a validated absolute folder path.
func ResolveFolder(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("folder path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("folder %q is not accessible: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", path)
	}
	return abs, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
