package contract

import (
	"fmt"
	"maps"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/seoscore/core/algo"
	"github.com/huangsam/seoscore/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultMinScore     = algo.YellowThreshold
	DefaultTimeout      = 15 * time.Second
	DefaultCacheTTL     = time.Hour
	DefaultMaxPageBytes = 5 << 20
	DefaultUserAgent    = "seoscore/1.0 (+https://github.com/huangsam/seoscore)"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultInclude is the set of globs used when a directory is given as a source.
var DefaultInclude = []string{"**/*.html", "**/*.htm"}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for scoring and analysis.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Explain     bool
	Width       int // Terminal width override (0 = auto-detect)
	Include     []string

	Timeout      time.Duration
	UserAgent    string
	MaxPageBytes int64
	CacheTTL     time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	// CustomWeights is a mapping of check id to weight from the config file or flags
	CustomWeights map[string]float64

	// ComputedWeights is the final weight table, computed from defaults + custom overrides
	ComputedWeights map[string]float64

	WeightPrecedence schema.WeightPrecedence

	MinScore int
	FailOn   schema.ScoreStatus

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit             int    `mapstructure:"limit"`
	Workers           int    `mapstructure:"workers"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Include           string `mapstructure:"include"`
	Timeout           string `mapstructure:"timeout"`
	UserAgent         string `mapstructure:"user-agent"`
	MaxPageBytes      int64  `mapstructure:"max-page-bytes"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`
	WeightPrecedence  string `mapstructure:"weight-precedence"`
	WeightsStr        string `mapstructure:"weights-override"`

	// --- Fields from analyzeCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from checkCmd.Flags() ---
	MinScore int    `mapstructure:"min-score"`
	FailOn   string `mapstructure:"fail-on"`

	// --- Custom weights from config file ---
	Weights map[string]float64 `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Include != nil {
		clone.Include = make([]string, len(c.Include))
		copy(clone.Include, c.Include)
	}
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[string]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	if c.ComputedWeights != nil {
		clone.ComputedWeights = make(map[string]float64, len(c.ComputedWeights))
		maps.Copy(clone.ComputedWeights, c.ComputedWeights)
	}
	return &clone
}

// WeightProvider returns the computed weight table as a provider for the scoring engine.
func (c *Config) WeightProvider() algo.WeightProvider {
	return algo.StaticWeights(c.ComputedWeights)
}

// NewScoreEngine builds a scoring engine from the weight settings of the config.
func (c *Config) NewScoreEngine() *algo.ScoreEngine {
	return algo.NewScoreEngine(c.WeightProvider(), algo.WithWeightPrecedence(c.WeightPrecedence))
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFetchSettings(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	if err := processPolicy(cfg, input); err != nil {
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
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
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

// validateBackendConfigs validates page cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output and concurrency fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using parquet output")
	}

	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	cfg.Include = DefaultInclude
	if input.Include != "" {
		cfg.Include = nil
		for p := range strings.SplitSeq(input.Include, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Include = append(cfg.Include, trimmed)
			}
		}
	}

	return nil
}

// processFetchSettings parses timeouts and limits used when fetching pages.
func processFetchSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s'. expected a positive duration like 15s", input.Timeout)
		}
		cfg.Timeout = d
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		d, err := time.ParseDuration(input.CacheTTL)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid cache-ttl '%s'. expected a duration like 1h, or 0 to disable", input.CacheTTL)
		}
		cfg.CacheTTL = d
	}

	cfg.UserAgent = strings.TrimSpace(input.UserAgent)
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	cfg.MaxPageBytes = input.MaxPageBytes
	if cfg.MaxPageBytes <= 0 {
		cfg.MaxPageBytes = DefaultMaxPageBytes
	}
	return nil
}

// processCustomWeights validates the custom weights and computes the final weight table.
// The --weights-override flag takes precedence over the config file.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	custom := make(map[string]float64)
	for id, w := range input.Weights {
		custom[strings.ToLower(strings.TrimSpace(id))] = w
	}
	if input.WeightsStr != "" {
		parsed, err := ParseWeightsString(input.WeightsStr)
		if err != nil {
			return fmt.Errorf("invalid --weights-override format: %w", err)
		}
		maps.Copy(custom, parsed)
	}

	for id, w := range custom {
		if id == "" {
			return fmt.Errorf("custom weights must use a non-empty check id")
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("weight for check %s must be a finite number >= 0 (received %v)", id, w)
		}
	}
	cfg.CustomWeights = custom

	cfg.ComputedWeights = make(map[string]float64)
	for id, w := range schema.GetDefaultWeights() {
		cfg.ComputedWeights[string(id)] = w
	}
	maps.Copy(cfg.ComputedWeights, custom)

	cfg.WeightPrecedence = schema.WeightPrecedence(strings.ToLower(input.WeightPrecedence))
	if cfg.WeightPrecedence == "" {
		cfg.WeightPrecedence = schema.ProviderFirst
	}
	if _, ok := schema.ValidWeightPrecedences[cfg.WeightPrecedence]; !ok {
		return fmt.Errorf("invalid weight precedence '%s'. must be provider, embedded", input.WeightPrecedence)
	}
	return nil
}

// processPolicy validates the gate settings of the check command.
func processPolicy(cfg *Config, input *ConfigRawInput) error {
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %d)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	cfg.FailOn = schema.ScoreStatus(strings.ToLower(input.FailOn))
	if cfg.FailOn == "" {
		cfg.FailOn = schema.RedStatus
	}
	if cfg.FailOn != schema.RedStatus && cfg.FailOn != schema.YellowStatus {
		return fmt.Errorf("invalid fail-on status '%s'. must be red, yellow", input.FailOn)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ParseWeightsString parses a string like "title_length:2,meta_description:1"
// into a map of check id to weight.
func ParseWeightsString(s string) (map[string]float64, error) {
	weights := make(map[string]float64)

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid weight format '%s', expected 'check:value'", part)
		}

		id := strings.ToLower(strings.TrimSpace(keyValue[0]))
		valueStr := strings.TrimSpace(keyValue[1])
		if id == "" {
			return nil, fmt.Errorf("invalid weight format '%s', check id is empty", part)
		}

		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value '%s' for check %s: %w", valueStr, id, err)
		}

		weights[id] = value
	}

	return weights, nil
}
