package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/seoscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        10,
		Workers:      4,
		Precision:    1,
		Output:       "text",
		CacheBackend: "none",
		Emoji:        "no",
		Color:        "yes",
		MinScore:     50,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "unknown output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "PARQUET"; in.OutputFile = "out" }},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without conn", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "soon" }, expectError: true},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "-1s" }, expectError: true},
		{name: "bad cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "forever" }, expectError: true},
		{name: "zero cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "0s" }},
		{name: "negative weight", mutate: func(in *ConfigRawInput) { in.Weights = map[string]float64{"title_length": -1} }, expectError: true},
		{name: "bad weights override", mutate: func(in *ConfigRawInput) { in.WeightsStr = "title_length=2" }, expectError: true},
		{name: "bad precedence", mutate: func(in *ConfigRawInput) { in.WeightPrecedence = "random" }, expectError: true},
		{name: "min score too high", mutate: func(in *ConfigRawInput) { in.MinScore = 101 }, expectError: true},
		{name: "fail on green", mutate: func(in *ConfigRawInput) { in.FailOn = "green" }, expectError: true},
		{name: "fail on yellow", mutate: func(in *ConfigRawInput) { in.FailOn = "YELLOW" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, int64(DefaultMaxPageBytes), cfg.MaxPageBytes)
	assert.Equal(t, DefaultInclude, cfg.Include)
	assert.Equal(t, schema.ProviderFirst, cfg.WeightPrecedence)
	assert.Equal(t, schema.RedStatus, cfg.FailOn)
	assert.Len(t, cfg.ComputedWeights, len(schema.AllCheckIDs))
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
}

func TestProcessCustomWeights(t *testing.T) {
	input := validInput()
	input.Weights = map[string]float64{"Title_Length": 5, "custom_check": 0.25}
	input.WeightsStr = "title_length:3, meta_description:0"
	input.WeightPrecedence = "Embedded"
	input.Include = "*.html, docs/**/*.htm ,"
	input.Timeout = "3s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.InDelta(t, 3.0, cfg.ComputedWeights["title_length"], 1e-9)
	assert.InDelta(t, 0.0, cfg.ComputedWeights["meta_description"], 1e-9)
	assert.InDelta(t, 0.25, cfg.ComputedWeights["custom_check"], 1e-9)
	assert.InDelta(t, 2.0, cfg.ComputedWeights["robots_indexable"], 1e-9)
	assert.Len(t, cfg.CustomWeights, 3)
	assert.Equal(t, schema.EmbeddedFirst, cfg.WeightPrecedence)
	assert.Equal(t, []string{"*.html", "docs/**/*.htm"}, cfg.Include)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	assert.InDelta(t, 3.0, cfg.WeightProvider()()["title_length"], 1e-9)
	assert.NotNil(t, cfg.NewScoreEngine())
}

func TestValidateSQLitePathConflict(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")

	input := validInput()
	input.CacheBackend = "sqlite"
	input.CacheDBConnect = shared
	input.AnalysisBackend = "sqlite"
	input.AnalysisDBConnect = shared
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.AnalysisDBConnect = filepath.Join(t.TempDir(), "history.db")
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/seo", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/seo", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=seo", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseWeightsString(t *testing.T) {
	weights, err := ParseWeightsString("Title_Length:2, meta_description:0.5,,")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"title_length": 2, "meta_description": 0.5}, weights)

	for _, bad := range []string{"title_length", ":2", "title_length:abc", "a:1:2"} {
		_, err := ParseWeightsString(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Include:         []string{"*.html"},
		CustomWeights:   map[string]float64{"a": 1},
		ComputedWeights: map[string]float64{"a": 1},
	}
	clone := cfg.Clone()
	clone.Include[0] = "changed"
	clone.CustomWeights["a"] = 2
	clone.ComputedWeights["b"] = 3

	assert.Equal(t, "*.html", cfg.Include[0])
	assert.InDelta(t, 1.0, cfg.CustomWeights["a"], 1e-9)
	assert.NotContains(t, cfg.ComputedWeights, "b")
}
