package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultDelimiter           = ","
	DefaultBucketDurationHours = 1
	DefaultWorkers             = 1
)

// Bucket duration bounds (hours, both inclusive)
const (
	MinBucketDurationHours = 1
	MaxBucketDurationHours = 24
)

// EnvWorkers overrides the default worker count when no flag or file value
// is given.
const EnvWorkers = "BUCKETSTATS_WORKERS"

// Config holds everything one run needs. Values come from flags, an optional
// YAML file, the environment, and defaults, in that order of precedence.
// Validation happens once, before any input is read.
type Config struct {
	// AppName labels the run in log output.
	AppName string `yaml:"app_name"`

	// InputPath is the delimited time-series file to aggregate.
	InputPath string `yaml:"input_path"`

	// Delimiter is the single character separating input fields. The output
	// is written with the same delimiter.
	Delimiter string `yaml:"delimiter"`

	// BucketDurationHours splits each calendar day into buckets of this many
	// hours. Must be between 1 and 24, both inclusive.
	BucketDurationHours int `yaml:"bucket_duration_hours"`

	// OutputPath is where the aggregated CSV is written. Overwritten on
	// every run.
	OutputPath string `yaml:"output_path"`

	// Workers is the number of aggregation goroutines. 1 means a plain
	// sequential pass.
	Workers int `yaml:"workers"`

	// StorePath, when set, additionally writes the summaries to a BadgerDB
	// results store at this directory.
	StorePath string `yaml:"store_path"`

	// IncludeRanges appends a wall-clock time-range column per bucket to the
	// output.
	IncludeRanges bool `yaml:"include_ranges"`
}

// Default returns a config populated with defaults and environment overrides.
func Default() Config {
	return Config{
		Delimiter:           DefaultDelimiter,
		BucketDurationHours: DefaultBucketDurationHours,
		Workers:             getEnvInt(EnvWorkers, DefaultWorkers),
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects a bad config before any input is read. Error messages name
// the failing field. A blank (all-whitespace) value is as invalid as a
// missing one.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return fmt.Errorf("app name must not be blank")
	}
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("input path must not be blank")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output path must not be blank")
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.BucketDurationHours < MinBucketDurationHours || c.BucketDurationHours > MaxBucketDurationHours {
		return fmt.Errorf("bucket duration must be between %d and %d hours (both inclusive), got %d",
			MinBucketDurationHours, MaxBucketDurationHours, c.BucketDurationHours)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Only meaningful after
// Validate has accepted the config.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// getEnvInt gets an int from an environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("⚠️  Invalid value for %s: %q, using default %d", key, val, defaultValue)
	}
	return defaultValue
}
