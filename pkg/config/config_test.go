package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		AppName:             "nightly-rollup",
		InputPath:           "metrics.csv",
		Delimiter:           ",",
		BucketDurationHours: 4,
		OutputPath:          "out.csv",
		Workers:             1,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing app name", func(c *Config) { c.AppName = "" }, "app name"},
		{"blank app name", func(c *Config) { c.AppName = "   " }, "app name"},
		{"missing input", func(c *Config) { c.InputPath = "" }, "input path"},
		{"missing output", func(c *Config) { c.OutputPath = "" }, "output path"},
		{"empty delimiter", func(c *Config) { c.Delimiter = "" }, "delimiter"},
		{"long delimiter", func(c *Config) { c.Delimiter = "||" }, "delimiter"},
		{"duration zero", func(c *Config) { c.BucketDurationHours = 0 }, "bucket duration"},
		{"duration too large", func(c *Config) { c.BucketDurationHours = 25 }, "bucket duration"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate_DurationBoundsInclusive(t *testing.T) {
	cfg := validConfig()
	cfg.BucketDurationHours = 1
	require.NoError(t, cfg.Validate())
	cfg.BucketDurationHours = 24
	require.NoError(t, cfg.Validate())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, DefaultDelimiter, cfg.Delimiter)
	require.Equal(t, DefaultBucketDurationHours, cfg.BucketDurationHours)
	require.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestDefault_WorkersFromEnv(t *testing.T) {
	t.Setenv(EnvWorkers, "6")
	require.Equal(t, 6, Default().Workers)
}

func TestDefault_IgnoresBadEnvValue(t *testing.T) {
	t.Setenv(EnvWorkers, "lots")
	require.Equal(t, DefaultWorkers, Default().Workers)
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	yaml := `app_name: nightly-rollup
input_path: metrics.csv
output_path: out.csv
delimiter: ";"
bucket_duration_hours: 6
workers: 4
include_ranges: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "nightly-rollup", cfg.AppName)
	require.Equal(t, ";", cfg.Delimiter)
	require.Equal(t, 6, cfg.BucketDurationHours)
	require.Equal(t, 4, cfg.Workers)
	require.True(t, cfg.IncludeRanges)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileValuesFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	yaml := `app_name: nightly-rollup
input_path: metrics.csv
output_path: out.csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultDelimiter, cfg.Delimiter)
	require.Equal(t, DefaultBucketDurationHours, cfg.BucketDurationHours)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDelimiterRune(t *testing.T) {
	cfg := validConfig()
	cfg.Delimiter = ";"
	require.Equal(t, ';', cfg.DelimiterRune())
}
