package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER_ADDR", "CORS_ORIGINS", "EXPORT_DIR", "S3_BUCKET", "S3_PREFIX",
		"AWS_REGION", "S3_ENDPOINT", "RATE_LIMIT_PER_MINUTE", "ANALYZE_CRON", "SYMBOLS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Indicators.SMAWindow)
	assert.Equal(t, 50, cfg.Indicators.EMASpan)
	assert.Equal(t, 14, cfg.Indicators.RSIWindow)
	assert.Equal(t, 10, cfg.Lookup.MemoSize)
	assert.Equal(t, "output", cfg.Export.Dir)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)
	assert.Equal(t, "0 30 16 * * 1-5", cfg.Schedule.Cron)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
indicators:
  sma_window: 10
export:
  s3_bucket: reports
  s3_region: us-east-1
symbols: [IBM, AAPL]
`), 0o600))

	t.Setenv("SYMBOLS", "MSFT, SPY ,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "75")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Indicators.SMAWindow)
	assert.Equal(t, 50, cfg.Indicators.EMASpan)
	assert.Equal(t, "reports", cfg.Export.S3Bucket)
	assert.Equal(t, []string{"MSFT", "SPY"}, cfg.Symbols)
	assert.Equal(t, 75, cfg.RateLimit.PerMinute)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative window", func(c *Config) { c.Indicators.RSIWindow = -1 }},
		{"zero memo", func(c *Config) { c.Lookup.MemoSize = 0 }},
		{"negative rate", func(c *Config) { c.RateLimit.PerMinute = -5 }},
		{"bucket without region", func(c *Config) { c.Export.S3Bucket = "b"; c.Export.S3Region = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &Config{}
			c.Indicators.SMAWindow, c.Indicators.EMASpan, c.Indicators.RSIWindow = 20, 50, 14
			c.Lookup.MemoSize = 10
			tt.mutate(c)

			assert.Error(t, c.Validate())
		})
	}
}
