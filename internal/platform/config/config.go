// Package config loads the application configuration shared by the server and the batch job.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Indicators struct {
		SMAWindow int `yaml:"sma_window"`
		EMASpan   int `yaml:"ema_span"`
		RSIWindow int `yaml:"rsi_window"`
	} `yaml:"indicators"`
	Lookup struct {
		MemoSize int `yaml:"memo_size"`
	} `yaml:"lookup"`
	Export struct {
		Dir        string `yaml:"dir"`
		S3Bucket   string `yaml:"s3_bucket"`
		S3Prefix   string `yaml:"s3_prefix"`
		S3Region   string `yaml:"s3_region"`
		S3Endpoint string `yaml:"s3_endpoint"`
		PathStyle  bool   `yaml:"s3_path_style"`
	} `yaml:"export"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	// Symbols are analyzed by the batch job when the watchlist is empty.
	Symbols []string `yaml:"symbols"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("S3_PREFIX"); v != "" {
		cfg.Export.S3Prefix = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Export.S3Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.Export.S3Endpoint = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.PerMinute = n
		}
	}
	if v := os.Getenv("ANALYZE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = splitList(v)
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Indicators.SMAWindow == 0 {
		cfg.Indicators.SMAWindow = 20
	}
	if cfg.Indicators.EMASpan == 0 {
		cfg.Indicators.EMASpan = 50
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Lookup.MemoSize == 0 {
		cfg.Lookup.MemoSize = 10
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "output"
	}
	if cfg.RateLimit.PerMinute == 0 {
		// Alpha Vantage free tier
		cfg.RateLimit.PerMinute = 5
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 30 16 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	if c.Indicators.SMAWindow < 1 || c.Indicators.EMASpan < 1 || c.Indicators.RSIWindow < 1 {
		return fmt.Errorf("indicators: windows must be positive")
	}
	if c.Lookup.MemoSize < 1 {
		return fmt.Errorf("lookup.memo_size must be positive")
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate_limit.per_minute must not be negative")
	}
	if c.Export.S3Bucket != "" && c.Export.S3Region == "" {
		return fmt.Errorf("export.s3_region is required when export.s3_bucket is set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
