package config

import (
	"strings"

	"github.com/marmos91/pipearchive/internal/bytesize"
	"github.com/marmos91/pipearchive/pkg/archive/pagecache"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. It is called after loading configuration from file and
// environment variables.
//
// Default strategy: zero values (0, "", false) are replaced with
// defaults; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyRegistryDefaults(&cfg.Registry)
	applyCacheDefaults(&cfg.Cache)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.Path == "" {
		cfg.Path = GetConfigDir() + "/registry"
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Budget == 0 {
		cfg.Budget = bytesize.ByteSize(pagecache.DefaultMaxPageCount * pagecache.DefaultMinPageSize)
	}
	if cfg.MinPageSize == 0 {
		cfg.MinPageSize = pagecache.DefaultMinPageSize
	}
}

// GetDefaultConfig returns a Config populated entirely with defaults, used
// when no configuration file is found.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
