package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/pipearchive/pkg/archive/pagecache"
)

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "warn", Format: "json", Output: "/var/log/pipearchive.log"},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/var/log/pipearchive.log", cfg.Logging.Output)
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.NotEmpty(t, cfg.Registry.Path)
	assert.Equal(t, pagecache.DefaultMinPageSize, cfg.Cache.MinPageSize)
	assert.EqualValues(t, pagecache.DefaultMaxPageCount*pagecache.DefaultMinPageSize, cfg.Cache.Budget)
}
