// Package metrics defines the archive's metrics-collector interfaces and a
// small registration indirection so the core archive and page cache
// packages never import prometheus/client_golang directly. A concrete
// Prometheus-backed implementation lives in pkg/archive/metrics/prometheus
// and registers itself via RegisterCacheMetricsConstructor /
// RegisterArchiveMetricsConstructor on import.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry enables metrics collection and creates the Prometheus
// registry constructors will register against. Safe to call once at
// process startup; a nil reg uses prometheus.NewRegistry().
func InitRegistry(reg *prometheus.Registry) {
	mu.Lock()
	defer mu.Unlock()
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	registry = reg
	enabled = true
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the active registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}

// CacheMetrics instruments the page cache. It satisfies pagecache.Metrics.
type CacheMetrics interface {
	Hit()
	Miss()
	Eviction()
}

// ArchiveMetrics instruments archive-level read/write operations.
type ArchiveMetrics interface {
	ObserveRead(bytes int64, duration time.Duration)
	ObserveWrite(bytes int64, duration time.Duration)
	ObserveOpen()
	ObserveCorruption()
}

// newPrometheusCacheMetrics and newPrometheusArchiveMetrics are filled in by
// pkg/archive/metrics/prometheus's init(), avoiding an import cycle between
// this package and its implementation.
var (
	newPrometheusCacheMetrics   func() CacheMetrics
	newPrometheusArchiveMetrics func() ArchiveMetrics
)

// RegisterCacheMetricsConstructor registers the Prometheus cache metrics
// constructor. Called by pkg/archive/metrics/prometheus during init.
func RegisterCacheMetricsConstructor(ctor func() CacheMetrics) {
	newPrometheusCacheMetrics = ctor
}

// RegisterArchiveMetricsConstructor registers the Prometheus archive
// metrics constructor. Called by pkg/archive/metrics/prometheus during init.
func RegisterArchiveMetricsConstructor(ctor func() ArchiveMetrics) {
	newPrometheusArchiveMetrics = ctor
}

// NewCacheMetrics returns a Prometheus-backed CacheMetrics, or nil if
// metrics are disabled (callers should pass nil straight through to
// pagecache.New for zero overhead).
func NewCacheMetrics() CacheMetrics {
	if !IsEnabled() || newPrometheusCacheMetrics == nil {
		return nil
	}
	return newPrometheusCacheMetrics()
}

// NewArchiveMetrics returns a Prometheus-backed ArchiveMetrics, or nil if
// metrics are disabled.
func NewArchiveMetrics() ArchiveMetrics {
	if !IsEnabled() || newPrometheusArchiveMetrics == nil {
		return nil
	}
	return newPrometheusArchiveMetrics()
}
