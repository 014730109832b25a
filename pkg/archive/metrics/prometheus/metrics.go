// Package prometheus is the Prometheus-backed implementation of
// pkg/archive/metrics's CacheMetrics and ArchiveMetrics interfaces. It
// registers its constructors with pkg/archive/metrics on import so callers
// never need to reference this package directly.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/pipearchive/pkg/archive/metrics"
)

func init() {
	metrics.RegisterCacheMetricsConstructor(newCacheMetrics)
	metrics.RegisterArchiveMetricsConstructor(newArchiveMetrics)
}

type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

func newCacheMetrics() metrics.CacheMetrics {
	reg := metrics.GetRegistry()
	return &cacheMetrics{
		hits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pipearchive_pagecache_hits_total",
			Help: "Total number of page cache hits.",
		}),
		misses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pipearchive_pagecache_misses_total",
			Help: "Total number of page cache misses.",
		}),
		evictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pipearchive_pagecache_evictions_total",
			Help: "Total number of page cache LRU evictions.",
		}),
	}
}

func (m *cacheMetrics) Hit()      { m.hits.Inc() }
func (m *cacheMetrics) Miss()     { m.misses.Inc() }
func (m *cacheMetrics) Eviction() { m.evictions.Inc() }

type archiveMetrics struct {
	readOperations  *prometheus.CounterVec
	readBytes       prometheus.Histogram
	readDuration    prometheus.Histogram
	writeOperations *prometheus.CounterVec
	writeBytes      prometheus.Histogram
	writeDuration   prometheus.Histogram
	opens           prometheus.Counter
	corruptions     prometheus.Counter
}

func newArchiveMetrics() metrics.ArchiveMetrics {
	reg := metrics.GetRegistry()
	sizeBuckets := []float64{256, 4096, 65536, 1048576, 16777216}
	durationBuckets := []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000}

	return &archiveMetrics{
		readOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pipearchive_read_operations_total",
			Help: "Total number of archive Read calls.",
		}, []string{"status"}),
		readBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "pipearchive_read_bytes",
			Help:    "Distribution of bytes returned by archive Read calls.",
			Buckets: sizeBuckets,
		}),
		readDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "pipearchive_read_duration_milliseconds",
			Help:    "Duration of archive Read calls in milliseconds.",
			Buckets: durationBuckets,
		}),
		writeOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pipearchive_write_operations_total",
			Help: "Total number of archive Write calls.",
		}, []string{"status"}),
		writeBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "pipearchive_write_bytes",
			Help:    "Distribution of payload bytes appended via Write.",
			Buckets: sizeBuckets,
		}),
		writeDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "pipearchive_write_duration_milliseconds",
			Help:    "Duration of archive Write calls in milliseconds.",
			Buckets: durationBuckets,
		}),
		opens: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pipearchive_opens_total",
			Help: "Total number of archives successfully opened or created.",
		}),
		corruptions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pipearchive_corruptions_total",
			Help: "Total number of corruption errors detected on Read.",
		}),
	}
}

func (m *archiveMetrics) ObserveRead(bytes int64, duration time.Duration) {
	m.readOperations.WithLabelValues("ok").Inc()
	m.readBytes.Observe(float64(bytes))
	m.readDuration.Observe(duration.Seconds() * 1000)
}

func (m *archiveMetrics) ObserveWrite(bytes int64, duration time.Duration) {
	m.writeOperations.WithLabelValues("ok").Inc()
	m.writeBytes.Observe(float64(bytes))
	m.writeDuration.Observe(duration.Seconds() * 1000)
}

func (m *archiveMetrics) ObserveOpen() {
	m.opens.Inc()
}

func (m *archiveMetrics) ObserveCorruption() {
	m.corruptions.Inc()
}
