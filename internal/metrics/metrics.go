// Package metrics provides application-level metrics collection.
// This is a lightweight metrics foundation using atomic counters.
// For production observability, consider integrating with Prometheus or similar.
package metrics

import (
	"sync/atomic"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// Wallet cache metrics
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	hydrationErrors atomic.Int64
	cacheClears     atomic.Int64

	// Metadata document metrics
	documentWrites      atomic.Int64
	documentWriteErrors atomic.Int64
}

// Global is the global metrics instance.
// Use this for recording metrics throughout the application.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordCacheHit records a wallet entry served from the cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a hydration triggered by a cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordHydrationError records a failed hydration.
func (m *Metrics) RecordHydrationError() {
	m.hydrationErrors.Add(1)
}

// RecordCacheClear records a full cache wipe.
func (m *Metrics) RecordCacheClear() {
	m.cacheClears.Add(1)
}

// RecordDocumentWrite records a metadata document write and its outcome.
func (m *Metrics) RecordDocumentWrite(err error) {
	m.documentWrites.Add(1)
	if err != nil {
		m.documentWriteErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	CacheHits           int64
	CacheMisses         int64
	HydrationErrors     int64
	CacheClears         int64
	DocumentWrites      int64
	DocumentWriteErrors int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		CacheHits:           m.cacheHits.Load(),
		CacheMisses:         m.cacheMisses.Load(),
		HydrationErrors:     m.hydrationErrors.Load(),
		CacheClears:         m.cacheClears.Load(),
		DocumentWrites:      m.documentWrites.Load(),
		DocumentWriteErrors: m.documentWriteErrors.Load(),
	}
}

// CacheHitRate returns the cache hit rate as a percentage (0-100).
// Returns 0 if no cache operations have occurred.
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.hydrationErrors.Store(0)
	m.cacheClears.Store(0)
	m.documentWrites.Store(0)
	m.documentWriteErrors.Store(0)
}
