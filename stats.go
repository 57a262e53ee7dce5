package stubdns

import "sync/atomic"

// Stats collects resolver counters. All methods are safe for concurrent
// use.
type Stats struct {
	queries           atomic.Uint64
	cacheHits         atomic.Uint64
	truncationRetries atomic.Uint64
	failures          atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of the resolver counters.
type StatsSnapshot struct {
	Queries           uint64 // lookups issued, cache hits included
	CacheHits         uint64 // lookups served from cache
	TruncationRetries uint64 // UDP responses retried over TCP
	Failures          uint64 // lookups that returned an error
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:           s.queries.Load(),
		CacheHits:         s.cacheHits.Load(),
		TruncationRetries: s.truncationRetries.Load(),
		Failures:          s.failures.Load(),
	}
}
