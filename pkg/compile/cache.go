package compile

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
)

// CacheStats is a point-in-time snapshot of the artifact cache counters.
// All counters are cumulative since the compiler was created.
type CacheStats struct {
	// Hits counts requests resolved from the cache.
	Hits uint64
	// Misses counts requests that required a compilation, including
	// requests that joined another caller's in-flight compilation.
	Misses uint64
	// Evictions counts entries dropped by the size bound.
	Evictions uint64
	// Compilations counts backend invocations, successful or not.
	Compilations uint64
	// CompileTime is the cumulative wall time spent in backend generation.
	CompileTime time.Duration
}

// artifactCache memoizes compiled row artifacts by cache key, bounded by a
// maximum entry count with LRU eviction. It guarantees at most one in-flight
// compilation per key: concurrent callers for the same unresolved key block
// on a single compilation and observe the same artifact or the same error.
//
// Failed compilations are not retained. Every caller coalesced onto the
// failing flight observes the failure synchronously; the next request for
// the same key compiles again.
type artifactCache struct {
	mtx      sync.Mutex
	entries  *lru.Cache[cacheKey, CursorArtifact] // nil when caching is disabled
	inflight map[cacheKey]*flight

	hits         atomic.Uint64
	misses       atomic.Uint64
	evictions    atomic.Uint64
	compilations atomic.Uint64
	compileTime  atomic.Int64 // nanoseconds
}

// flight is one in-progress compilation. The result fields are written
// before done is closed and read only after it is closed.
type flight struct {
	done     chan struct{}
	artifact CursorArtifact
	err      error
}

// newArtifactCache creates a cache bounded to maxEntries. A bound of 0 or
// less disables caching entirely: every request compiles, nothing is
// stored, and correctness is unaffected.
func newArtifactCache(maxEntries int) (*artifactCache, error) {
	c := &artifactCache{inflight: make(map[cacheKey]*flight)}
	if maxEntries > 0 {
		entries, err := lru.NewWithEvict[cacheKey, CursorArtifact](maxEntries, func(cacheKey, CursorArtifact) {
			c.evictions.Inc()
		})
		if err != nil {
			return nil, err
		}
		c.entries = entries
	}
	return c, nil
}

// getOrCompile returns the artifact for key, invoking generate at most once
// per key across concurrent callers. Eviction never invalidates an artifact
// already returned to a caller; it only drops the cache's own reference.
func (c *artifactCache) getOrCompile(key cacheKey, generate func() (CursorArtifact, error)) (CursorArtifact, error) {
	c.mtx.Lock()
	if c.entries != nil {
		if artifact, ok := c.entries.Get(key); ok {
			c.mtx.Unlock()
			c.hits.Inc()
			return artifact, nil
		}
	}
	if fl, ok := c.inflight[key]; ok {
		c.mtx.Unlock()
		c.misses.Inc()
		<-fl.done
		return fl.artifact, fl.err
	}
	fl := &flight{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mtx.Unlock()

	c.misses.Inc()

	start := time.Now()
	fl.artifact, fl.err = generate()
	c.compileTime.Add(int64(time.Since(start)))
	c.compilations.Inc()

	c.mtx.Lock()
	if fl.err == nil && c.entries != nil {
		c.entries.Add(key, fl.artifact)
	}
	delete(c.inflight, key)
	c.mtx.Unlock()
	close(fl.done)

	return fl.artifact, fl.err
}

// len returns the current number of cached artifacts.
func (c *artifactCache) len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// stats returns a snapshot of the cumulative counters.
func (c *artifactCache) stats() CacheStats {
	return CacheStats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Evictions:    c.evictions.Load(),
		Compilations: c.compilations.Load(),
		CompileTime:  time.Duration(c.compileTime.Load()),
	}
}
