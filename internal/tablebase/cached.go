package tablebase

import (
	"sync"

	"github.com/hailam/chessplay/internal/board"
)

// defaultCacheSize is how many entries NewCachedLichessProber keeps before
// falling back to the eviction policy in evictHalf.
const defaultCacheSize = 100000

// CachedProber memoizes another Prober's Probe results by position hash, so
// repeated probes of the same position (common across a search tree) skip
// the underlying lookup.
type CachedProber struct {
	inner   Prober
	mu      sync.RWMutex
	cache   map[uint64]ProbeResult
	maxSize int
	hits    uint64
	misses  uint64
}

// NewCachedProber wraps inner with a cache holding up to cacheSize entries.
func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	return &CachedProber{
		inner:   inner,
		cache:   make(map[uint64]ProbeResult, cacheSize),
		maxSize: cacheSize,
	}
}

// NewCachedLichessProber wraps a fresh LichessProber with the default cache
// size.
func NewCachedLichessProber() *CachedProber {
	return NewCachedProber(NewLichessProber(), defaultCacheSize)
}

func (cp *CachedProber) Probe(pos *board.Position) ProbeResult {
	cp.mu.RLock()
	result, hit := cp.cache[pos.Hash]
	cp.mu.RUnlock()
	if hit {
		cp.mu.Lock()
		cp.hits++
		cp.mu.Unlock()
		return result
	}

	result = cp.inner.Probe(pos)

	cp.mu.Lock()
	cp.misses++
	if len(cp.cache) >= cp.maxSize {
		cp.evictHalf()
	}
	cp.cache[pos.Hash] = result
	cp.mu.Unlock()

	return result
}

// evictHalf drops roughly half the cached entries. Map iteration order in
// Go is randomized, so this is an approximation of random eviction rather
// than true LRU. Callers must hold cp.mu for writing.
func (cp *CachedProber) evictHalf() {
	target := cp.maxSize / 2
	i := 0
	for k := range cp.cache {
		if i >= target {
			break
		}
		delete(cp.cache, k)
		i++
	}
}

// ProbeRoot always delegates: root probing needs per-move information that
// the position-keyed cache doesn't carry.
func (cp *CachedProber) ProbeRoot(pos *board.Position) RootResult {
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate returns the cache hit percentage observed so far.
func (cp *CachedProber) HitRate() float64 {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	total := cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}

// CacheSize returns the current number of cached entries.
func (cp *CachedProber) CacheSize() int {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	return len(cp.cache)
}

// Clear empties the cache and resets hit/miss counters.
func (cp *CachedProber) Clear() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.cache = make(map[uint64]ProbeResult, cp.maxSize)
	cp.hits = 0
	cp.misses = 0
}
