// ABOUTME: Sharded cache for fast evaluator results
// ABOUTME: Keys candidates by IEEE-754 bit pattern across mutex-guarded shards

package eval

import (
	"math"
	"sync"

	"github.com/sthamann/lagrangian-evolve/genome"
)

// cacheKey is a byte-stable canonical encoding of the six coefficients:
// their IEEE-754 bit patterns, rather than a formatted string, per
// spec.md §9 ("for both speed and correctness"). Arrays of comparable
// types are themselves comparable, so this can be used directly as a map
// key.
type cacheKey [6]uint64

func keyFor(g genome.Genome) cacheKey {
	var k cacheKey
	for i, v := range g {
		k[i] = math.Float64bits(v)
	}
	return k
}

const cacheShards = 16
const cacheEvictThreshold = 10000

// shardedCache is a concurrent-read/write evaluation cache, sharded by
// key hash so that parallel batch evaluation (spec.md §5 "data-parallel
// ... workers produce Candidate values independently") does not serialize
// on a single mutex, per spec.md §9's recommendation to prefer per-shard
// caches over one mutex-protected map.
type shardedCache struct {
	shards [cacheShards]struct {
		mu sync.Mutex
		m  map[cacheKey]genome.Candidate
	}
}

func newShardedCache() *shardedCache {
	c := &shardedCache{}
	for i := range c.shards {
		c.shards[i].m = make(map[cacheKey]genome.Candidate)
	}
	return c
}

func (c *shardedCache) shardFor(k cacheKey) *struct {
	mu sync.Mutex
	m  map[cacheKey]genome.Candidate
} {
	return &c.shards[k[0]%cacheShards]
}

func (c *shardedCache) get(k cacheKey) (genome.Candidate, bool) {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	return v, ok
}

func (c *shardedCache) put(k cacheKey, cand genome.Candidate) {
	s := c.shardFor(k)
	s.mu.Lock()
	s.m[k] = cand
	size := len(s.m)
	s.mu.Unlock()

	if size > cacheEvictThreshold/cacheShards {
		c.evictIfOversized()
	}
}

// evictIfOversized clears the whole cache once the aggregate size exceeds
// the threshold (spec.md §4.C "when the cache exceeds 10 000 entries,
// clear it entirely").
func (c *shardedCache) evictIfOversized() {
	if c.size() <= cacheEvictThreshold {
		return
	}
	c.clear()
}

func (c *shardedCache) size() int {
	total := 0
	for i := range c.shards {
		c.shards[i].mu.Lock()
		total += len(c.shards[i].m)
		c.shards[i].mu.Unlock()
	}
	return total
}

func (c *shardedCache) clear() {
	for i := range c.shards {
		c.shards[i].mu.Lock()
		c.shards[i].m = make(map[cacheKey]genome.Candidate)
		c.shards[i].mu.Unlock()
	}
}
