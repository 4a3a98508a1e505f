// ABOUTME: Sharded cache for precise evaluator results
// ABOUTME: Keys candidates by bit pattern and requested digit count

package precision

import (
	"math"
	"sync"

	"github.com/sthamann/lagrangian-evolve/genome"
)

// precisionKey is the cache key for the precise evaluator: the genome's
// IEEE-754 bit pattern (same canonical encoding eval/cache.go uses) plus
// the digit count it was evaluated at, since a result computed at 16
// digits is not interchangeable with one computed at 30 (spec.md §4.D's
// schedule means the same genome legitimately re-evaluates at a higher
// precision in a later generation).
type precisionKey struct {
	bits   [6]uint64
	digits int
}

func keyFor(g genome.Genome, digits int) precisionKey {
	var k precisionKey
	k.digits = digits
	for i, v := range g {
		k.bits[i] = math.Float64bits(v)
	}
	return k
}

const cacheShards = 16
const cacheEvictThreshold = 10000

// shardedCache mirrors eval/cache.go's sharded, evict-on-threshold design
// (spec.md §9), kept as a separate small type here since Go has no
// generics-free way to share an unexported map type across packages
// without exporting it.
type shardedCache struct {
	shards [cacheShards]struct {
		mu sync.Mutex
		m  map[precisionKey]genome.Candidate
	}
}

func newShardedCache() *shardedCache {
	c := &shardedCache{}
	for i := range c.shards {
		c.shards[i].m = make(map[precisionKey]genome.Candidate)
	}
	return c
}

func (c *shardedCache) shardFor(k precisionKey) int {
	return int(k.bits[0] % cacheShards)
}

func (c *shardedCache) get(k precisionKey) (genome.Candidate, bool) {
	s := &c.shards[c.shardFor(k)]
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	return v, ok
}

func (c *shardedCache) put(k precisionKey, cand genome.Candidate) {
	s := &c.shards[c.shardFor(k)]
	s.mu.Lock()
	s.m[k] = cand
	s.mu.Unlock()

	if c.size() > cacheEvictThreshold {
		c.clear()
	}
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
		c.shards[i].m = make(map[precisionKey]genome.Candidate)
		c.shards[i].mu.Unlock()
	}
}
