// ABOUTME: Arbitrary-precision evaluator entry points
// ABOUTME: Selects digit precision per generation and runs batches through the pool

// Package precision implements the arbitrary-precision fitness evaluator
// (spec.md §4.D): semantically identical to eval.Fast but computed with
// math/big.Float at a precision that escalates with generation, behind a
// fixed-size, self-testing worker pool with a per-call timeout.
package precision

import (
	"context"
	"math/big"
	"runtime"
	"sync"
	"time"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
)

// EvalTimeout is the per-evaluation hard timeout (spec.md §4.D).
const EvalTimeout = 20 * time.Second

// digitsFor implements the precision schedule of spec.md §4.D: 16 digits
// below generation 500, 20 below 1000, 30 beyond.
func digitsFor(generation int) int {
	switch {
	case generation < 500:
		return 16
	case generation < 1000:
		return 20
	default:
		return 30
	}
}

// bitsForDigits converts a decimal digit count to a big.Float precision
// in bits (log2(10) ~= 3.3219280948873623).
func bitsForDigits(digits int) uint {
	return uint(float64(digits)*3.3219280948873623) + 8
}

// Precise is the arbitrary-precision evaluator.
type Precise struct {
	pool  *Pool
	cache *shardedCache
}

// New creates a Precise evaluator with a worker pool sized to workers (0
// means runtime parallelism via NewPool's caller). Each worker self-tests
// by computing sqrt(2) to at least 20 decimal digits and checking the
// result against the known value.
func New(workers int) (*Precise, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool, err := NewPool(workers, selfTestPrecision)
	if err != nil {
		return nil, err
	}

	return &Precise{pool: pool, cache: newShardedCache()}, nil
}

// selfTestPrecision verifies the runtime's big.Float arithmetic delivers
// at least 20 correct decimal digits for a known irrational value,
// satisfying spec.md §4.D's startup assertion.
func selfTestPrecision() error {
	prec := bitsForDigits(20)
	two := new(big.Float).SetPrec(prec).SetInt64(2)
	got := bigSqrt(two, prec)

	want, _, err := big.ParseFloat("1.41421356237309504880168872420969807856967187537694", 10, prec, big.ToNearestEven)
	if err != nil {
		return err
	}

	diff := new(big.Float).SetPrec(prec).Sub(got, want)
	diff.Abs(diff)

	threshold := new(big.Float).SetPrec(prec).SetFloat64(1e-20)
	if diff.Cmp(threshold) > 0 {
		return errPrecisionInsufficient
	}

	return nil
}

var errPrecisionInsufficient = poolError("precision: self-test failed to reach 20 correct digits")

type poolError string

func (e poolError) Error() string { return string(e) }

// CacheSize returns the number of cached entries.
func (p *Precise) CacheSize() int { return p.cache.size() }

// ClearCache empties the cache.
func (p *Precise) ClearCache() { p.cache.clear() }

// Evaluate maps a single genome to a Candidate at the generation's
// scheduled precision. On pool exhaustion or timeout it returns a
// rejected candidate (KnockOut fitness) per spec.md §7.
func (p *Precise) Evaluate(g genome.Genome, generation int) genome.Candidate {
	digits := digitsFor(generation)
	k := keyFor(g, digits)

	if cached, ok := p.cache.get(k); ok {
		cached.Generation = generation
		return cached
	}

	ctx, cancel := context.WithTimeout(context.Background(), EvalTimeout)
	defer cancel()

	v, err := p.pool.Run(ctx, EvalTimeout, func() (any, error) {
		return evaluatePrecise(g, generation, digits), nil
	})
	if err != nil {
		return rejected(g, generation)
	}

	cand := v.(genome.Candidate)
	p.cache.put(k, cand)

	return cand
}

// EvaluateBatch evaluates every genome, in input order, fanning out
// across the pool's available workers.
func (p *Precise) EvaluateBatch(gs []genome.Genome, generation int) []genome.Candidate {
	out := make([]genome.Candidate, len(gs))

	var wg sync.WaitGroup
	for i := range gs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = p.Evaluate(gs[i], generation)
		}(i)
	}
	wg.Wait()

	return out
}

func rejected(g genome.Genome, generation int) genome.Candidate {
	return genome.Candidate{Genome: g, Fitness: constants.KnockOut, Generation: generation}
}
