// ABOUTME: Fast double-precision fitness evaluator
// ABOUTME: Implements the hard-gate schedule, penalties, and batch evaluation

// Package eval implements the fast, IEEE-754 double-precision fitness
// evaluator (spec.md §4.C): a deterministic, cacheable pure function from
// a genome to a Candidate, with a progressive hard-constraint gate and a
// penalty-based fitness sum.
package eval

import (
	"runtime"
	"sync"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/reduction"
)

// Evaluator is the capability set spec.md §9 asks the adaptive controller
// to be able to swap at runtime between the fast and precise
// implementations.
type Evaluator interface {
	Evaluate(g genome.Genome, generation int) genome.Candidate
	EvaluateBatch(gs []genome.Genome, generation int) []genome.Candidate
	CacheSize() int
	ClearCache()
}

// Fast is the double-precision evaluator. The zero value is not usable;
// construct with New.
type Fast struct {
	cache   *shardedCache
	workers int
}

// New creates a Fast evaluator. workers controls the parallelism of
// EvaluateBatch; 0 means runtime.GOMAXPROCS(0).
func New(workers int) *Fast {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Fast{cache: newShardedCache(), workers: workers}
}

// CacheSize returns the number of cached entries.
func (f *Fast) CacheSize() int { return f.cache.size() }

// ClearCache empties the cache.
func (f *Fast) ClearCache() { f.cache.clear() }

// Evaluate maps a single genome to a Candidate (spec.md §4.C algorithm).
func (f *Fast) Evaluate(g genome.Genome, generation int) genome.Candidate {
	k := keyFor(g)
	if cached, ok := f.cache.get(k); ok {
		cached.Generation = generation
		return cached
	}

	cand := evaluateUncached(g, generation)
	f.cache.put(k, cand)

	return cand
}

// EvaluateBatch evaluates every genome, in input order, using f.workers
// goroutines sharing the cache (spec.md §5 "batch evaluation is
// data-parallel").
func (f *Fast) EvaluateBatch(gs []genome.Genome, generation int) []genome.Candidate {
	out := make([]genome.Candidate, len(gs))

	if len(gs) == 0 {
		return out
	}

	workers := f.workers
	if workers > len(gs) {
		workers = len(gs)
	}

	var wg sync.WaitGroup
	chunk := (len(gs) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(gs) {
			break
		}
		end := start + chunk
		if end > len(gs) {
			end = len(gs)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = f.Evaluate(gs[i], generation)
			}
		}(start, end)
	}

	wg.Wait()

	return out
}

// evaluateUncached runs the full algorithm of spec.md §4.C without
// touching the cache; Fast.Evaluate calls it on a cache miss. The
// precision package mirrors it in big.Float arithmetic
// (precision.evaluatePrecise) rather than calling it.
func evaluateUncached(g genome.Genome, generation int) genome.Candidate {
	cTT := g[constants.IdxTT]
	cXX := g[constants.IdxXX]
	cMass := g[constants.IdxMass]
	cSelf := g[constants.IdxSelf]
	cGauge := g[constants.IdxGauge]
	cGrav := g[constants.IdxGrav]

	if !g.Finite() {
		return degenerateCandidate(g, generation)
	}

	disp, degenerate := reduction.DispersionCoefficients(cTT, cXX)
	if degenerate {
		return degenerateCandidate(g, generation)
	}

	cModel, signPenalty, degenerate := reduction.SpeedOfLight(disp)
	if degenerate {
		return degenerateCandidate(g, generation)
	}

	alphaModel := reduction.FineStructure(cGauge)
	gModel, gOK := reduction.GravityFromRaw(cGrav)
	errs := reduction.Errors(cModel, alphaModel, gModel, gOK)

	tol := ToleranceFor(generation)
	if errs.DeltaC > tol.EpsC || errs.DeltaG > tol.EpsG {
		return genome.Candidate{
			Genome:     g,
			Fitness:    constants.KnockOut,
			CModel:     cModel,
			AlphaModel: alphaModel,
			GModel:     gModel,
			DeltaC:     errs.DeltaC,
			DeltaAlpha: errs.DeltaAlpha,
			DeltaG:     errs.DeltaG,
			Generation: generation,
		}
	}

	eps := reduction.LorentzEpsilon(cTT, cXX)

	fitness := errs.DeltaAlpha + penalties(cTT, cXX, cMass, cSelf, cGauge, eps, signPenalty)

	return genome.Candidate{
		Genome:     g,
		Fitness:    fitness,
		CModel:     cModel,
		AlphaModel: alphaModel,
		GModel:     gModel,
		DeltaC:     errs.DeltaC,
		DeltaAlpha: errs.DeltaAlpha,
		DeltaG:     errs.DeltaG,
		Generation: generation,
	}
}

func degenerateCandidate(g genome.Genome, generation int) genome.Candidate {
	return genome.Candidate{
		Genome:     g,
		Fitness:    constants.DegenerateFitness,
		Generation: generation,
	}
}

// penalties sums the soft penalty terms of spec.md §4.C step 5.
func penalties(cTT, cXX, cMass, cSelf, cGauge, lorentzEps float64, signPenalty bool) float64 {
	var total float64

	if signPenalty {
		total += 5
	}

	if cTT >= 0 || cXX <= 0 {
		total += 1 // ghost
	}

	if cMass > 0 {
		total += 0.5 // tachyon
	}

	if cGauge >= 0 {
		total += 1 // gauge sign
	}

	total += 0.2*maxF(0, absF(cMass)-0.5) + 0.1*maxF(0, absF(cSelf)-0.25)

	normSum := absF(cTT+0.5) + absF(cXX-0.5)
	if normSum > 0.1 {
		total += 0.01 * normSum
	}

	switch {
	case lorentzEps < 1e-12:
		// no penalty
	case lorentzEps < 1e-8:
		total += 10 * lorentzEps
	default:
		total += 100 * lorentzEps
	}

	return total
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
