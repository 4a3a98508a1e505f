// ABOUTME: Per-generation evolutionary loop driver
// ABOUTME: Dispatches to the fast or precise evaluator and drives breeding

package evolve

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/eval"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/reduction"
	"github.com/sthamann/lagrangian-evolve/rng"
	"github.com/sthamann/lagrangian-evolve/stream"
)

// interGenerationPause is the small yield to progress subscribers between
// generations (spec.md §5 "optional small inter-generation pause ~150ms").
const interGenerationPause = 150 * time.Millisecond

// Logger is the minimal debug-logging capability the engine uses,
// satisfied by *log.Logger; a nil Logger disables logging entirely
// (mirrors common.go's debugLog/debugf gate in the teacher).
type Logger interface {
	Printf(format string, args ...any)
}

// Engine drives the per-generation evolutionary loop of spec.md §4.G,
// dispatching to whichever Evaluator the adaptive controller has selected
// (spec.md §9 "dynamic dispatch over evaluator").
type Engine struct {
	Params *SharedParameters
	State  *EvolutionState
	HOF    *genome.HallOfFame

	Fast    eval.Evaluator
	Precise eval.Evaluator // nil until/unless UltraPrecision is reachable

	rngSource *rng.Source
	pop       []genome.Genome
	logger    Logger

	controller Controller

	// Pause overrides the inter-generation yield (spec.md §5); zero runs
	// back-to-back generations with no pause, useful in tests. Defaults to
	// interGenerationPause in NewEngine.
	Pause time.Duration
}

// NewEngine constructs an Engine with a freshly seeded population of
// p.PopulationSize genomes, deterministic under seed.
func NewEngine(seed uint64, p Parameters, fast eval.Evaluator, precise eval.Evaluator, logger Logger) *Engine {
	r := rng.New(seed)

	return &Engine{
		Params:    NewSharedParameters(p),
		State:     NewEvolutionState(),
		HOF:       genome.NewHallOfFame(),
		Fast:      fast,
		Precise:   precise,
		rngSource: r,
		pop:       genome.SeedPopulation(r, p.PopulationSize),
		logger:    logger,
		Pause:     interGenerationPause,
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Run drives generations until ctx is cancelled, MaxGenerations is
// reached, or an unrecoverable fault occurs, emitting an Update through
// pub after every generation and exactly one terminal Update at the end
// (spec.md §4.G step 11, §4.I, §8 invariant 6).
func (e *Engine) Run(ctx context.Context, pub *stream.Publisher) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logf("[PANIC] engine fault: %v\n%s", r, string(debug.Stack()))
			pub.Emit(stream.Update{
				Generation: e.State.Generation,
				Status:     stream.Failed,
				Diagnostic: fmt.Sprintf("%v", r),
			}, 0)
			pub.Close()
			err = fmt.Errorf("evolve: engine fault: %v", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			pub.Emit(stream.Update{Generation: e.State.Generation, Status: stream.Stopped}, 0)
			pub.Close()
			return nil
		default:
		}

		done, runErr := e.step(pub)
		if runErr != nil {
			return runErr
		}
		if done {
			pub.Close()
			return nil
		}

		select {
		case <-ctx.Done():
		case <-time.After(e.Pause):
		}
	}
}

// step runs exactly one generation of spec.md §4.G's protocol. It returns
// done=true once the run has reached MaxGenerations (0 means unbounded).
func (e *Engine) step(pub *stream.Publisher) (done bool, err error) {
	p := e.Params.Get()
	generation := e.State.Generation

	evaluator := e.Fast
	if p.UsePrecise && e.Precise != nil {
		evaluator = e.Precise
	}

	candidates := evaluator.EvaluateBatch(e.pop, generation)

	full := genome.Population(candidates)
	full.Sort()
	survivors := full.Survivors()

	if len(survivors) == 0 {
		e.logf("generation %d: total generation failure, re-seeding", generation)
		e.pop = e.reseedAvoiding(p.PopulationSize, e.pop[0])

		pub.Emit(stream.Update{Generation: generation, Status: stream.Running}, len(candidates))
		e.State.Generation++
		if e.reachedEnd(p) {
			pub.Emit(stream.Update{Generation: e.State.Generation, Status: stream.Completed}, 0)
			return true, nil
		}
		return false, nil
	}

	top := full.Top(10)
	e.HOF.Merge(top)

	best := full.Best()
	e.State.RecordDigits(best.DeltaC, best.DeltaAlpha, best.DeltaG)

	eliteCount := p.EliteCount
	if eliteCount > len(survivors) {
		eliteCount = len(survivors)
	}
	elites := selectElites(e.rngSource, survivors, eliteCount, e.State.Mode)

	newPop := make([]genome.Genome, p.PopulationSize)
	copy(newPop, elites)

	breedParams := p
	if injectionAdjustments(generation) {
		breedParams.CrossoverRate = 0.95
		breedParams.MutationRate = 0.30
	}

	e.breed(newPop, len(elites), survivors, breedParams, best)

	if shouldInjectFresh(e.State.FitnessStagnation) {
		replaceFreshFraction(e.rngSource, newPop, eliteCount, 0.10)
	}

	if e.State.Mode != Explore {
		enforceGaugeUniqueness(e.rngSource, newPop)
		enforceAlphaUniqueness(newPop, func(g genome.Genome) float64 {
			return reduction.FineStructure(g[constants.IdxGauge])
		})
	}

	e.controller.Tick(e.State, e.Params, best, e.HOF, e.rngSource, newPop, eliteCount)

	e.pop = newPop

	pub.Emit(stream.Update{
		Generation: generation,
		Top:        top,
		Best:       best,
		Status:     stream.Running,
	}, len(candidates))

	e.State.Generation++

	if e.reachedEnd(e.Params.Get()) {
		finalP := e.Params.Get()
		finalEval := e.Fast
		if finalP.UsePrecise && e.Precise != nil {
			finalEval = e.Precise
		}
		finalCandidates := finalEval.EvaluateBatch(e.pop, e.State.Generation)
		finalPop := genome.Population(finalCandidates)
		finalPop.Sort()

		pub.Emit(stream.Update{
			Generation: e.State.Generation,
			Top:        finalPop.Top(10),
			Best:       finalPop.Best(),
			Status:     stream.Completed,
		}, len(finalCandidates))

		return true, nil
	}

	return false, nil
}

func (e *Engine) reachedEnd(p Parameters) bool {
	return p.MaxGenerations > 0 && e.State.Generation >= p.MaxGenerations
}

// breed fills newPop[start:] via tournament selection, crossover, and
// mutation (spec.md §4.G step 7). If fewer than two survivors exist, it
// fills the remainder with fresh random genomes instead.
func (e *Engine) breed(newPop []genome.Genome, start int, survivors genome.Population, p Parameters, best genome.Candidate) {
	if len(survivors) < 2 {
		for i := start; i < len(newPop); i++ {
			newPop[i] = genome.Seed(e.rngSource)
		}
		return
	}

	idx := start
	for idx < len(newPop) {
		i1 := selectParent(e.rngSource, survivors, e.State.Mode)
		i2 := selectParent(e.rngSource, survivors, e.State.Mode)

		c1, c2 := crossover(e.rngSource, survivors[i1].Genome, survivors[i2].Genome, p.CrossoverRate)
		c1 = mutate(e.rngSource, c1, p, best)

		newPop[idx] = c1
		idx++
		if idx >= len(newPop) {
			break
		}

		c2 = mutate(e.rngSource, c2, p, best)
		newPop[idx] = c2
		idx++
	}
}

// reseedAvoiding produces n fresh genomes, re-drawing any that would
// exactly equal avoid (supplemented tabu-style duplicate avoidance, see
// DESIGN.md).
func (e *Engine) reseedAvoiding(n int, avoid genome.Genome) []genome.Genome {
	out := genome.SeedPopulation(e.rngSource, n)
	for i := range out {
		for out[i] == avoid {
			out[i] = genome.Seed(e.rngSource)
		}
	}
	return out
}
