// ABOUTME: Tournament selection, crossover, and mutation operators
// ABOUTME: Implements the per-gene sigma table and directed mutation

package evolve

import (
	"math"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/rng"
)

// selectParent runs tournament selection (k=3) over the sorted survivors
// (spec.md §4.G "Tournament selection"). In Precision mode, with
// probability 0.7 the comparison criterion switches from "lower fitness"
// to "closer alpha", per spec.md §4.G.
func selectParent(r *rng.Source, survivors genome.Population, mode Mode) int {
	better := func(a, b int) bool {
		return survivors[a].Fitness < survivors[b].Fitness
	}

	if mode != Explore && r.Uniform() < 0.7 {
		better = func(a, b int) bool {
			da := math.Abs(survivors[a].AlphaModel - constants.FineStructure)
			db := math.Abs(survivors[b].AlphaModel - constants.FineStructure)
			return da < db
		}
	}

	return r.Tournament(len(survivors), 3, better)
}

// crossover produces two children from two parents (spec.md §4.G
// "Crossover"): with probability rate, single-point crossover at a
// uniformly chosen cut in [1, N_OPS-1]; otherwise the parents are cloned
// unchanged.
func crossover(r *rng.Source, a, b genome.Genome, rate float64) (genome.Genome, genome.Genome) {
	if r.Uniform() >= rate {
		return a.Clone(), b.Clone()
	}

	cut := 1 + r.IntN(constants.NumOps-1)

	var childA, childB genome.Genome
	for i := 0; i < constants.NumOps; i++ {
		if i < cut {
			childA[i], childB[i] = a[i], b[i]
		} else {
			childA[i], childB[i] = b[i], a[i]
		}
	}

	return childA, childB
}

// gaugeSigma and gravSigma describe the per-gene σ base-scale table of
// spec.md §4.G as a function of the population's current delta. They are
// the values DefaultParameters' MutationSigmaGauge/Grav start from (the
// gaugeSigma "else" tier, gravSigma's middle tier) and the values the
// adaptive controller's §4.H transitions assign when they narrow the
// search (see controller.go's applyModeTransitions/applyRecoveryActions).
// mutate reads the live Parameters.MutationSigmaGauge/Grav fields
// directly rather than calling these, since those fields are the one
// place the controller's overrides actually land; the table stays here as
// independently testable documentation of spec.md's literal thresholds.
func gaugeSigma(deltaAlpha float64) float64 {
	if deltaAlpha < 1e-8 {
		return 5e-4
	}
	return 0.05
}

func gravSigma(deltaG float64) float64 {
	switch {
	case deltaG >= 1e-2:
		return 1.0
	case deltaG >= 1e-3:
		return 0.2
	default:
		return 0.01
	}
}

// mutate applies per-gene additive Gaussian mutation (spec.md §4.G
// "Mutation"), followed by directed mutation toward the target constants
// when the best candidate is already c-precise (spec.md §4.G "Directed
// mutation"), and finally clamps to the coefficient bounds.
func mutate(r *rng.Source, g genome.Genome, p Parameters, best genome.Candidate) genome.Genome {
	out := g.Clone()

	for i := 0; i < constants.NumOps; i++ {
		var rate, sigma float64

		switch i {
		case constants.IdxGauge:
			rate, sigma = p.MutationRateGauge, p.MutationSigmaGauge
		case constants.IdxGrav:
			rate, sigma = p.MutationRateGrav, p.MutationSigmaGrav
		default:
			rate, sigma = p.MutationRate, p.MutationSigma
		}

		if r.Uniform() < rate {
			out[i] += r.Gaussian() * sigma
		}
	}

	out = applyDirectedMutation(r, out, best)

	return clampBounds(out, p)
}

// applyDirectedMutation nudges the gauge and gravity coefficients toward
// the targets once the model is already c-precise (spec.md §4.G "Directed
// mutation"), using the current coefficient's own magnitude as the step
// scale, the same convention the seeding anchors use.
func applyDirectedMutation(r *rng.Source, g genome.Genome, best genome.Candidate) genome.Genome {
	if best.DeltaC >= 1e-6 {
		return g
	}

	if best.DeltaAlpha < 3e-3 {
		current := g[constants.IdxGauge]
		err := best.AlphaModel - constants.FineStructure
		g[constants.IdxGauge] = current + sign(err)*math.Abs(err/constants.FineStructure)*current*0.5 + r.Gaussian()*current*1e-5
	}

	if best.DeltaAlpha < 1e-8 {
		current := g[constants.IdxGrav]
		gerr := best.GModel - constants.GravitationalConst
		g[constants.IdxGrav] = current - sign(gerr)*math.Abs(gerr/constants.GravitationalConst)*current*2.0 + r.Gaussian()*current*1e-2
	}

	return g
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// clampBounds enforces spec.md §4.G's post-mutation bounds: gauge within
// ±gauge_range, gravity within ±grav_range, every other gene within
// [-1, 1].
func clampBounds(g genome.Genome, p Parameters) genome.Genome {
	g[constants.IdxGauge] = clampTo(g[constants.IdxGauge], p.GaugeRange)
	g[constants.IdxGrav] = clampTo(g[constants.IdxGrav], p.GravRange)

	for _, i := range []int{constants.IdxTT, constants.IdxXX, constants.IdxMass, constants.IdxSelf} {
		g[i] = clampTo(g[i], 1.0)
	}

	return g
}

func clampTo(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

// jitter returns a clone of g with per-gene Gaussian jitter of magnitude
// |c_i| * scale, used by elitism padding and recovery actions (spec.md
// §4.G step 5, §4.H recovery table).
func jitter(r *rng.Source, g genome.Genome, scale float64) genome.Genome {
	out := g.Clone()
	for i := range out {
		out[i] += r.Gaussian() * math.Abs(out[i]) * scale
	}
	return out
}
