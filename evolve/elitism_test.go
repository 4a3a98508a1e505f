// ABOUTME: Tests for elite selection and diversity enforcement
// ABOUTME: Covers padding, uniqueness enforcement, and injection windows

package evolve

import (
	"math"
	"testing"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/rng"
)

func survivorsWithAlphas(alphas ...float64) genome.Population {
	pop := make(genome.Population, len(alphas))
	for i, a := range alphas {
		pop[i] = genome.Candidate{Fitness: float64(i), AlphaModel: a}
	}
	return pop
}

func TestSelectElitesExploreTakesPrefix(t *testing.T) {
	r := rng.New(1)
	survivors := survivorsWithAlphas(0.1, 0.1, 0.1, 0.1)

	elites := selectElites(r, survivors, 2, Explore)
	if len(elites) != 2 {
		t.Fatalf("expected 2 elites, got %d", len(elites))
	}
}

func TestSelectElitesPrecisionEnforcesAlphaUniqueness(t *testing.T) {
	r := rng.New(1)
	survivors := survivorsWithAlphas(0.1, 0.1, 0.1, 0.2, 0.3)

	elites := selectElites(r, survivors, 3, Precision)
	if len(elites) != 3 {
		t.Fatalf("expected 3 elites (padded), got %d", len(elites))
	}
}

func TestSelectElitesPadsWhenSurvivorsScarce(t *testing.T) {
	r := rng.New(1)
	survivors := survivorsWithAlphas(0.1)

	elites := selectElites(r, survivors, 5, Explore)
	if len(elites) != 5 {
		t.Fatalf("expected padding to elite_count=5, got %d", len(elites))
	}
}

func TestShouldInjectFreshExactlyAt30(t *testing.T) {
	if !shouldInjectFresh(30) {
		t.Fatalf("expected injection at exactly 30")
	}
	if shouldInjectFresh(29) || shouldInjectFresh(31) {
		t.Fatalf("expected injection only at exactly 30")
	}
}

func TestInjectionAdjustmentsWindow(t *testing.T) {
	if injectionAdjustments(99) {
		t.Fatalf("expected no boost at generation 99")
	}
	if !injectionAdjustments(100) {
		t.Fatalf("expected boost at generation 100")
	}
	if !injectionAdjustments(119) {
		t.Fatalf("expected boost at generation 119")
	}
	if injectionAdjustments(120) {
		t.Fatalf("expected no boost at generation 120")
	}
}

func TestEnforceAlphaUniquenessMovesTowardTarget(t *testing.T) {
	// Two genomes with identical gauge coefficients, both giving the same
	// alpha above the target: the dedup offset must push c4 up (less
	// negative), which lowers alpha toward the target, not away from it.
	g := -constants.FineStructure * 4 * constants.Pi * 1.1 // alpha above target
	pop := []genome.Genome{{}, {}}
	pop[0][constants.IdxGauge] = g
	pop[1][constants.IdxGauge] = g

	alphaOf := func(gn genome.Genome) float64 {
		return math.Abs(gn[constants.IdxGauge]) / (4 * constants.Pi)
	}
	before := alphaOf(pop[1])

	enforceAlphaUniqueness(pop, alphaOf)

	after := alphaOf(pop[1])
	if after >= before {
		t.Fatalf("expected dedup offset to move alpha toward target (from %v), got %v", before, after)
	}
}

func TestEnforceGaugeUniquenessLimitsShare(t *testing.T) {
	r := rng.New(1)
	pop := make([]genome.Genome, 100)
	for i := range pop {
		pop[i][constants.IdxGauge] = -0.05 // all identical
	}

	enforceGaugeUniqueness(r, pop)

	counts := make(map[float64]int)
	for _, g := range pop {
		key := math.Round(g[constants.IdxGauge]*1e12) / 1e12
		counts[key]++
	}

	for _, c := range counts {
		if c > len(pop)/10+1 {
			t.Fatalf("gauge value shared by %d of %d genomes, want <= 10%%+1", c, len(pop))
		}
	}
}
