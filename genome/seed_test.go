// ABOUTME: Tests for genome seeding
// ABOUTME: Covers anchor placement and population-level seeding

package genome

import (
	"math"
	"testing"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/rng"
)

// Scenario 1 (spec.md §8 "Baseline seeding"): with seed 1, every seeded
// genome has |c_tt + 0.5| < 0.06 and |c_xx - 0.5| < 0.06.
func TestSeedPopulationAnchorBounds(t *testing.T) {
	r := rng.New(1)
	pop := SeedPopulation(r, 32)

	for i, g := range pop {
		if math.Abs(g[constants.IdxTT]+0.5) >= 0.06 {
			t.Fatalf("genome %d: |c_tt+0.5| = %v, want < 0.06", i, math.Abs(g[constants.IdxTT]+0.5))
		}
		if math.Abs(g[constants.IdxXX]-0.5) >= 0.06 {
			t.Fatalf("genome %d: |c_xx-0.5| = %v, want < 0.06", i, math.Abs(g[constants.IdxXX]-0.5))
		}
		if !g.Finite() {
			t.Fatalf("genome %d: not finite", i)
		}
	}
}

func TestSeedGaugeAndGravityAnchors(t *testing.T) {
	r := rng.New(7)
	g := Seed(r)

	if math.Abs(g[constants.IdxGauge]+0.0916) >= 1e-4 {
		t.Fatalf("gauge anchor off: %v", g[constants.IdxGauge])
	}
	if math.Abs(g[constants.IdxGrav]+constants.KappaStar) >= constants.KappaStar*1e-5 {
		t.Fatalf("gravity anchor off: %v", g[constants.IdxGrav])
	}
}

func TestSeedDeterministicUnderSeed(t *testing.T) {
	a := Seed(rng.New(42))
	b := Seed(rng.New(42))

	if a != b {
		t.Fatalf("same seed produced different genomes: %v vs %v", a, b)
	}
}
