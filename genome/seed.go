// ABOUTME: Physics-anchored genome seeding
// ABOUTME: Builds the initial population around the target constants

package genome

import (
	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/rng"
)

// Seed produces a single genome biased toward the physics anchor
// (spec.md §4.F): c_tt near -0.5, c_xx set so c_xx/|c_tt| ≈ 1 (giving
// c_model ≈ C*), a small mass/self-interaction term, a gauge coefficient
// tuned so alpha_model ≈ alpha*, and a gravity coefficient tuned so
// G_model ≈ G*.
func Seed(r *rng.Source) Genome {
	var g Genome

	g[constants.IdxTT] = -0.5 + (r.Uniform()*0.1 - 0.05) // [-0.55, -0.45]
	g[constants.IdxXX] = -g[constants.IdxTT] + noise(r, 5e-4)
	g[constants.IdxMass] = -0.3 * r.Uniform() // [-0.3, 0]
	g[constants.IdxSelf] = noise(r, 0.1)
	g[constants.IdxGauge] = -0.0916 + noise(r, 5e-5)
	g[constants.IdxGrav] = -constants.KappaStar + noise(r, constants.KappaStar*5e-6)

	return g
}

// SeedPopulation produces n fresh genomes.
func SeedPopulation(r *rng.Source, n int) []Genome {
	out := make([]Genome, n)
	for i := range out {
		out[i] = Seed(r)
	}
	return out
}

// noise returns a uniform value in [-mag, +mag].
func noise(r *rng.Source, mag float64) float64 {
	return (r.Uniform()*2 - 1) * mag
}
