// ABOUTME: Coefficient genome and candidate types
// ABOUTME: Defines rejection and cloning semantics

// Package genome defines the coefficient vector at the center of the
// search (spec.md §3), its evaluated form (Candidate), the fixed-size
// Population it lives in, and the cross-generation Hall of Fame.
package genome

import (
	"math"

	"github.com/sthamann/lagrangian-evolve/constants"
)

// Genome is the ordered 6-tuple of real coefficients being optimised.
// Indices are semantically fixed: see constants.Idx*.
type Genome [constants.NumOps]float64

// Finite reports whether every element of the genome is a finite number,
// the one invariant a Genome must always satisfy once placed into a
// generation snapshot (spec.md §3).
func (g Genome) Finite() bool {
	for _, v := range g {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Clone returns a copy; Genome is a value type so this is mostly
// documentation, but it keeps call sites explicit about intent when a
// genome is being lifted out of a generation buffer into the Hall of Fame.
func (g Genome) Clone() Genome {
	return g
}

// Candidate is a genome plus its evaluation summary (spec.md §3).
type Candidate struct {
	Genome     Genome
	Fitness    float64
	CModel     float64
	AlphaModel float64
	GModel     float64
	DeltaC     float64
	DeltaAlpha float64
	DeltaG     float64
	Generation int
}

// Rejected reports whether this candidate is disqualified from breeding
// and elitism: non-finite fitness, or fitness at or above the knock-out
// value (spec.md §3, §4.C step 4).
func (c Candidate) Rejected() bool {
	return math.IsNaN(c.Fitness) || math.IsInf(c.Fitness, 0) || c.Fitness >= constants.KnockOut
}

// Clone deep-copies a candidate. Candidate's fields are all value types,
// so this is a plain copy, but it documents the ownership boundary
// described in spec.md §3: elites and Hall-of-Fame entries must own an
// independent copy, not an alias into the current generation's buffer.
func (c Candidate) Clone() Candidate {
	return c
}
