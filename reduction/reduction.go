// ABOUTME: Closed-form analytic maps from genome to emergent constants
// ABOUTME: Speed of light, fine structure, and gravity reductions with error terms

// Package reduction implements the closed-form analytic maps from a genome
// of Lagrangian coefficients to the emergent physical constants used to
// score it (spec.md §4.B). Every function here is pure and side-effect
// free so the fast evaluator can call it directly and the precise
// evaluator can mirror it digit-for-digit in arbitrary precision.
package reduction

import (
	"math"

	"github.com/sthamann/lagrangian-evolve/constants"
)

// Dispersion holds the kinetic-term dispersion coefficients derived from
// the Euler-Lagrange equation for c_tt/c_xx.
type Dispersion struct {
	A float64
	B float64
}

// ErrDegenerate-style signaling is done through a bool return rather than
// an error: degeneracy is an expected, frequent outcome during random
// seeding/mutation, not an exceptional condition (spec.md §7 treats it as
// "locally recovered", not propagated).

// DispersionCoefficients computes A = -2*c_tt and B = -2*c_xx, and reports
// whether the genome is degenerate (|A| < 1e-15).
func DispersionCoefficients(cTT, cXX float64) (d Dispersion, degenerate bool) {
	d = Dispersion{A: -2 * cTT, B: -2 * cXX}
	degenerate = math.Abs(d.A) < 1e-15
	return d, degenerate
}

// SpeedOfLight computes c_model from the dispersion coefficients. It
// returns the modeled speed, whether a sign-flip penalty applies (r <= 0),
// and whether the genome is degenerate (r is zero or NaN).
func SpeedOfLight(d Dispersion) (cModel float64, signPenalty bool, degenerate bool) {
	if math.Abs(d.A) < 1e-15 {
		return 0, false, true
	}

	r := -d.B / d.A
	if r == 0 || math.IsNaN(r) {
		return 0, false, true
	}

	signPenalty = r <= 0
	cModel = math.Sqrt(math.Abs(r)) * constants.SpeedOfLight

	return cModel, signPenalty, false
}

// FineStructure computes alpha_model = |c_gauge| / (4*pi).
func FineStructure(cGauge float64) float64 {
	return math.Abs(cGauge) / (4 * constants.Pi)
}

// GravityFromRaw maps a raw gravity-coupling coefficient to a gravitational
// constant. Per spec.md §4.B, the raw value may already be G (when its
// magnitude falls in [1e-13, 1e-2]) or may be kappa, in which case
// G = 1 / (16*pi*|raw|).
func GravityFromRaw(raw float64) (g float64, ok bool) {
	abs := math.Abs(raw)
	if abs == 0 {
		return 0, false
	}

	if abs >= 1e-13 && abs <= 1e-2 {
		return abs, true
	}

	return 1.0 / (16 * constants.Pi * abs), true
}

// RawFromGravity is the inverse of GravityFromRaw for the kappa branch,
// used by tests asserting the round-trip law in spec.md §8 (seeding uses
// constants.KappaStar directly).
func RawFromGravity(g float64) float64 {
	return 1.0 / (16 * constants.Pi * g)
}

// LorentzEpsilon computes the Lorentz-isotropy deviation from the kinetic
// terms. a = -c_tt, b = c_xx; if either is non-positive the violation is
// maximal (1.0), matching the permissive reading of the legacy behavior
// recorded in spec.md §9.
func LorentzEpsilon(cTT, cXX float64) float64 {
	a := -cTT
	b := cXX

	if a <= 0 || b <= 0 {
		return 1.0
	}

	eps := math.Abs(math.Sqrt(b/a)-1)

	return clamp(eps, 1e-16, 1.0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RelativeErrors bundles the three relative-error terms the fitness
// evaluator and adaptive controller consume.
type RelativeErrors struct {
	DeltaC     float64
	DeltaAlpha float64
	DeltaG     float64
}

// Errors computes the relative errors of the emergent constants against
// their targets. gOK indicates whether a gravitational constant could be
// recovered from the genome at all; when false DeltaG is forced to 1
// (spec.md §4.B).
func Errors(cModel, alphaModel, gModel float64, gOK bool) RelativeErrors {
	var gErr float64
	if gOK {
		gErr = math.Abs(gModel-constants.GravitationalConst) / constants.GravitationalConst
	} else {
		gErr = 1.0
	}

	return RelativeErrors{
		DeltaC:     math.Abs(cModel-constants.SpeedOfLight) / constants.SpeedOfLight,
		DeltaAlpha: math.Abs(alphaModel-constants.FineStructure) / constants.FineStructure,
		DeltaG:     gErr,
	}
}
