// ABOUTME: Mutable per-run evolution state
// ABOUTME: Tracks stagnation counters and the digit-history ring buffer

package evolve

import "math"

// digitHistoryCap bounds the ring buffer of solved-digit counts the
// controller inspects for deep stagnation (spec.md §3, §4.H).
const digitHistoryCap = 50

// DigitRecord is one row of the digit-history ring: how many leading
// correct decimal digits the current best candidate has for each target.
type DigitRecord struct {
	DC     int
	DAlpha int
	DG     int
}

// digitsOf converts a relative error into a leading-correct-digit count.
// A non-positive or non-finite delta is treated as "fully resolved" for
// counting purposes and clamped to a generous ceiling instead of +Inf.
func digitsOf(delta float64) int {
	if delta <= 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 17
	}
	// The small bias keeps exact powers of ten (e.g. 0.1, whose log10
	// rounds to just above -1) from losing a digit to floating-point error.
	d := int(math.Floor(-math.Log10(delta) + 1e-9))
	if d < 0 {
		return 0
	}
	return d
}

// EvolutionState is the engine's mutable control block (spec.md §3).
type EvolutionState struct {
	Generation int
	Mode       Mode

	FitnessStagnation  int
	GravityStagnation  int
	DeepStagnation     int
	LongTermStagnation int

	LastBestFitness float64
	LastBestGrav    float64

	digitHistory []DigitRecord
}

// NewEvolutionState returns a fresh state at generation 0 in Explore mode.
// The engine's current mutation σ lives on Parameters (MutationSigma/
// MutationSigmaGauge/MutationSigmaGrav), not here, since that is the field
// mutate and the adaptive controller both read and write (evolve/
// selection.go, evolve/controller.go).
func NewEvolutionState() *EvolutionState {
	return &EvolutionState{
		Mode:            Explore,
		LastBestFitness: math.Inf(1),
	}
}

// RecordDigits appends a digit-history row, evicting the oldest row once
// the ring is at capacity (spec.md §3 "bounded digit-history ring").
func (s *EvolutionState) RecordDigits(deltaC, deltaAlpha, deltaG float64) {
	row := DigitRecord{DC: digitsOf(deltaC), DAlpha: digitsOf(deltaAlpha), DG: digitsOf(deltaG)}

	s.digitHistory = append(s.digitHistory, row)
	if len(s.digitHistory) > digitHistoryCap {
		s.digitHistory = s.digitHistory[len(s.digitHistory)-digitHistoryCap:]
	}
}

// DigitHistory returns the ring buffer's contents, oldest first.
func (s *EvolutionState) DigitHistory() []DigitRecord {
	return s.digitHistory
}

// EffectiveStagnationLimit scales a nominal stagnation threshold by how
// many leading digits the current best candidate has already resolved,
// when AdaptivePatience is enabled (DESIGN.md Open Question decision,
// supplemented from the wildfunctions-genetic_series engine's
// digit-scaled patience). It never changes the fixed trigger generations
// spec.md §4.H pins; it only gives an embedder an alternative, read-only
// view of "how patient should I be" for its own reporting or tooling.
// With AdaptivePatience disabled, or no digit history recorded yet, it
// returns nominal unchanged.
func (s *EvolutionState) EffectiveStagnationLimit(nominal int, adaptivePatience bool) int {
	if !adaptivePatience || len(s.digitHistory) == 0 {
		return nominal
	}

	latest := s.digitHistory[len(s.digitHistory)-1]
	digits := latest.DC
	if latest.DAlpha < digits {
		digits = latest.DAlpha
	}
	if latest.DG < digits {
		digits = latest.DG
	}

	scale := float64(digits) / 10.0
	if scale > 1.0 {
		scale = 1.0
	}
	if scale < 0 {
		scale = 0
	}

	scaled := int(float64(nominal) * scale)
	if scaled < 1 {
		scaled = 1
	}

	return scaled
}

// noDigitIncreaseInLast10 reports whether the last 10 digit-history rows
// show no improvement in any of d_c, d_alpha, d_g versus the row just
// before that window (spec.md §4.H "deep_stagnation").
func (s *EvolutionState) noDigitIncreaseInLast10() bool {
	n := len(s.digitHistory)
	if n < 11 {
		return false
	}

	window := s.digitHistory[n-10:]
	baseline := s.digitHistory[n-11]

	maxC, maxAlpha, maxG := baseline.DC, baseline.DAlpha, baseline.DG
	for _, row := range window {
		if row.DC > maxC || row.DAlpha > maxAlpha || row.DG > maxG {
			return false
		}
	}

	return true
}
