// ABOUTME: Fixed numeric targets, tolerances, and operator indices
// ABOUTME: Defines term limits and the exploration/precision mutation presets

// Package constants holds the fixed numeric targets, tolerances, operator
// indices, and mutation presets shared by every other package in this
// module. Nothing here is mutated at runtime.
package constants

// CODATA-derived target values the search is trying to match.
const (
	SpeedOfLight       = 299792458.0       // C*, m/s, exact by SI definition
	FineStructure      = 7.2973525693e-3   // alpha*, dimensionless
	GravitationalConst = 6.6743e-11        // G*, m^3 kg^-1 s^-2
)

// Relative tolerances at full strictness (spec.md §4.C "Strict" phase).
const (
	EpsCFinal = 1e-6
	EpsGFinal = 1e-4
)

// Genome layout. Indices are semantically fixed across the whole module.
const (
	IdxTT     = 0 // c_tt:   (d_t phi)^2 coefficient
	IdxXX     = 1 // c_xx:   (d_x phi)^2 coefficient
	IdxMass   = 2 // mass term coefficient
	IdxSelf   = 3 // self-interaction coefficient
	IdxGauge  = 4 // gauge (F^2) coefficient
	IdxGrav   = 5 // gravity-coupling (kappa R) coefficient
	NumOps    = 6
)

// KnockOut is the fitness assigned to a candidate that fails the hard
// feasibility gate. It must compare as worse than any realistic fitness
// value computed by the evaluator.
const KnockOut = 1e9

// DegenerateFitness is the sentinel fitness assigned to a genome that
// fails an arithmetic precondition (e.g. near-zero dispersion leading
// coefficient) before any gate is even evaluated.
const DegenerateFitness = 1000.0

// TermLimits are invariants on valid coefficient magnitudes (spec.md §3).
var TermLimits = struct {
	MaxAbsMass    float64
	MaxAbsSelf    float64
	GaugeSign     float64 // required sign of c4: negative
	GravMin       float64
	GravMax       float64
	MaxLorentzEps float64
}{
	MaxAbsMass:    0.8,
	MaxAbsSelf:    0.35,
	GaugeSign:     -1,
	GravMin:       -8e8,
	GravMax:       8e8,
	MaxLorentzEps: 0.3,
}

// MutationPreset bundles the gauge/gravity mutation ranges and base sigma
// that the adaptive controller swaps between (spec.md §4.A).
type MutationPreset struct {
	GaugeRange     float64
	GravRange      float64
	MutationSigma  float64
}

// Exploration is the wide-search preset used before the controller has
// detected any convergence in alpha.
var Exploration = MutationPreset{
	GaugeRange:    0.2,
	GravRange:     6e8,
	MutationSigma: 0.2,
}

// Precision is the narrow-search preset the controller switches to once
// best.delta_alpha < 1e-5.
var Precision = MutationPreset{
	GaugeRange:    0.05,
	GravRange:     2e8,
	MutationSigma: 0.05,
}

// KappaStar is the kappa value corresponding to GravitationalConst under
// the G = 1/(16*pi*|kappa|) convention (spec.md §4.F seeding).
var KappaStar = 1.0 / (16.0 * Pi * GravitationalConst)

// Pi is exported so reduction/ and genome/ share a single value rather
// than each importing math and re-deriving it; keeps the conversion in
// §4.F and §4.B trivially consistent.
const Pi = 3.14159265358979323846
