// ABOUTME: Mutation and population parameters shared across a generation
// ABOUTME: SharedParameters guards live reconfiguration under a mutex

// Package evolve implements the evolutionary search engine (spec.md §4.G),
// its adaptive controller (§4.H), and the mutable EvolutionState and
// Parameters bundle (§3) they share.
package evolve

import (
	"sync"

	"github.com/sthamann/lagrangian-evolve/constants"
)

// Parameters is the immutable-per-generation bundle the engine reads at
// the top of every generation (spec.md §3). The adaptive controller may
// replace it wholesale between generations.
type Parameters struct {
	PopulationSize      int
	EliteCount          int
	MutationRate        float64
	MutationSigma       float64
	MutationRateGauge   float64
	MutationSigmaGauge  float64
	MutationRateGrav    float64
	MutationSigmaGrav   float64
	CrossoverRate       float64
	GaugeRange          float64
	GravRange           float64
	MaxGenerations      int
	UsePrecise          bool

	// AdaptivePatience, when set, enables the opt-in stagnation-limit
	// scaling recorded as an Open Question decision in DESIGN.md
	// (supplemented from the wildfunctions-genetic_series engine). It
	// never changes the fixed §4.H trigger generations themselves.
	AdaptivePatience bool
}

// DefaultParameters returns the Exploration-preset starting bundle.
func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize:     800,
		EliteCount:         40,
		MutationRate:       0.1,
		MutationSigma:      constants.Exploration.MutationSigma,
		MutationRateGauge:  0.1,
		MutationSigmaGauge: 0.05,
		MutationRateGrav:   0.1,
		MutationSigmaGrav:  0.2,
		CrossoverRate:      0.7,
		GaugeRange:         constants.Exploration.GaugeRange,
		GravRange:          constants.Exploration.GravRange,
		MaxGenerations:     0, // 0 means unbounded; caller supplies a stop signal
		UsePrecise:         false,
	}
}

// SharedParameters wraps a Parameters bundle with a mutex for thread-safe
// access between the engine goroutine and an embedder reconfiguring it
// live, the same way the teacher's SharedConfig (progress.go/ga.go)
// mediates the GA and TUI.
type SharedParameters struct {
	mu     sync.RWMutex
	params Parameters
}

// NewSharedParameters wraps an initial Parameters value.
func NewSharedParameters(p Parameters) *SharedParameters {
	return &SharedParameters{params: p}
}

// Get returns a copy of the current parameters.
func (s *SharedParameters) Get() Parameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Set replaces the parameters, e.g. from a reconfigure command or the
// adaptive controller's preset swap.
func (s *SharedParameters) Set(p Parameters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
}

// Mutate applies fn to a copy of the current parameters and stores the
// result, useful for the controller's targeted field updates (e.g.
// "set MutationRateGauge = 0.8") without racing a concurrent Get.
func (s *SharedParameters) Mutate(fn func(*Parameters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.params)
}
