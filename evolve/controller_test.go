// ABOUTME: Tests for the adaptive controller
// ABOUTME: Covers mode transitions, stagnation accounting, and recovery actions

package evolve

import (
	"testing"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/rng"
)

func TestApplyModeTransitionsExploreToPrecision(t *testing.T) {
	state := NewEvolutionState()
	shared := NewSharedParameters(DefaultParameters())

	best := genome.Candidate{DeltaAlpha: 1e-6, DeltaC: 1e-3}
	applyModeTransitions(state, shared, best)

	if state.Mode != Precision {
		t.Fatalf("expected transition to Precision, got %v", state.Mode)
	}
	if shared.Get().GaugeRange != constants.Precision.GaugeRange {
		t.Fatalf("expected precision preset applied")
	}
}

func TestApplyModeTransitionsMonotonic(t *testing.T) {
	state := NewEvolutionState()
	state.Mode = UltraPrecision
	shared := NewSharedParameters(DefaultParameters())

	// Even a regression in delta_alpha must not move the mode backwards.
	applyModeTransitions(state, shared, genome.Candidate{DeltaAlpha: 1, DeltaC: 1})
	if state.Mode != UltraPrecision {
		t.Fatalf("mode regressed from UltraPrecision to %v", state.Mode)
	}
}

func TestApplyModeTransitionsGaugeFreeze(t *testing.T) {
	state := NewEvolutionState()
	shared := NewSharedParameters(DefaultParameters())

	applyModeTransitions(state, shared, genome.Candidate{DeltaAlpha: 1e-11, DeltaC: 1})

	p := shared.Get()
	if p.MutationRateGauge != 0.05 || p.MutationSigmaGauge != 2e-4 {
		t.Fatalf("expected gauge freeze values, got rate=%v sigma=%v", p.MutationRateGauge, p.MutationSigmaGauge)
	}
}

func TestAccountStagnationFitnessReset(t *testing.T) {
	state := NewEvolutionState()
	state.LastBestFitness = 1.0
	state.FitnessStagnation = 10

	accountStagnation(state, genome.Candidate{Fitness: 0.5}) // clear improvement
	if state.FitnessStagnation != 0 {
		t.Fatalf("expected stagnation reset on improvement, got %d", state.FitnessStagnation)
	}

	state.LastBestFitness = 0.5 // Tick records the previous best after accounting
	accountStagnation(state, genome.Candidate{Fitness: 0.5}) // no improvement
	if state.FitnessStagnation != 1 {
		t.Fatalf("expected stagnation increment, got %d", state.FitnessStagnation)
	}
}

func TestReanneal(t *testing.T) {
	r := rng.New(1)
	pop := make([]genome.Genome, 10)
	for i := range pop {
		pop[i][constants.IdxMass] = 0.5
	}

	reanneal(r, pop, 0)

	// The anchor (index 0) must be left untouched; later slots perturbed.
	if pop[0][constants.IdxMass] != 0.5 {
		t.Fatalf("anchor slot was modified")
	}
}

func TestRandomSlotsRespectsEliteBoundary(t *testing.T) {
	r := rng.New(1)
	slots := randomSlots(r, 20, 5, 8)

	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}
	for _, idx := range slots {
		if idx < 5 {
			t.Fatalf("slot %d falls within elite range", idx)
		}
	}
}

func TestLongTermStagnationRecoverySetsCounterTo50(t *testing.T) {
	state := NewEvolutionState()
	state.LongTermStagnation = 100
	shared := NewSharedParameters(DefaultParameters())
	hof := genome.NewHallOfFame()
	hof.Merge([]genome.Candidate{{Fitness: 0.1}})
	r := rng.New(1)

	pop := make([]genome.Genome, 20)
	best := genome.Candidate{Fitness: 0.1}

	applyRecoveryActions(state, shared, best, hof, r, pop, 2)

	if state.LongTermStagnation != 50 {
		t.Fatalf("expected counter reset to 50, got %d", state.LongTermStagnation)
	}
}
