// ABOUTME: Tests for selection, crossover, and mutation
// ABOUTME: Covers clamping, the sigma table, and directed mutation

package evolve

import (
	"testing"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
	"github.com/sthamann/lagrangian-evolve/rng"
)

func TestCrossoverAlwaysClonesBelowRate(t *testing.T) {
	r := rng.New(1)
	var a, b genome.Genome
	for i := range a {
		a[i] = 1
		b[i] = 2
	}

	childA, childB := crossover(r, a, b, 0) // rate 0: never crosses
	if childA != a || childB != b {
		t.Fatalf("expected clones at rate 0")
	}
}

func TestCrossoverProducesSinglePointSplit(t *testing.T) {
	r := rng.New(5)
	var a, b genome.Genome
	for i := range a {
		a[i] = 1
		b[i] = 2
	}

	childA, _ := crossover(r, a, b, 1.0) // rate 1: always crosses
	seenB := false
	for i := range childA {
		if childA[i] == 2 {
			seenB = true
		} else if seenB && childA[i] == 1 {
			t.Fatalf("crossover child is not a single contiguous split: %v", childA)
		}
	}
}

func TestClampBounds(t *testing.T) {
	p := DefaultParameters()
	p.GaugeRange = 0.2
	p.GravRange = 6e8

	var g genome.Genome
	g[constants.IdxGauge] = 5
	g[constants.IdxGrav] = -1e10
	g[constants.IdxTT] = 3

	out := clampBounds(g, p)

	if out[constants.IdxGauge] != 0.2 {
		t.Fatalf("gauge not clamped: %v", out[constants.IdxGauge])
	}
	if out[constants.IdxGrav] != -6e8 {
		t.Fatalf("gravity not clamped: %v", out[constants.IdxGrav])
	}
	if out[constants.IdxTT] != 1 {
		t.Fatalf("generic gene not clamped to [-1,1]: %v", out[constants.IdxTT])
	}
}

func TestGaugeAndGravSigmaTable(t *testing.T) {
	if gaugeSigma(1e-9) != 5e-4 {
		t.Fatalf("expected tight gauge sigma below 1e-8")
	}
	if gaugeSigma(1e-3) != 0.05 {
		t.Fatalf("expected wide gauge sigma above 1e-8")
	}

	if gravSigma(1e-1) != 1.0 {
		t.Fatalf("expected coarse gravity sigma above 1e-2")
	}
	if gravSigma(1e-2) != 1.0 {
		t.Fatalf("expected coarse gravity sigma at 1e-2 boundary")
	}
	if gravSigma(5e-3) != 0.2 {
		t.Fatalf("expected mid gravity sigma above 1e-3")
	}
	if gravSigma(1e-5) != 0.01 {
		t.Fatalf("expected fine gravity sigma below 1e-3")
	}
}

func TestMutateUsesParametersSigmaNotTable(t *testing.T) {
	r := rng.New(1)
	p := DefaultParameters()
	p.MutationRateGauge = 1.0 // force the gauge gene to always mutate
	p.MutationSigmaGauge = 5e-4
	p.GaugeRange = 1.0

	// best.DeltaAlpha sits in the band where the old delta-keyed table
	// would have produced sigma=0.05; the controller has since narrowed
	// Parameters.MutationSigmaGauge to 5e-4 (spec.md §4.H, Precision mode
	// with delta_c < 1e-6), and mutate must honor that override.
	best := genome.Candidate{DeltaAlpha: 1e-7, DeltaC: 1}

	var g genome.Genome
	g[constants.IdxGauge] = -0.05

	const trials = 200
	var maxMove float64
	for i := 0; i < trials; i++ {
		out := mutate(r, g, p, best)
		move := out[constants.IdxGauge] - g[constants.IdxGauge]
		if move < 0 {
			move = -move
		}
		if move > maxMove {
			maxMove = move
		}
	}

	// A sigma of 0.05 would routinely produce single-step moves well past
	// 0.01 over 200 Gaussian draws; a sigma of 5e-4 should not.
	if maxMove > 0.01 {
		t.Fatalf("gauge mutation step too large (%v) for Parameters.MutationSigmaGauge=5e-4; mutate is not reading the controller-managed sigma", maxMove)
	}
}

func TestDirectedMutationOnlyWhenCPrecise(t *testing.T) {
	r := rng.New(1)
	g := genome.Genome{constants.IdxTT: -0.5, constants.IdxXX: 0.5, constants.IdxGauge: -0.0916, constants.IdxGrav: -constants.KappaStar}

	best := genome.Candidate{DeltaC: 1e-3, DeltaAlpha: 1e-9, AlphaModel: constants.FineStructure * 1.1, GModel: constants.GravitationalConst, Genome: g}
	unchanged := applyDirectedMutation(r, g.Clone(), best)
	if unchanged != g {
		t.Fatalf("directed mutation should not apply when delta_c >= 1e-6")
	}

	best.DeltaC = 1e-7
	changed := applyDirectedMutation(r, g.Clone(), best)
	if changed[constants.IdxGauge] == g[constants.IdxGauge] {
		t.Fatalf("expected gauge to move under directed mutation")
	}
}
