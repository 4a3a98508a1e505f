// ABOUTME: Tests for EvolutionState
// ABOUTME: Covers digit counting, stagnation detection, and adaptive patience

package evolve

import "testing"

func TestDigitsOf(t *testing.T) {
	cases := []struct {
		delta float64
		want  int
	}{
		{1e-6, 6},
		{1e-1, 1},
		{0, 17},
		{-1, 17},
	}
	for _, c := range cases {
		if got := digitsOf(c.delta); got != c.want {
			t.Fatalf("digitsOf(%v) = %d, want %d", c.delta, got, c.want)
		}
	}
}

func TestRecordDigitsRingBufferCap(t *testing.T) {
	s := NewEvolutionState()
	for i := 0; i < 60; i++ {
		s.RecordDigits(1e-3, 1e-3, 1e-3)
	}
	if len(s.DigitHistory()) != digitHistoryCap {
		t.Fatalf("ring buffer grew beyond cap: %d", len(s.DigitHistory()))
	}
}

func TestNoDigitIncreaseDetection(t *testing.T) {
	s := NewEvolutionState()

	// 11 identical rows: the trailing window shows no improvement over
	// its own baseline row.
	for i := 0; i < 11; i++ {
		s.RecordDigits(1e-3, 1e-3, 1e-3)
	}
	if !s.noDigitIncreaseInLast10() {
		t.Fatalf("expected no-increase to be detected on flat history")
	}

	// One dramatically better row inside the trailing window clears the
	// signal, since it exceeds the window's own baseline.
	s.RecordDigits(1e-9, 1e-3, 1e-3)
	if s.noDigitIncreaseInLast10() {
		t.Fatalf("expected improvement within the window to clear no-increase")
	}
}

func TestNoDigitIncreaseRequiresEnoughHistory(t *testing.T) {
	s := NewEvolutionState()
	for i := 0; i < 5; i++ {
		s.RecordDigits(1e-3, 1e-3, 1e-3)
	}
	if s.noDigitIncreaseInLast10() {
		t.Fatalf("expected false with insufficient history")
	}
}

func TestEffectiveStagnationLimitDisabledReturnsNominal(t *testing.T) {
	s := NewEvolutionState()
	s.RecordDigits(1e-9, 1e-9, 1e-9)
	if got := s.EffectiveStagnationLimit(50, false); got != 50 {
		t.Fatalf("EffectiveStagnationLimit(disabled) = %d, want 50 unchanged", got)
	}
}

func TestEffectiveStagnationLimitNoHistoryReturnsNominal(t *testing.T) {
	s := NewEvolutionState()
	if got := s.EffectiveStagnationLimit(50, true); got != 50 {
		t.Fatalf("EffectiveStagnationLimit(no history) = %d, want 50 unchanged", got)
	}
}

func TestEffectiveStagnationLimitScalesByMinDigits(t *testing.T) {
	s := NewEvolutionState()
	// delta_c ~ 5 digits, delta_alpha ~ 3 digits, delta_g ~ 9 digits:
	// the minimum (3) gates the scale.
	s.RecordDigits(1e-5, 1e-3, 1e-9)
	got := s.EffectiveStagnationLimit(50, true)
	want := int(50 * 0.3)
	if got != want {
		t.Fatalf("EffectiveStagnationLimit = %d, want %d", got, want)
	}
}

func TestEffectiveStagnationLimitCapsAtNominal(t *testing.T) {
	s := NewEvolutionState()
	s.RecordDigits(1e-12, 1e-12, 1e-12) // 12 digits each, clamped to scale 1.0
	if got := s.EffectiveStagnationLimit(50, true); got != 50 {
		t.Fatalf("EffectiveStagnationLimit(high digits) = %d, want 50 (capped)", got)
	}
}
