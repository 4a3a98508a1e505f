// ABOUTME: Tests for the Hall of Fame
// ABOUTME: Covers merging, dedup, capacity, and snapshot copying

package genome

import "testing"

func TestHallOfFameCapAndDedup(t *testing.T) {
	h := NewHallOfFame()

	batch := make([]Candidate, 0, 40)
	for i := 0; i < 40; i++ {
		batch = append(batch, Candidate{Fitness: float64(i % 20)}) // duplicates by design
	}
	h.Merge(batch)

	if h.Len() > HallOfFameCap {
		t.Fatalf("hall of fame exceeded cap: %d", h.Len())
	}

	snap := h.Snapshot()
	seen := make(map[float64]bool)
	for i, c := range snap {
		if seen[c.Fitness] {
			t.Fatalf("duplicate fitness %v at index %d", c.Fitness, i)
		}
		seen[c.Fitness] = true
		if i > 0 && snap[i-1].Fitness > c.Fitness {
			t.Fatalf("hall of fame not sorted ascending at index %d", i)
		}
	}
}

func TestHallOfFameBestEmpty(t *testing.T) {
	h := NewHallOfFame()
	if _, ok := h.Best(); ok {
		t.Fatalf("expected no best entry in an empty hall of fame")
	}
}

func TestHallOfFameSnapshotIsCopy(t *testing.T) {
	h := NewHallOfFame()
	h.Merge([]Candidate{{Fitness: 1}, {Fitness: 2}})

	snap := h.Snapshot()
	snap[0].Fitness = 999

	best, _ := h.Best()
	if best.Fitness == 999 {
		t.Fatalf("snapshot must not alias internal storage")
	}
}
