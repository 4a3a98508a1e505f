// ABOUTME: Hall of Fame bookkeeping
// ABOUTME: Bounded, deduplicated, fitness-sorted archive of past bests

package genome

import (
	"cmp"
	"slices"
)

// HallOfFameCap is the maximum number of entries retained (spec.md §3).
const HallOfFameCap = 30

// HallOfFame is a bounded, ordered, deduplicated record of the all-time
// best candidates across generations. It owns deep copies of everything
// it holds (spec.md §3 "elites and Hall-of-Fame retain deep copies").
type HallOfFame struct {
	entries []Candidate
}

// NewHallOfFame returns an empty Hall of Fame.
func NewHallOfFame() *HallOfFame {
	return &HallOfFame{entries: make([]Candidate, 0, HallOfFameCap)}
}

// Merge folds in a batch of candidates (typically the current
// generation's top-K), deduplicating by exact fitness equality, sorting
// ascending, and truncating to HallOfFameCap (spec.md §4.G step 4).
func (h *HallOfFame) Merge(candidates []Candidate) {
	for _, c := range candidates {
		h.entries = append(h.entries, c.Clone())
	}

	slices.SortStableFunc(h.entries, func(a, b Candidate) int {
		return cmp.Compare(a.Fitness, b.Fitness)
	})

	h.entries = dedupByFitness(h.entries)

	if len(h.entries) > HallOfFameCap {
		h.entries = h.entries[:HallOfFameCap]
	}
}

func dedupByFitness(sorted []Candidate) []Candidate {
	if len(sorted) == 0 {
		return sorted
	}

	out := sorted[:1]
	for _, c := range sorted[1:] {
		if c.Fitness == out[len(out)-1].Fitness {
			continue
		}
		out = append(out, c)
	}

	return out
}

// Len returns the current number of entries.
func (h *HallOfFame) Len() int {
	return len(h.entries)
}

// Best returns the best entry and true, or a zero value and false if the
// Hall of Fame is empty.
func (h *HallOfFame) Best() (Candidate, bool) {
	if len(h.entries) == 0 {
		return Candidate{}, false
	}
	return h.entries[0], true
}

// Snapshot returns a deep-copied, ordered slice of all entries, safe for a
// caller to read or serialize without racing the engine (supplemented
// from the wildfunctions-genetic_series hall-of-fame report, see
// DESIGN.md).
func (h *HallOfFame) Snapshot() []Candidate {
	out := make([]Candidate, len(h.entries))
	copy(out, h.entries)
	return out
}

// Sample returns a uniformly chosen entry's genome, used by recovery
// actions that reseed from the Hall of Fame (spec.md §4.H). It panics if
// the Hall of Fame is empty; callers must check Len() first.
func (h *HallOfFame) Sample(pick func(n int) int) Genome {
	return h.entries[pick(len(h.entries))].Genome
}
