// ABOUTME: Population slice helpers
// ABOUTME: Sorting, survivor filtering, and top-k extraction

package genome

import (
	"cmp"
	"slices"
)

// Population is an ordered collection of candidates of a fixed size for
// the duration of a run. Order carries no semantics except after Sort,
// after which index 0 is the current best (spec.md §3).
type Population []Candidate

// Sort orders the population ascending by fitness. It is a stable sort so
// that ties (e.g. identical knock-out fitness) preserve relative order,
// which keeps spec.md §8 invariant 7 (bit-identical Update sequences for
// identical seeds) achievable.
func (p Population) Sort() {
	slices.SortStableFunc(p, func(a, b Candidate) int {
		return cmp.Compare(a.Fitness, b.Fitness)
	})
}

// Survivors returns the prefix of a sorted population that is not
// Rejected. The population must already be sorted ascending by fitness,
// so survivors form a contiguous prefix.
func (p Population) Survivors() Population {
	for i, c := range p {
		if c.Rejected() {
			return p[:i]
		}
	}
	return p
}

// Best returns the best candidate (index 0) of a sorted, non-empty
// population.
func (p Population) Best() Candidate {
	return p[0]
}

// Top returns a deep-copied slice of the first k candidates (or fewer, if
// the population is smaller), suitable for handing to a subscriber that
// must not observe further mutation of the engine's internal buffer.
func (p Population) Top(k int) []Candidate {
	if k > len(p) {
		k = len(p)
	}

	out := make([]Candidate, k)
	copy(out, p[:k])

	return out
}
