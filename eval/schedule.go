// ABOUTME: Hard-gate tolerance schedule across generations
// ABOUTME: Implements the warmup, progressive, strict, and emergency-relax phases

package eval

import "math"

// Tolerances bundles the hard-gate relative-error ceilings for a given
// generation (spec.md §4.C "Progressive hard-constraint schedule").
type Tolerances struct {
	EpsC float64
	EpsG float64
}

const (
	epsCWarmup = 1e-2
	epsGWarmup = 1e-1

	epsCProgStart = 1e-2
	epsGProgStart = 1e-1

	epsCFinal = 1e-6
	epsGFinal = 1e-4
)

// ToleranceFor computes the hard-gate tolerances for generation g,
// following the four-phase schedule: warmup (0-9), progressive
// (10-99, geometric interpolation toward the final values), strict
// (100-499, pinned to the final values), and emergency relax (>=500,
// a slow linear loosening capped at 2x final).
func ToleranceFor(g int) Tolerances {
	switch {
	case g < 10:
		return Tolerances{EpsC: epsCWarmup, EpsG: epsGWarmup}
	case g < 100:
		frac := float64(g-10) / 90.0
		return Tolerances{
			EpsC: epsCProgStart * math.Pow(epsCFinal/epsCProgStart, frac),
			EpsG: epsGProgStart * math.Pow(epsGFinal/epsGProgStart, frac),
		}
	case g < 500:
		return Tolerances{EpsC: epsCFinal, EpsG: epsGFinal}
	default:
		relaxed := func(final float64) float64 {
			v := final * (1 + float64(g-500)*1e-4)
			if v > 2*final {
				v = 2 * final
			}
			return v
		}
		return Tolerances{EpsC: relaxed(epsCFinal), EpsG: relaxed(epsGFinal)}
	}
}
