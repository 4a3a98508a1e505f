// ABOUTME: Arbitrary-precision analytic maps
// ABOUTME: Mirrors reduction/ using math/big.Float

package precision

import (
	"math/big"

	"github.com/sthamann/lagrangian-evolve/constants"
)

// bigConstants mirrors reduction/reduction.go in arbitrary precision. It
// is the "first action in the precise evaluator" spec.md §9 calls for:
// re-implementing §4.B in big.Float arithmetic so that only rounding
// differs between the two evaluators.
type bigConstants struct {
	prec       uint
	pi         *big.Float
	speedLight *big.Float
	fineStruct *big.Float
	gravConst  *big.Float
}

func newBigConstants(prec uint) *bigConstants {
	f := func(v float64) *big.Float { return new(big.Float).SetPrec(prec).SetFloat64(v) }

	return &bigConstants{
		prec:       prec,
		pi:         bigPi(prec),
		speedLight: f(constants.SpeedOfLight),
		fineStruct: f(constants.FineStructure),
		gravConst:  f(constants.GravitationalConst),
	}
}

// bigPi returns pi as a prec-bit big.Float set from the float64 value of
// pi, so it carries only float64's ~16 correct digits; the extra bits of
// precision keep arithmetic on it from being rounded to 53 bits, but do
// not add digits of pi. The fast evaluator uses the same float64 value.
func bigPi(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetFloat64(3.14159265358979323846)
}

func (b *bigConstants) float(v float64) *big.Float {
	return new(big.Float).SetPrec(b.prec).SetFloat64(v)
}

// dispersion mirrors reduction.DispersionCoefficients.
func (b *bigConstants) dispersion(cTT, cXX *big.Float) (a, bb *big.Float, degenerate bool) {
	two := b.float(2)
	a = new(big.Float).SetPrec(b.prec).Neg(new(big.Float).SetPrec(b.prec).Mul(two, cTT))
	bb = new(big.Float).SetPrec(b.prec).Neg(new(big.Float).SetPrec(b.prec).Mul(two, cXX))

	threshold := b.float(1e-15)
	degenerate = absBig(a).Cmp(threshold) < 0

	return a, bb, degenerate
}

// speedOfLight mirrors reduction.SpeedOfLight.
func (b *bigConstants) speedOfLight(a, bcoef *big.Float) (cModel *big.Float, signPenalty, degenerate bool) {
	threshold := b.float(1e-15)
	if absBig(a).Cmp(threshold) < 0 {
		return b.float(0), false, true
	}

	r := new(big.Float).SetPrec(b.prec).Quo(new(big.Float).SetPrec(b.prec).Neg(bcoef), a)
	if r.Sign() == 0 {
		return b.float(0), false, true
	}

	signPenalty = r.Sign() <= 0

	absR := absBig(r)
	sqrtR := bigSqrt(absR, b.prec)
	cModel = new(big.Float).SetPrec(b.prec).Mul(sqrtR, b.speedLight)

	return cModel, signPenalty, false
}

// fineStructure mirrors reduction.FineStructure.
func (b *bigConstants) fineStructure(cGauge *big.Float) *big.Float {
	fourPi := new(big.Float).SetPrec(b.prec).Mul(b.float(4), b.pi)
	return new(big.Float).SetPrec(b.prec).Quo(absBig(cGauge), fourPi)
}

// gravityFromRaw mirrors reduction.GravityFromRaw.
func (b *bigConstants) gravityFromRaw(raw *big.Float) (g *big.Float, ok bool) {
	abs := absBig(raw)
	if abs.Sign() == 0 {
		return b.float(0), false
	}

	lo, hi := b.float(1e-13), b.float(1e-2)
	if abs.Cmp(lo) >= 0 && abs.Cmp(hi) <= 0 {
		return abs, true
	}

	sixteenPi := new(big.Float).SetPrec(b.prec).Mul(b.float(16), b.pi)
	denom := new(big.Float).SetPrec(b.prec).Mul(sixteenPi, abs)

	return new(big.Float).SetPrec(b.prec).Quo(b.float(1), denom), true
}

// relativeError computes |model - target| / target.
func (b *bigConstants) relativeError(model, target *big.Float) *big.Float {
	diff := absBig(new(big.Float).SetPrec(b.prec).Sub(model, target))
	return new(big.Float).SetPrec(b.prec).Quo(diff, target)
}

func absBig(x *big.Float) *big.Float {
	return new(big.Float).SetPrec(x.Prec()).Abs(x)
}

// bigSqrt computes sqrt(x) for x >= 0 via Newton's method, converging to
// the full precision of prec bits. The iteration is implemented directly
// rather than through big.Float.Sqrt, seeded from the float64
// approximation and run for prec/8+8 steps.
func bigSqrt(x *big.Float, prec uint) *big.Float {
	if x.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}

	f64, _ := x.Float64()
	guess := new(big.Float).SetPrec(prec).SetFloat64(sqrtApprox(f64))

	two := new(big.Float).SetPrec(prec).SetInt64(2)

	for i := uint(0); i < prec/8+8; i++ {
		// next = (guess + x/guess) / 2
		quotient := new(big.Float).SetPrec(prec).Quo(x, guess)
		sum := new(big.Float).SetPrec(prec).Add(guess, quotient)
		guess = new(big.Float).SetPrec(prec).Quo(sum, two)
	}

	return guess
}

func sqrtApprox(x float64) float64 {
	if x <= 0 {
		return 0
	}
	// A handful of Newton steps from a crude starting guess is enough to
	// seed the big.Float iteration above.
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}
