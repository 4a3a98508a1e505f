// ABOUTME: Arbitrary-precision fitness evaluation core
// ABOUTME: Mirrors eval's algorithm through big.Float constants

package precision

import (
	"math/big"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/eval"
	"github.com/sthamann/lagrangian-evolve/genome"
)

// evaluatePrecise mirrors eval.evaluateUncached's algorithm exactly, but
// computed through bigConstants so that rounding is the only difference
// between the two evaluators (spec.md §9).
func evaluatePrecise(g genome.Genome, generation, digits int) genome.Candidate {
	if !g.Finite() {
		return degenerate(g, generation)
	}

	prec := bitsForDigits(digits)
	bc := newBigConstants(prec)

	f := bc.float
	cTT, cXX := f(g[constants.IdxTT]), f(g[constants.IdxXX])
	cMass, cSelf := g[constants.IdxMass], g[constants.IdxSelf]
	cGauge, cGrav := f(g[constants.IdxGauge]), f(g[constants.IdxGrav])

	a, b, degenerateDispersion := bc.dispersion(cTT, cXX)
	if degenerateDispersion {
		return degenerate(g, generation)
	}

	cModelBig, signPenalty, degenerateC := bc.speedOfLight(a, b)
	if degenerateC {
		return degenerate(g, generation)
	}

	alphaBig := bc.fineStructure(cGauge)
	gBig, gOK := bc.gravityFromRaw(cGrav)

	deltaC := bc.relativeError(cModelBig, bc.speedLight)
	deltaAlpha := bc.relativeError(alphaBig, bc.fineStruct)

	var deltaG *big.Float
	if gOK {
		deltaG = bc.relativeError(gBig, bc.gravConst)
	} else {
		deltaG = bc.float(1)
	}

	cModel, _ := cModelBig.Float64()
	alphaModel, _ := alphaBig.Float64()
	gModel, _ := gBig.Float64()
	dC, _ := deltaC.Float64()
	dAlpha, _ := deltaAlpha.Float64()
	dG, _ := deltaG.Float64()

	tol := eval.ToleranceFor(generation)
	if dC > tol.EpsC || dG > tol.EpsG {
		return genome.Candidate{
			Genome: g, Fitness: constants.KnockOut,
			CModel: cModel, AlphaModel: alphaModel, GModel: gModel,
			DeltaC: dC, DeltaAlpha: dAlpha, DeltaG: dG,
			Generation: generation,
		}
	}

	eps := lorentzEpsilonBig(bc, cTT, cXX)
	fitness := dAlpha + penaltiesFloat(g[constants.IdxTT], g[constants.IdxXX], cMass, cSelf, g[constants.IdxGauge], eps, signPenalty)

	return genome.Candidate{
		Genome: g, Fitness: fitness,
		CModel: cModel, AlphaModel: alphaModel, GModel: gModel,
		DeltaC: dC, DeltaAlpha: dAlpha, DeltaG: dG,
		Generation: generation,
	}
}

func degenerate(g genome.Genome, generation int) genome.Candidate {
	return genome.Candidate{Genome: g, Fitness: constants.DegenerateFitness, Generation: generation}
}

// lorentzEpsilonBig mirrors reduction.LorentzEpsilon in big.Float, then
// returns a float64 (the penalty schedule operates at float64 precision
// regardless of evaluator, since its thresholds are well above float64's
// representable resolution).
func lorentzEpsilonBig(bc *bigConstants, cTT, cXX *big.Float) float64 {
	a := new(big.Float).SetPrec(bc.prec).Neg(cTT)
	b := cXX

	if a.Sign() <= 0 || b.Sign() <= 0 {
		return 1.0
	}

	ratio := new(big.Float).SetPrec(bc.prec).Quo(b, a)
	sq := bigSqrt(ratio, bc.prec)
	diff := absBig(new(big.Float).SetPrec(bc.prec).Sub(sq, bc.float(1)))

	v, _ := diff.Float64()
	if v < 1e-16 {
		return 1e-16
	}
	if v > 1 {
		return 1
	}
	return v
}

// penaltiesFloat duplicates eval's penalty sum (unexported there) since
// the penalty schedule itself does not need arbitrary precision: its
// thresholds (0.5, 0.25, 0.1, 1e-12, 1e-8) are all far coarser than
// float64 epsilon.
func penaltiesFloat(cTT, cXX, cMass, cSelf, cGauge, lorentzEps float64, signPenalty bool) float64 {
	var total float64

	if signPenalty {
		total += 5
	}
	if cTT >= 0 || cXX <= 0 {
		total += 1
	}
	if cMass > 0 {
		total += 0.5
	}
	if cGauge >= 0 {
		total += 1
	}

	total += 0.2*maxF(0, absF(cMass)-0.5) + 0.1*maxF(0, absF(cSelf)-0.25)

	normSum := absF(cTT+0.5) + absF(cXX-0.5)
	if normSum > 0.1 {
		total += 0.01 * normSum
	}

	switch {
	case lorentzEps < 1e-12:
	case lorentzEps < 1e-8:
		total += 10 * lorentzEps
	default:
		total += 100 * lorentzEps
	}

	return total
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
