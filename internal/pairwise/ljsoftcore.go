package pairwise

import (
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// LJSoftCore implements the Beutler soft-core LJ potential used to
// avoid the r=0 singularity during alchemical free-energy perturbation
// (spec §4.D): r is replaced by r_sc = (r⁶ + ασ⁶λᵖ)^(1/6), and the force
// carries an extra (r/r_sc)⁵ factor.
type LJSoftCore struct {
	Cutoff              cutoff.Policy
	SigmaRule           SigmaMixing
	WeightSoluteSolvent float64
	Alpha               float64
	Lambda              float64
	P                   float64
	SkipShortcut        bool
	NLOnlyFlag          bool
	ForceUnitsStr       string
	EnergyUnitsStr      string
}

// NewLJSoftCore builds a soft-core LJ interaction. alpha is typically
// 0.5, p typically 1 or 2, lambda the alchemical coupling in [0,1].
func NewLJSoftCore(pol cutoff.Policy, alpha, lambda, p float64, forceUnits, energyUnits string) LJSoftCore {
	return LJSoftCore{
		Cutoff:              pol,
		SigmaRule:           Lorentz,
		WeightSoluteSolvent: 1.0,
		Alpha:               alpha,
		Lambda:              lambda,
		P:                   p,
		NLOnlyFlag:          true,
		ForceUnitsStr:       forceUnits,
		EnergyUnitsStr:      energyUnits,
	}
}

func (lj LJSoftCore) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	if shortCircuit(ai, aj, lj.SkipShortcut) {
		return geom.Zero, 0
	}
	sigma := mixSigma(lj.SigmaRule, ai.Sigma, aj.Sigma)
	epsilon := mixEpsilon(ai.Epsilon, aj.Epsilon, ai.Solute, aj.Solute, lj.WeightSoluteSolvent)

	r2 := dr.Norm2()
	if r2 == 0 && lj.Alpha == 0 {
		return geom.Zero, 0
	}
	sigma6 := math.Pow(sigma, 6)
	lambdaP := math.Pow(lj.Lambda, lj.P)

	raw := func(r2 float64) (float64, float64) {
		r := math.Sqrt(r2)
		r6 := r2 * r2 * r2
		rsc6 := r6 + lj.Alpha*sigma6*lambdaP
		rsc2 := math.Pow(rsc6, 1.0/3.0)
		sr2 := sigma * sigma / rsc2
		sr6 := sr2 * sr2 * sr2
		sr12 := sr6 * sr6
		u := 4 * epsilon * (sr12 - sr6)
		fDivRsc := 24 * epsilon / rsc2 * (2*sr12 - sr6)

		// softcore scaling factor (r/r_sc)^5, applied to the force
		// magnitude along r (the cutoff policy still operates on the
		// true separation r2, which is what governs the hard cutoff).
		rsc := math.Sqrt(rsc2)
		var scale float64
		if r == 0 {
			scale = 0
		} else {
			ratio := r / rsc
			scale = ratio * ratio * ratio * ratio * ratio
		}
		fDivR := fDivRsc * rsc / r * scale // converts F/r_sc to F/r via the r/r_sc factor baked into scale
		if r == 0 {
			fDivR = 0
		}
		return fDivR, u
	}

	return evalPolicy(lj.Cutoff, dr, r2, raw, is14, 1, false)
}

func (lj LJSoftCore) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := lj.eval(dr, ai, aj, is14)
	return f
}

func (lj LJSoftCore) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := lj.eval(dr, ai, aj, is14)
	return u
}

func (lj LJSoftCore) NLOnly() bool              { return lj.NLOnlyFlag }
func (lj LJSoftCore) Weight14() (float64, bool) { return 0, false }
func (lj LJSoftCore) ForceUnits() string        { return lj.ForceUnitsStr }
func (lj LJSoftCore) EnergyUnits() string       { return lj.EnergyUnitsStr }
