package pairwise

import (
	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// LennardJones implements the 12-6 potential (spec §4.D):
//
//	U = 4ε(s¹² - s⁶), F/r = 24ε/r² (2s¹² - s⁶), s = σ/r
type LennardJones struct {
	Cutoff              cutoff.Policy
	SigmaRule           SigmaMixing
	WeightSoluteSolvent float64
	SkipShortcut        bool
	NLOnlyFlag          bool
	ForceUnitsStr       string
	EnergyUnitsStr      string
}

// NewLennardJones builds an LJ interaction with the given cutoff policy
// and Lorentz-Berthelot mixing by default.
func NewLennardJones(pol cutoff.Policy, forceUnits, energyUnits string) LennardJones {
	return LennardJones{
		Cutoff:              pol,
		SigmaRule:           Lorentz,
		WeightSoluteSolvent: 1.0,
		NLOnlyFlag:          true,
		ForceUnitsStr:       forceUnits,
		EnergyUnitsStr:      energyUnits,
	}
}

func (lj LennardJones) rawKernel(sigma, epsilon float64) cutoff.Raw {
	sigma2 := sigma * sigma
	return func(r2 float64) (float64, float64) {
		sr2 := sigma2 / r2
		sr6 := sr2 * sr2 * sr2
		sr12 := sr6 * sr6
		u := 4 * epsilon * (sr12 - sr6)
		fDivR := 24 * epsilon / r2 * (2*sr12 - sr6)
		return fDivR, u
	}
}

func (lj LennardJones) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	if shortCircuit(ai, aj, lj.SkipShortcut) {
		return geom.Zero, 0
	}
	sigma := mixSigma(lj.SigmaRule, ai.Sigma, aj.Sigma)
	epsilon := mixEpsilon(ai.Epsilon, aj.Epsilon, ai.Solute, aj.Solute, lj.WeightSoluteSolvent)
	r2 := dr.Norm2()
	if r2 == 0 {
		return geom.Zero, 0
	}
	return evalPolicy(lj.Cutoff, dr, r2, lj.rawKernel(sigma, epsilon), is14, 1, false)
}

func (lj LennardJones) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := lj.eval(dr, ai, aj, is14)
	return f
}

func (lj LennardJones) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := lj.eval(dr, ai, aj, is14)
	return u
}

func (lj LennardJones) NLOnly() bool              { return lj.NLOnlyFlag }
func (lj LennardJones) Weight14() (float64, bool) { return 0, false }
func (lj LennardJones) ForceUnits() string        { return lj.ForceUnitsStr }
func (lj LennardJones) EnergyUnits() string       { return lj.EnergyUnitsStr }
