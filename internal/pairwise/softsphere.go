package pairwise

import (
	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// SoftSphere implements the purely repulsive r⁻¹² term of spec §4.D:
//
//	U = 4ε s¹², F/r = 48ε/r² s¹², s = σ/r
type SoftSphere struct {
	Cutoff              cutoff.Policy
	SigmaRule           SigmaMixing
	WeightSoluteSolvent float64
	SkipShortcut        bool
	NLOnlyFlag          bool
	ForceUnitsStr       string
	EnergyUnitsStr      string
}

func NewSoftSphere(pol cutoff.Policy, forceUnits, energyUnits string) SoftSphere {
	return SoftSphere{
		Cutoff:              pol,
		SigmaRule:           Lorentz,
		WeightSoluteSolvent: 1.0,
		NLOnlyFlag:          true,
		ForceUnitsStr:       forceUnits,
		EnergyUnitsStr:      energyUnits,
	}
}

func (s SoftSphere) rawKernel(sigma, epsilon float64) cutoff.Raw {
	sigma2 := sigma * sigma
	return func(r2 float64) (float64, float64) {
		sr2 := sigma2 / r2
		sr6 := sr2 * sr2 * sr2
		sr12 := sr6 * sr6
		u := 4 * epsilon * sr12
		fDivR := 48 * epsilon / r2 * sr12
		return fDivR, u
	}
}

func (s SoftSphere) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	if shortCircuit(ai, aj, s.SkipShortcut) {
		return geom.Zero, 0
	}
	sigma := mixSigma(s.SigmaRule, ai.Sigma, aj.Sigma)
	epsilon := mixEpsilon(ai.Epsilon, aj.Epsilon, ai.Solute, aj.Solute, s.WeightSoluteSolvent)
	r2 := dr.Norm2()
	if r2 == 0 {
		return geom.Zero, 0
	}
	return evalPolicy(s.Cutoff, dr, r2, s.rawKernel(sigma, epsilon), is14, 1, false)
}

func (s SoftSphere) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := s.eval(dr, ai, aj, is14)
	return f
}

func (s SoftSphere) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := s.eval(dr, ai, aj, is14)
	return u
}

func (s SoftSphere) NLOnly() bool              { return s.NLOnlyFlag }
func (s SoftSphere) Weight14() (float64, bool) { return 0, false }
func (s SoftSphere) ForceUnits() string        { return s.ForceUnitsStr }
func (s SoftSphere) EnergyUnits() string       { return s.EnergyUnitsStr }
