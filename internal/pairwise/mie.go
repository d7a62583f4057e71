package pairwise

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Mie implements the generalized Mie(m,n) potential of spec §4.D:
//
//	U = C ε ((σ/r)ⁿ - (σ/r)ᵐ), C = (n/(n-m)) (n/m)^(m/(n-m))
//
// n is the repulsive exponent and m the attractive one; Mie(6,12)
// (m=6, n=12, C=4) recovers the standard Lennard-Jones form.
type Mie struct {
	Cutoff              cutoff.Policy
	SigmaRule           SigmaMixing
	WeightSoluteSolvent float64
	M, N                float64
	C                   float64
	SkipShortcut        bool
	NLOnlyFlag          bool
	ForceUnitsStr       string
	EnergyUnitsStr      string
}

// NewMie builds a Mie(m,n) interaction. It returns an error when
// m >= n, since the potential is only attractive-then-repulsive (a
// bound well) when the repulsive exponent n exceeds the attractive
// exponent m.
func NewMie(m, n float64, pol cutoff.Policy, forceUnits, energyUnits string) (Mie, error) {
	if m >= n {
		return Mie{}, fmt.Errorf("pairwise: Mie potential requires m < n, got m=%v n=%v", m, n)
	}
	c := (n / (n - m)) * math.Pow(n/m, m/(n-m))
	return Mie{
		Cutoff:              pol,
		SigmaRule:           Lorentz,
		WeightSoluteSolvent: 1.0,
		M:                   m,
		N:                   n,
		C:                   c,
		NLOnlyFlag:          true,
		ForceUnitsStr:       forceUnits,
		EnergyUnitsStr:      energyUnits,
	}, nil
}

func (mi Mie) rawKernel(sigma, epsilon float64) cutoff.Raw {
	return func(r2 float64) (float64, float64) {
		r := math.Sqrt(r2)
		sr := sigma / r
		srm := math.Pow(sr, mi.M)
		srn := math.Pow(sr, mi.N)
		u := mi.C * epsilon * (srn - srm)
		// dU/dr = C*eps/r * (m*srm - n*srn); F = -dU/dr, F/r = -dU/dr / r
		fDivR := mi.C * epsilon / r2 * (mi.N*srn - mi.M*srm)
		return fDivR, u
	}
}

func (mi Mie) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	if shortCircuit(ai, aj, mi.SkipShortcut) {
		return geom.Zero, 0
	}
	sigma := mixSigma(mi.SigmaRule, ai.Sigma, aj.Sigma)
	epsilon := mixEpsilon(ai.Epsilon, aj.Epsilon, ai.Solute, aj.Solute, mi.WeightSoluteSolvent)
	r2 := dr.Norm2()
	if r2 == 0 {
		return geom.Zero, 0
	}
	return evalPolicy(mi.Cutoff, dr, r2, mi.rawKernel(sigma, epsilon), is14, 1, false)
}

func (mi Mie) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := mi.eval(dr, ai, aj, is14)
	return f
}

func (mi Mie) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := mi.eval(dr, ai, aj, is14)
	return u
}

func (mi Mie) NLOnly() bool              { return mi.NLOnlyFlag }
func (mi Mie) Weight14() (float64, bool) { return 0, false }
func (mi Mie) ForceUnits() string        { return mi.ForceUnitsStr }
func (mi Mie) EnergyUnits() string       { return mi.EnergyUnitsStr }
