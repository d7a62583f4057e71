package pairwise

import (
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Gravity implements pairwise Newtonian gravity (spec §4.D):
//
//	U = -G m_i m_j / r, F/r = -G m_i m_j / r³
//
// Force is attractive: it points from atom i toward atom j along dr.
type Gravity struct {
	Cutoff         cutoff.Policy
	G              float64
	NLOnlyFlag     bool
	ForceUnitsStr  string
	EnergyUnitsStr string
}

// NewGravity builds a gravity interaction with gravitational constant g.
func NewGravity(g float64, pol cutoff.Policy, forceUnits, energyUnits string) Gravity {
	return Gravity{Cutoff: pol, G: g, NLOnlyFlag: true, ForceUnitsStr: forceUnits, EnergyUnitsStr: energyUnits}
}

func (gr Gravity) rawKernel(mm float64) cutoff.Raw {
	return func(r2 float64) (float64, float64) {
		invR := 1 / math.Sqrt(r2)
		u := -gr.G * mm * invR
		fDivR := -gr.G * mm * invR * invR * invR
		return fDivR, u
	}
}

func (gr Gravity) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	mm := ai.Mass * aj.Mass
	if mm == 0 {
		return geom.Zero, 0
	}
	r2 := dr.Norm2()
	if r2 == 0 {
		return geom.Zero, 0
	}
	return evalPolicy(gr.Cutoff, dr, r2, gr.rawKernel(mm), is14, 1, false)
}

func (gr Gravity) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := gr.eval(dr, ai, aj, is14)
	return f
}

func (gr Gravity) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := gr.eval(dr, ai, aj, is14)
	return u
}

func (gr Gravity) NLOnly() bool              { return gr.NLOnlyFlag }
func (gr Gravity) Weight14() (float64, bool) { return 0, false }
func (gr Gravity) ForceUnits() string        { return gr.ForceUnitsStr }
func (gr Gravity) EnergyUnits() string       { return gr.EnergyUnitsStr }
