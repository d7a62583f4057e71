package pairwise

import (
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Coulomb implements the bare electrostatic potential of spec §4.D:
//
//	U = k q_i q_j / r, F/r = k q_i q_j / r³
type Coulomb struct {
	Cutoff         cutoff.Policy
	Weight14Value  float64
	Has14          bool
	NLOnlyFlag     bool
	ForceUnitsStr  string
	EnergyUnitsStr string
}

// NewCoulomb builds a Coulomb interaction under the given cutoff
// policy. weight14 scales 1-4 pairs when has14 is set (spec §4.D "1-4
// scaling"); pass has14=false to leave 1-4 pairs unscaled.
func NewCoulomb(pol cutoff.Policy, weight14 float64, has14 bool, forceUnits, energyUnits string) Coulomb {
	return Coulomb{
		Cutoff:         pol,
		Weight14Value:  weight14,
		Has14:          has14,
		NLOnlyFlag:     true,
		ForceUnitsStr:  forceUnits,
		EnergyUnitsStr: energyUnits,
	}
}

func (c Coulomb) rawKernel(qq float64) cutoff.Raw {
	k := mdsystem.CoulombConstant
	return func(r2 float64) (float64, float64) {
		invR := 1 / math.Sqrt(r2)
		u := k * qq * invR
		fDivR := k * qq * invR * invR * invR
		return fDivR, u
	}
}

func (c Coulomb) eval(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) (geom.Vec3, float64) {
	qq := ai.Charge * aj.Charge
	if qq == 0 {
		return geom.Zero, 0
	}
	r2 := dr.Norm2()
	if r2 == 0 {
		return geom.Zero, 0
	}
	return evalPolicy(c.Cutoff, dr, r2, c.rawKernel(qq), is14, c.Weight14Value, c.Has14)
}

func (c Coulomb) Force(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) geom.Vec3 {
	f, _ := c.eval(dr, ai, aj, is14)
	return f
}

func (c Coulomb) PotentialEnergy(dr geom.Vec3, ai, aj mdsystem.Atom, is14 bool) float64 {
	_, u := c.eval(dr, ai, aj, is14)
	return u
}

func (c Coulomb) NLOnly() bool              { return c.NLOnlyFlag }
func (c Coulomb) Weight14() (float64, bool) { return c.Weight14Value, c.Has14 }
func (c Coulomb) ForceUnits() string        { return c.ForceUnitsStr }
func (c Coulomb) EnergyUnits() string       { return c.EnergyUnitsStr }
