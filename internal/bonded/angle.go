package bonded

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
)

// HarmonicAngleList implements a fixed topology of harmonic bond
// angles centered on atom J:
//
//	U = ½ k_θ (θ - θ_0)²
//
// Forces are distributed onto the three atoms with Bekker's formula
// (Allen & Tildesley §C.4 / GROMACS manual §4.2.3), which keeps the
// analytic force exactly conservative without a finite-difference
// fallback.
type HarmonicAngleList struct {
	I, J, K                 []int
	Theta0, Ktheta          []float64
	forceUnits, energyUnits string
}

func NewHarmonicAngleList(i, j, k []int, theta0, ktheta []float64, forceUnits, energyUnits string) (*HarmonicAngleList, error) {
	n := len(i)
	if len(j) != n || len(k) != n || len(theta0) != n || len(ktheta) != n {
		return nil, fmt.Errorf("bonded: harmonic angle arrays have mismatched lengths")
	}
	return &HarmonicAngleList{I: i, J: j, K: k, Theta0: theta0, Ktheta: ktheta, forceUnits: forceUnits, energyUnits: energyUnits}, nil
}

func (a *HarmonicAngleList) Arity() int { return 3 }
func (a *HarmonicAngleList) Len() int   { return len(a.I) }

func (a *HarmonicAngleList) MaxAtomIndex() int {
	max := -1
	for n := range a.I {
		for _, idx := range [3]int{a.I[n], a.J[n], a.K[n]} {
			if idx > max {
				max = idx
			}
		}
	}
	return max
}

func (a *HarmonicAngleList) ForceUnits() string  { return a.forceUnits }
func (a *HarmonicAngleList) EnergyUnits() string { return a.energyUnits }

func (a *HarmonicAngleList) Accumulate(coords []geom.Vec3, box geom.Vec3, accum []geom.Vec3) float64 {
	var energy float64
	for n := range a.I {
		i, j, k := a.I[n], a.J[n], a.K[n]
		rij := geom.Displacement(coords[i], coords[j], box)
		rkj := geom.Displacement(coords[k], coords[j], box)
		nij, nkj := rij.Norm(), rkj.Norm()
		if nij == 0 || nkj == 0 {
			continue
		}
		cosTheta := rij.Dot(rkj) / (nij * nkj)
		if cosTheta > 1 {
			cosTheta = 1
		} else if cosTheta < -1 {
			cosTheta = -1
		}
		theta := math.Acos(cosTheta)
		sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
		if sinTheta < 1e-8 {
			// near-linear angle: the force direction is ill-defined,
			// skip rather than divide by a near-zero sine.
			continue
		}

		dtheta := theta - a.Theta0[n]
		energy += 0.5 * a.Ktheta[n] * dtheta * dtheta
		dVdTheta := a.Ktheta[n] * dtheta

		// F_i = -dV/dr_i = -(dV/dtheta)(dtheta/dr_i), and
		// dtheta/dr_i = -(1/sinTheta)(dcosTheta/dr_i), so the two minus
		// signs cancel and the coefficient on dcosTheta/dr_i is +dV/dtheta/sinTheta.
		coeff := dVdTheta / sinTheta
		fi := rkj.Scale(1 / (nij * nkj)).Sub(rij.Scale(cosTheta / (nij * nij))).Scale(coeff)
		fk := rij.Scale(1 / (nij * nkj)).Sub(rkj.Scale(cosTheta / (nkj * nkj))).Scale(coeff)
		fj := fi.Add(fk).Neg()

		accum[i] = accum[i].Add(fi)
		accum[j] = accum[j].Add(fj)
		accum[k] = accum[k].Add(fk)
	}
	return energy
}
