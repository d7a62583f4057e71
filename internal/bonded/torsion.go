package bonded

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
)

// dihedralGeometry holds the intermediate vectors Bekker's formula
// needs to turn a scalar dV/dφ into forces on all four atoms.
type dihedralGeometry struct {
	phi            float64
	m, n           geom.Vec3
	rij, rkj, rkl  geom.Vec3
	m2, n2, rkjLen float64
	ok             bool
}

func dihedralOf(coords []geom.Vec3, box geom.Vec3, i, j, k, l int) dihedralGeometry {
	rij := geom.Displacement(coords[i], coords[j], box)
	rkj := geom.Displacement(coords[k], coords[j], box)
	rkl := geom.Displacement(coords[k], coords[l], box)

	m := rij.Cross(rkj)
	n := rkj.Cross(rkl)
	m2, n2 := m.Norm2(), n.Norm2()
	rkjLen := rkj.Norm()
	if m2 == 0 || n2 == 0 || rkjLen == 0 {
		return dihedralGeometry{ok: false}
	}

	x := m.Dot(n)
	y := m.Cross(n).Dot(rkj) / rkjLen
	phi := math.Atan2(y, x)

	return dihedralGeometry{
		phi: phi, m: m, n: n, rij: rij, rkj: rkj, rkl: rkl,
		m2: m2, n2: n2, rkjLen: rkjLen, ok: true,
	}
}

// distribute turns dV/dφ into per-atom forces using Bekker's
// formulation (GROMACS manual §4.2.13), accumulating into accum[i..l].
func (g dihedralGeometry) distribute(i, j, k, l int, dVdPhi float64, accum []geom.Vec3) {
	fi := g.m.Scale(-dVdPhi * g.rkjLen / g.m2)
	fl := g.n.Scale(dVdPhi * g.rkjLen / g.n2)

	rkj2 := g.rkjLen * g.rkjLen
	p := g.rij.Dot(g.rkj) / rkj2
	q := g.rkl.Dot(g.rkj) / rkj2
	svec := fi.Scale(p).Sub(fl.Scale(q))

	fj := fi.Neg().Add(svec)
	fk := fl.Neg().Sub(svec)

	accum[i] = accum[i].Add(fi)
	accum[j] = accum[j].Add(fj)
	accum[k] = accum[k].Add(fk)
	accum[l] = accum[l].Add(fl)
}

func checkQuarticLengths(name string, i, j, k, l []int, params ...[]float64) error {
	n := len(i)
	if len(j) != n || len(k) != n || len(l) != n {
		return fmt.Errorf("bonded: %s index arrays have mismatched lengths", name)
	}
	for _, p := range params {
		if len(p) != n {
			return fmt.Errorf("bonded: %s parameter array has mismatched length", name)
		}
	}
	return nil
}

func maxOfQuartic(i, j, k, l []int) int {
	max := -1
	for n := range i {
		for _, idx := range [4]int{i[n], j[n], k[n], l[n]} {
			if idx > max {
				max = idx
			}
		}
	}
	return max
}

// ProperTorsionList implements the periodic torsion potential (spec
// §4.E): U = k_φ (1 + cos(n φ - φ_s)).
type ProperTorsionList struct {
	I, J, K, L              []int
	Kphi, PhiS              []float64
	N                       []float64
	forceUnits, energyUnits string
}

func NewProperTorsionList(i, j, k, l []int, kphi, phiS, n []float64, forceUnits, energyUnits string) (*ProperTorsionList, error) {
	if err := checkQuarticLengths("proper torsion", i, j, k, l, kphi, phiS, n); err != nil {
		return nil, err
	}
	return &ProperTorsionList{I: i, J: j, K: k, L: l, Kphi: kphi, PhiS: phiS, N: n, forceUnits: forceUnits, energyUnits: energyUnits}, nil
}

func (t *ProperTorsionList) Arity() int        { return 4 }
func (t *ProperTorsionList) Len() int          { return len(t.I) }
func (t *ProperTorsionList) MaxAtomIndex() int { return maxOfQuartic(t.I, t.J, t.K, t.L) }
func (t *ProperTorsionList) ForceUnits() string  { return t.forceUnits }
func (t *ProperTorsionList) EnergyUnits() string { return t.energyUnits }

func (t *ProperTorsionList) Accumulate(coords []geom.Vec3, box geom.Vec3, accum []geom.Vec3) float64 {
	var energy float64
	for idx := range t.I {
		i, j, k, l := t.I[idx], t.J[idx], t.K[idx], t.L[idx]
		g := dihedralOf(coords, box, i, j, k, l)
		if !g.ok {
			continue
		}
		arg := t.N[idx]*g.phi - t.PhiS[idx]
		energy += t.Kphi[idx] * (1 + math.Cos(arg))
		dVdPhi := -t.Kphi[idx] * t.N[idx] * math.Sin(arg)
		g.distribute(i, j, k, l, dVdPhi, accum)
	}
	return energy
}

// ImproperTorsionList implements the harmonic out-of-plane potential
// (spec §4.E), used to keep planar/chiral centers near ξ_0:
//
//	U = ½ k_ξ (ξ - ξ_0)²
type ImproperTorsionList struct {
	I, J, K, L              []int
	Xi0, Kxi                []float64
	forceUnits, energyUnits string
}

func NewImproperTorsionList(i, j, k, l []int, xi0, kxi []float64, forceUnits, energyUnits string) (*ImproperTorsionList, error) {
	if err := checkQuarticLengths("improper torsion", i, j, k, l, xi0, kxi); err != nil {
		return nil, err
	}
	return &ImproperTorsionList{I: i, J: j, K: k, L: l, Xi0: xi0, Kxi: kxi, forceUnits: forceUnits, energyUnits: energyUnits}, nil
}

func (t *ImproperTorsionList) Arity() int        { return 4 }
func (t *ImproperTorsionList) Len() int          { return len(t.I) }
func (t *ImproperTorsionList) MaxAtomIndex() int { return maxOfQuartic(t.I, t.J, t.K, t.L) }
func (t *ImproperTorsionList) ForceUnits() string  { return t.forceUnits }
func (t *ImproperTorsionList) EnergyUnits() string { return t.energyUnits }

func (t *ImproperTorsionList) Accumulate(coords []geom.Vec3, box geom.Vec3, accum []geom.Vec3) float64 {
	var energy float64
	for idx := range t.I {
		i, j, k, l := t.I[idx], t.J[idx], t.K[idx], t.L[idx]
		g := dihedralOf(coords, box, i, j, k, l)
		if !g.ok {
			continue
		}
		dxi := g.phi - t.Xi0[idx]
		// wrap to [-pi, pi] so a crossing of the branch cut doesn't
		// register as a near-2pi deviation
		for dxi > math.Pi {
			dxi -= 2 * math.Pi
		}
		for dxi < -math.Pi {
			dxi += 2 * math.Pi
		}
		energy += 0.5 * t.Kxi[idx] * dxi * dxi
		dVdPhi := t.Kxi[idx] * dxi
		g.distribute(i, j, k, l, dVdPhi, accum)
	}
	return energy
}
