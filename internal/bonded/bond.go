// Package bonded implements the specific (topology-driven) interactions
// of spec §4.E: harmonic bonds and angles, and proper/improper torsions,
// each following Bekker's force-distribution formulas so the analytic
// gradient matches the potential exactly.
package bonded

import (
	"fmt"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
)

// HarmonicBondList implements a fixed topology of harmonic bonds:
//
//	U = ½ k_b (r - r_0)², F = -k_b (r - r_0) r̂
type HarmonicBondList struct {
	I, J                    []int
	R0, Kb                  []float64
	forceUnits, energyUnits string
}

// NewHarmonicBondList validates that the parallel index/parameter
// arrays all agree in length before returning a bond list.
func NewHarmonicBondList(i, j []int, r0, kb []float64, forceUnits, energyUnits string) (*HarmonicBondList, error) {
	n := len(i)
	if len(j) != n || len(r0) != n || len(kb) != n {
		return nil, fmt.Errorf("bonded: harmonic bond arrays have mismatched lengths: i=%d j=%d r0=%d kb=%d", n, len(j), len(r0), len(kb))
	}
	return &HarmonicBondList{I: i, J: j, R0: r0, Kb: kb, forceUnits: forceUnits, energyUnits: energyUnits}, nil
}

func (b *HarmonicBondList) Arity() int { return 2 }
func (b *HarmonicBondList) Len() int   { return len(b.I) }

func (b *HarmonicBondList) MaxAtomIndex() int {
	max := -1
	for n := range b.I {
		if b.I[n] > max {
			max = b.I[n]
		}
		if b.J[n] > max {
			max = b.J[n]
		}
	}
	return max
}

func (b *HarmonicBondList) ForceUnits() string  { return b.forceUnits }
func (b *HarmonicBondList) EnergyUnits() string { return b.energyUnits }

func (b *HarmonicBondList) Accumulate(coords []geom.Vec3, box geom.Vec3, accum []geom.Vec3) float64 {
	var energy float64
	for n := range b.I {
		i, j := b.I[n], b.J[n]
		rij := geom.Displacement(coords[i], coords[j], box)
		r := rij.Norm()
		if r == 0 {
			continue
		}
		dr := r - b.R0[n]
		energy += 0.5 * b.Kb[n] * dr * dr

		fMag := -b.Kb[n] * dr / r // scalar along r_hat, force on i
		f := rij.Scale(fMag)
		accum[i] = accum[i].Add(f)
		accum[j] = accum[j].Sub(f)
	}
	return energy
}
