// Package pipeline assembles the per-step force and energy evaluation
// of spec §4.G from a System's pairwise and specific interactions,
// honoring each pairwise term's NLOnly flag and the exclusion matrix.
package pipeline

import (
	"fmt"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// EnergyReport breaks total potential energy down by contributing
// interaction, so callers (loggers, analysis) don't need to re-derive
// a sum the pipeline already computed.
type EnergyReport struct {
	Pairwise  []float64 // energy contributed by each sys.Pairwise entry
	Specific  []float64 // energy contributed by each sys.Specific entry
	Kinetic   float64
	Potential float64
	Total     float64
}

// Forces computes the total force on every atom from the system's
// pairwise and specific interactions, using neighbors for every
// pairwise term flagged NLOnly and a direct all-pairs scan (honoring
// the exclusion matrix) for the rest.
func Forces(sys *mdsystem.System, neighbors *mdsystem.NeighborList) ([]geom.Vec3, error) {
	forces := make([]geom.Vec3, sys.N())
	if _, err := accumulate(sys, neighbors, forces, nil); err != nil {
		return nil, err
	}
	return forces, nil
}

// PotentialEnergy computes total potential energy. It runs the full
// Evaluate pass, so forces are computed into a scratch array and dropped.
func PotentialEnergy(sys *mdsystem.System, neighbors *mdsystem.NeighborList) (float64, error) {
	report, err := Evaluate(sys, neighbors)
	if err != nil {
		return 0, err
	}
	return report.Potential, nil
}

// Evaluate computes a full EnergyReport in one pass over the interaction
// lists. Forces are accumulated into a freshly allocated scratch array
// that is not returned; use ForcesAndEnergy to get both.
func Evaluate(sys *mdsystem.System, neighbors *mdsystem.NeighborList) (*EnergyReport, error) {
	forces := make([]geom.Vec3, sys.N())
	report, err := accumulate(sys, neighbors, forces, &EnergyReport{})
	if err != nil {
		return nil, err
	}
	report.Kinetic = sys.KineticEnergy()
	report.Total = report.Kinetic + report.Potential
	return report, nil
}

// ForcesAndEnergy is the combined entry point the integrators call
// once per step: it needs both the force array and the potential
// energy, and computing them together avoids a second pass over the
// neighbor list.
func ForcesAndEnergy(sys *mdsystem.System, neighbors *mdsystem.NeighborList) ([]geom.Vec3, float64, error) {
	forces := make([]geom.Vec3, sys.N())
	report, err := accumulate(sys, neighbors, forces, &EnergyReport{})
	if err != nil {
		return nil, 0, err
	}
	return forces, report.Potential, nil
}

func accumulate(sys *mdsystem.System, neighbors *mdsystem.NeighborList, forces []geom.Vec3, report *EnergyReport) (*EnergyReport, error) {
	if report != nil {
		report.Pairwise = make([]float64, len(sys.Pairwise))
		report.Specific = make([]float64, len(sys.Specific))
	}

	nlOnly := make([]mdsystem.PairwiseInteraction, 0, len(sys.Pairwise))
	nlOnlyIdx := make([]int, 0, len(sys.Pairwise))
	allPairsIdx := make([]int, 0, len(sys.Pairwise))

	for idx, in := range sys.Pairwise {
		if in.NLOnly() {
			nlOnly = append(nlOnly, in)
			nlOnlyIdx = append(nlOnlyIdx, idx)
		} else {
			allPairsIdx = append(allPairsIdx, idx)
		}
	}

	if len(nlOnly) > 0 {
		if neighbors == nil {
			return nil, fmt.Errorf("pipeline: %d pairwise interaction(s) require a neighbor list but none was supplied", len(nlOnly))
		}
		for _, pair := range neighbors.Pairs {
			ai, aj := sys.Atoms[pair.I], sys.Atoms[pair.J]
			dr := geom.Displacement(sys.Coords[pair.I], sys.Coords[pair.J], sys.Box)
			for k, in := range nlOnly {
				f := in.Force(dr, ai, aj, pair.Weight14)
				forces[pair.I] = forces[pair.I].Add(f)
				forces[pair.J] = forces[pair.J].Sub(f)
				if report != nil {
					u := in.PotentialEnergy(dr, ai, aj, pair.Weight14)
					report.Pairwise[nlOnlyIdx[k]] += u
					report.Potential += u
				}
			}
		}
	}

	if len(allPairsIdx) > 0 {
		n := sys.N()
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !sys.NBMatrix.Included(i, j) {
					continue
				}
				is14 := sys.NBMatrix.Is14(i, j)
				dr := geom.Displacement(sys.Coords[i], sys.Coords[j], sys.Box)
				ai, aj := sys.Atoms[i], sys.Atoms[j]
				for _, idx := range allPairsIdx {
					in := sys.Pairwise[idx]
					f := in.Force(dr, ai, aj, is14)
					forces[i] = forces[i].Add(f)
					forces[j] = forces[j].Sub(f)
					if report != nil {
						u := in.PotentialEnergy(dr, ai, aj, is14)
						report.Pairwise[idx] += u
						report.Potential += u
					}
				}
			}
		}
	}

	for idx, list := range sys.Specific {
		u := list.Accumulate(sys.Coords, sys.Box, forces)
		if report != nil {
			report.Specific[idx] = u
			report.Potential += u
		}
	}

	return report, nil
}
