// Package analysis implements the post-hoc diagnostics of spec §6:
// per-atom displacement, pairwise distance, and radial distribution
// function helpers. Every function is a pure read over a completed
// System/trajectory and never mutates it, in the same spirit as the
// teacher's post-hoc structure-validation helpers.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Displacements returns, for every atom, the minimum-image distance
// between its position in before and after — e.g. to track
// mean-squared displacement across a trajectory.
func Displacements(before, after []geom.Vec3, box geom.Vec3) ([]float64, error) {
	if len(before) != len(after) {
		return nil, fmt.Errorf("analysis: before/after length mismatch: %d vs %d", len(before), len(after))
	}
	out := make([]float64, len(before))
	for i := range before {
		out[i] = geom.Displacement(after[i], before[i], box).Norm()
	}
	return out, nil
}

// MeanSquaredDisplacement reduces Displacements to the single scalar
// MSD = mean_i |r_i(t) - r_i(0)|².
func MeanSquaredDisplacement(before, after []geom.Vec3, box geom.Vec3) (float64, error) {
	d, err := Displacements(before, after, box)
	if err != nil {
		return 0, err
	}
	sq := make([]float64, len(d))
	for i, v := range d {
		sq[i] = v * v
	}
	return floats.Sum(sq) / float64(len(sq)), nil
}

// Distances computes the minimum-image distance for an explicit list
// of atom-index pairs, e.g. ones sourced from a NeighborList.
func Distances(coords []geom.Vec3, box geom.Vec3, pairs []mdsystem.NeighborPair) []float64 {
	out := make([]float64, len(pairs))
	for k, p := range pairs {
		out[k] = geom.Displacement(coords[p.I], coords[p.J], box).Norm()
	}
	return out
}

// RDFResult is a radial distribution function histogram: g(r) over
// nBins bins of width rMax/nBins.
type RDFResult struct {
	BinCenters []float64
	G          []float64
}

// RDF computes the radial distribution function over all non-excluded
// pairs out to rMax, normalized against the ideal-gas pair density of
// the simulation box (spec §6 "rdf").
func RDF(sys *mdsystem.System, nBins int, rMax float64) (*RDFResult, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("analysis: nBins must be positive, got %d", nBins)
	}
	if rMax <= 0 {
		return nil, fmt.Errorf("analysis: rMax must be positive, got %g", rMax)
	}

	n := sys.N()
	volume := sys.Box.X * sys.Box.Y * sys.Box.Z
	if sys.Dim == 2 {
		volume = sys.Box.X * sys.Box.Y
	}
	density := float64(n) / volume

	binWidth := rMax / float64(nBins)
	counts := make([]float64, nBins)

	sqRMax := rMax * rMax
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !sys.NBMatrix.Included(i, j) {
				continue
			}
			dr := geom.Displacement(sys.Coords[i], sys.Coords[j], sys.Box)
			r2 := dr.Norm2()
			if r2 >= sqRMax {
				continue
			}
			bin := int(math.Sqrt(r2) / binWidth)
			if bin >= nBins {
				bin = nBins - 1
			}
			counts[bin] += 2 // each unordered pair contributes to both atoms' local density
		}
	}

	result := &RDFResult{BinCenters: make([]float64, nBins), G: make([]float64, nBins)}
	for b := 0; b < nBins; b++ {
		rLo := float64(b) * binWidth
		rHi := rLo + binWidth
		result.BinCenters[b] = 0.5 * (rLo + rHi)

		var shellVolume float64
		if sys.Dim == 2 {
			shellVolume = math.Pi * (rHi*rHi - rLo*rLo)
		} else {
			shellVolume = 4.0 / 3.0 * math.Pi * (rHi*rHi*rHi - rLo*rLo*rLo)
		}
		expected := density * shellVolume * float64(n)
		if expected == 0 {
			continue
		}
		result.G[b] = counts[b] / expected
	}
	return result, nil
}
