package neighbor

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// PeriodicRebuild wraps a finder so it only recomputes the neighbor
// list every Every steps, reusing prev otherwise (spec §4.F "rebuild
// policy", the n_steps variant).
type PeriodicRebuild struct {
	Base  mdsystem.NeighborFinder
	Every int
}

func NewPeriodicRebuild(base mdsystem.NeighborFinder, every int) PeriodicRebuild {
	if every < 1 {
		every = 1
	}
	return PeriodicRebuild{Base: base, Every: every}
}

func (p PeriodicRebuild) FindNeighbors(sys *mdsystem.System, prev *mdsystem.NeighborList, stepIndex int, parallel bool) (*mdsystem.NeighborList, error) {
	if prev != nil && stepIndex-prev.BuiltAtStep < p.Every {
		return prev, nil
	}
	return p.Base.FindNeighbors(sys, prev, stepIndex, parallel)
}

// DisplacementRebuild wraps a finder so it only recomputes once some
// atom has moved more than half the list's skin distance since the
// list was last built (spec §4.F, the Verlet-list trigger variant).
type DisplacementRebuild struct {
	Base mdsystem.NeighborFinder
	Skin float64
}

func NewDisplacementRebuild(base mdsystem.NeighborFinder, skin float64) DisplacementRebuild {
	return DisplacementRebuild{Base: base, Skin: skin}
}

func (d DisplacementRebuild) FindNeighbors(sys *mdsystem.System, prev *mdsystem.NeighborList, stepIndex int, parallel bool) (*mdsystem.NeighborList, error) {
	if prev != nil && prev.Snapshot != nil && !exceedsHalfSkin(prev.Snapshot, sys.Coords, sys.Box, d.Skin) {
		return prev, nil
	}
	nl, err := d.Base.FindNeighbors(sys, prev, stepIndex, parallel)
	if err != nil {
		return nil, err
	}
	if nl != prev {
		// the base finders store sys.Coords itself, which the integrators
		// update in place; keep a copy taken at build time instead
		nl.Snapshot = append([]geom.Vec3(nil), sys.Coords...)
	}
	return nl, nil
}

func exceedsHalfSkin(before, after []geom.Vec3, box geom.Vec3, skin float64) bool {
	threshold := skin / 2
	thresholdSq := threshold * threshold
	for i := range before {
		d := geom.Displacement(after[i], before[i], box)
		if d.Norm2() > thresholdSq {
			return true
		}
	}
	return false
}
