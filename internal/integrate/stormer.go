package integrate

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// StormerVerlet implements the original position-only Störmer-Verlet
// recurrence (spec §4.H):
//
//	x(t+dt) = 2x(t) - x(t-dt) + a(t) dt²
//
// The scheme carries no velocity state of its own; rather than track
// an unwrapped shadow trajectory (which would drift apart from the
// wrapped sys.Coords every time WrapAll folds a coordinate back into
// the box), this implementation tracks the last step displacement
// x(t)-x(t-dt) as a minimum-image vector, which is equivalent under
// periodic boundaries as long as no atom crosses half the box in one
// step (the same assumption the neighbor and pairwise code already
// makes). sys.Velocities is updated to the central-difference estimate
// (x(t+dt)-x(t-dt))/(2dt) purely for reporting; the integrator itself
// never reads it back.
type StormerVerlet struct {
	lastStep    []geom.Vec3
	initialized bool
}

func (s *StormerVerlet) Step(sys *mdsystem.System, dt float64, forces []geom.Vec3, forceFn ForceFunc) ([]geom.Vec3, float64, error) {
	acc := accelerations(sys, forces)

	if !s.initialized {
		s.lastStep = make([]geom.Vec3, len(sys.Coords))
		for i := range sys.Coords {
			s.lastStep[i] = sys.Velocities[i].Scale(dt).Sub(acc[i].Scale(0.5 * dt * dt))
		}
		s.initialized = true
	}

	newStep := make([]geom.Vec3, len(sys.Coords))
	for i := range sys.Coords {
		newStep[i] = s.lastStep[i].Add(acc[i].Scale(dt * dt))
		sys.Velocities[i] = s.lastStep[i].Add(newStep[i]).Scale(1 / (2 * dt))
		sys.Coords[i] = geom.Wrap(sys.Coords[i].Add(newStep[i]), sys.Box)
	}
	s.lastStep = newStep

	newForces, potential, err := forceFn()
	if err != nil {
		return nil, 0, err
	}
	return newForces, potential, nil
}
