package integrate

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// Verlet implements the leapfrog form (spec §4.H):
//
//	v(t+dt/2) = v(t-dt/2) + a(t) dt
//	x(t+dt)   = x(t) + v(t+dt/2) dt
//
// Velocities live at half-step offsets from positions; sys.Velocities
// is updated to the average of the two adjacent half-steps after each
// call so KineticEnergy/Temperature see a full-step estimate (Allen &
// Tildesley §3.2). The very first call seeds the half-step velocity
// directly from sys.Velocities(0) rather than kicking it back by
// ½a(0)dt: initial velocities are already drawn from the target
// Maxwell-Boltzmann distribution, so the first-step offset is within
// thermal noise.
type Verlet struct {
	halfStep    []geom.Vec3
	initialized bool
}

func (v *Verlet) Step(sys *mdsystem.System, dt float64, forces []geom.Vec3, forceFn ForceFunc) ([]geom.Vec3, float64, error) {
	acc := accelerations(sys, forces)

	if !v.initialized {
		v.halfStep = append([]geom.Vec3(nil), sys.Velocities...)
		v.initialized = true
	}

	newHalf := make([]geom.Vec3, len(sys.Coords))
	for i := range sys.Coords {
		newHalf[i] = v.halfStep[i].Add(acc[i].Scale(dt))
		sys.Coords[i] = sys.Coords[i].Add(newHalf[i].Scale(dt))
	}
	sys.WrapAll()

	newForces, potential, err := forceFn()
	if err != nil {
		return nil, 0, err
	}

	for i := range sys.Velocities {
		sys.Velocities[i] = v.halfStep[i].Add(newHalf[i]).Scale(0.5)
	}
	v.halfStep = newHalf

	return newForces, potential, nil
}
