package integrate

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// VelocityVerlet implements the symplectic velocity-Verlet scheme
// (spec §4.H):
//
//	x(t+dt) = x(t) + v(t) dt + ½ a(t) dt²
//	v(t+dt) = v(t) + ½ (a(t) + a(t+dt)) dt
type VelocityVerlet struct{}

func (VelocityVerlet) Step(sys *mdsystem.System, dt float64, forces []geom.Vec3, forceFn ForceFunc) ([]geom.Vec3, float64, error) {
	acc := accelerations(sys, forces)

	for i := range sys.Coords {
		sys.Coords[i] = sys.Coords[i].
			Add(sys.Velocities[i].Scale(dt)).
			Add(acc[i].Scale(0.5 * dt * dt))
	}
	sys.WrapAll()

	newForces, potential, err := forceFn()
	if err != nil {
		return nil, 0, err
	}
	newAcc := accelerations(sys, newForces)

	for i := range sys.Velocities {
		sys.Velocities[i] = sys.Velocities[i].
			Add(acc[i].Add(newAcc[i]).Scale(0.5 * dt))
	}

	return newForces, potential, nil
}
