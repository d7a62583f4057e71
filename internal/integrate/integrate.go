// Package integrate implements the time-stepping schemes of spec §4.H:
// velocity Verlet, leapfrog Verlet, Størmer-Verlet, and Langevin BAOAB,
// plus the Andersen thermostat coupling and a steepest-descent
// minimizer. Every integrator advances positions and velocities by one
// step given the current forces, and asks for the next step's forces
// itself once the new positions are known (most schemes need forces
// evaluated at the updated geometry before velocities can be closed
// out).
package integrate

import (
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// ForceFunc evaluates forces and potential energy at the system's
// current coordinates. The driver in this package closes over the
// neighbor list and rebuild policy so integrators never see them.
type ForceFunc func() ([]geom.Vec3, float64, error)

// Stepper is the contract every integrator in this package satisfies.
type Stepper interface {
	// Step advances sys by dt given the force/acceleration at the
	// current positions, and returns the force/potential energy at the
	// new positions (computed via forceFn) for the caller to feed into
	// the next Step call.
	Step(sys *mdsystem.System, dt float64, forces []geom.Vec3, forceFn ForceFunc) (newForces []geom.Vec3, potential float64, err error)
}

func accelerations(sys *mdsystem.System, forces []geom.Vec3) []geom.Vec3 {
	acc := make([]geom.Vec3, len(forces))
	for i, f := range forces {
		m := sys.Atoms[i].Mass
		if m <= 0 {
			continue
		}
		acc[i] = f.Scale(1 / m)
	}
	return acc
}
