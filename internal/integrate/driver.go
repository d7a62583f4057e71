package integrate

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdlog"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
	"github.com/sarat-asymmetrica/mdforge/internal/pipeline"
)

// RunConfig bundles a simulation run's step count, timestep, parallel
// neighbor-search flag, optional thermostat, and loggers (spec §4.I "the
// simulation loop"). The neighbor finder, with any rebuild policy
// wrapped around it, is passed to Simulate separately.
type RunConfig struct {
	Steps    int
	Dt       float64
	Parallel bool
	// Thermostat, if non-nil, is applied once per step after the
	// position/velocity integrator's own Step.
	Thermostat *AndersenThermostat
	Loggers    []mdlog.Sampler
}

// Simulate drives sys through cfg.Steps timesteps with stepper,
// rebuilding neighbors through finder as needed and feeding every
// logger the resulting energy each step (spec §4.G + §4.H + §4.I tied
// together). It returns the final potential energy.
func Simulate(sys *mdsystem.System, stepper Stepper, finder mdsystem.NeighborFinder, cfg RunConfig) (float64, error) {
	var neighbors *mdsystem.NeighborList
	step := 0

	computeForces := func() ([]geom.Vec3, float64, error) {
		var err error
		neighbors, err = finder.FindNeighbors(sys, neighbors, step, cfg.Parallel)
		if err != nil {
			return nil, 0, err
		}
		return pipeline.ForcesAndEnergy(sys, neighbors)
	}

	forces, potential, err := computeForces()
	if err != nil {
		return 0, err
	}
	for _, l := range cfg.Loggers {
		l.Sample(step, sys, potential)
	}

	for step = 1; step <= cfg.Steps; step++ {
		forces, potential, err = stepper.Step(sys, cfg.Dt, forces, computeForces)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(potential) || math.IsInf(potential, 0) {
			return 0, fmt.Errorf("integrate: non-finite potential energy at step %d", step)
		}
		for i, f := range forces {
			if s := f.X + f.Y + f.Z; math.IsNaN(s) || math.IsInf(s, 0) {
				return 0, fmt.Errorf("integrate: non-finite force on atom %d at step %d", i, step)
			}
		}
		if cfg.Thermostat != nil {
			cfg.Thermostat.Apply(sys, cfg.Dt)
		}
		for _, l := range cfg.Loggers {
			l.Sample(step, sys, potential)
		}
	}

	return potential, nil
}
