package integrate

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// MinimizerConfig holds the parameters of steepest-descent energy
// minimization (spec §4.H "Minimization").
type MinimizerConfig struct {
	MaxSteps int
	// EnergyTolerance stops the run once |E_new - E_old| falls below it.
	EnergyTolerance float64
	// ForceTolerance stops the run once max_i |F_i| falls below it.
	ForceTolerance float64
	// StepSize is the initial steepest-descent displacement scale:
	// x += StepSize*F. The minimizer adapts it step to step (see
	// SteepestDescentMinimizer), so this is a starting point, not a
	// fixed value.
	StepSize float64
	// StepGrowth scales the step size up after an accepted step, and
	// StepShrink scales it down after a rejected one (energy increased).
	// Zero selects the defaults below.
	StepGrowth, StepShrink float64
	// MinStepSize aborts the run if backtracking shrinks the step
	// below this floor without finding an accepted move.
	MinStepSize float64
}

func DefaultMinimizerConfig() MinimizerConfig {
	return MinimizerConfig{
		MaxSteps:        1000,
		EnergyTolerance: 1e-4,
		ForceTolerance:  1e-2,
		StepSize:        1e-4,
		StepGrowth:      1.2,
		StepShrink:      0.5,
		MinStepSize:     1e-10,
	}
}

// MinimizationResult reports what a SteepestDescentMinimizer run did,
// in the same narrative-Reason style the rest of this codebase uses
// for terminal run outcomes instead of a bare status code.
type MinimizationResult struct {
	Steps         int
	InitialEnergy float64
	FinalEnergy   float64
	DeltaEnergy   float64
	Converged     bool
	Reason        string
}

// SteepestDescentMinimizer walks downhill along the force direction
// until the energy or force tolerance is met. The step size adapts:
// a trial move that raises the energy is rejected and retried from the
// same coordinates with a smaller step (backtracking line search),
// while an accepted move grows the step for the next iteration. The
// run aborts if backtracking shrinks the step below MinStepSize
// without finding an accepted move (spec §4.H, §8 invariant 3).
func SteepestDescentMinimizer(sys *mdsystem.System, cfg MinimizerConfig, forceFn ForceFunc) (*MinimizationResult, error) {
	growth, shrink := cfg.StepGrowth, cfg.StepShrink
	if growth <= 0 {
		growth = 1.2
	}
	if shrink <= 0 || shrink >= 1 {
		shrink = 0.5
	}
	minStep := cfg.MinStepSize
	if minStep <= 0 {
		minStep = 1e-10
	}

	result := &MinimizationResult{}

	forces, energy, err := forceFn()
	if err != nil {
		return nil, err
	}
	result.InitialEnergy = energy
	prevEnergy := energy
	stepSize := cfg.StepSize

	for step := 0; step < cfg.MaxSteps; step++ {
		result.Steps = step + 1

		maxForce := 0.0
		for _, f := range forces {
			if n := f.Norm(); n > maxForce {
				maxForce = n
			}
		}

		prevCoords := append([]geom.Vec3(nil), sys.Coords...)

		var newForces []geom.Vec3
		var newEnergy float64
		for {
			for i, f := range forces {
				sys.Coords[i] = prevCoords[i].Add(f.Scale(stepSize))
			}
			sys.WrapAll()

			newForces, newEnergy, err = forceFn()
			if err != nil {
				return nil, err
			}

			if math.IsNaN(newEnergy) || math.IsInf(newEnergy, 0) || newEnergy > prevEnergy {
				stepSize *= shrink
				if stepSize < minStep {
					copy(sys.Coords, prevCoords)
					result.FinalEnergy = prevEnergy
					result.DeltaEnergy = result.InitialEnergy - prevEnergy
					result.Converged = false
					result.Reason = "numerical instability detected (step size too large)"
					return result, fmt.Errorf("integrate: energy minimization unstable: step size shrank below %.3g without an accepted move (energy %.6g)", minStep, prevEnergy)
				}
				continue
			}
			break
		}

		stepSize *= growth

		deltaE := math.Abs(newEnergy - prevEnergy)
		if deltaE < cfg.EnergyTolerance {
			result.FinalEnergy = newEnergy
			result.DeltaEnergy = result.InitialEnergy - newEnergy
			result.Converged = true
			result.Reason = fmt.Sprintf("energy converged (delta E = %.6g < %.6g)", deltaE, cfg.EnergyTolerance)
			return result, nil
		}
		if maxForce < cfg.ForceTolerance {
			result.FinalEnergy = newEnergy
			result.DeltaEnergy = result.InitialEnergy - newEnergy
			result.Converged = true
			result.Reason = fmt.Sprintf("forces converged (max |F| = %.6g < %.6g)", maxForce, cfg.ForceTolerance)
			return result, nil
		}

		prevEnergy = newEnergy
		forces = newForces
	}

	result.FinalEnergy = prevEnergy
	result.DeltaEnergy = result.InitialEnergy - prevEnergy
	result.Converged = false
	result.Reason = fmt.Sprintf("max steps reached (%d)", cfg.MaxSteps)
	return result, nil
}
