package integrate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// AndersenThermostat couples the system to a heat bath at Temperature
// by, each step, replacing the velocity of every atom with probability
// Nu*dt with a fresh draw from the Maxwell-Boltzmann distribution (spec
// §4.H "Andersen thermostat"). It disrupts momentum conservation and
// real dynamics by design, trading trajectory fidelity for exact
// canonical sampling.
type AndersenThermostat struct {
	Nu          float64 // collision frequency, 1/time
	Temperature float64
}

func NewAndersenThermostat(nu, temperature float64) AndersenThermostat {
	return AndersenThermostat{Nu: nu, Temperature: temperature}
}

// Apply is called once per step, after the position/velocity
// integrator's Step, to stochastically reassign a subset of velocities.
func (a AndersenThermostat) Apply(sys *mdsystem.System, dt float64) {
	collisionProb := a.Nu * dt
	for i, atom := range sys.Atoms {
		if atom.Mass <= 0 {
			continue
		}
		if sys.Rand().Float64() >= collisionProb {
			continue
		}
		sigma := math.Sqrt(mdsystem.BoltzmannConstant * a.Temperature / atom.Mass)
		dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: sys.Rand()}
		v := geom.Vec3{X: dist.Rand(), Y: dist.Rand()}
		if sys.Dim == 3 {
			v.Z = dist.Rand()
		}
		sys.Velocities[i] = v
	}
}
