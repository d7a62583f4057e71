package integrate

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/bonded"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
	"github.com/sarat-asymmetrica/mdforge/internal/neighbor"
	"github.com/sarat-asymmetrica/mdforge/internal/pipeline"
)

// diatomic builds a two-atom harmonic-bond system with no non-bonded
// interactions, a convenient conservative test case.
func diatomic(t *testing.T, r0, displacement float64) *mdsystem.System {
	t.Helper()
	bondList, err := bonded.NewHarmonicBondList([]int{0}, []int{1}, []float64{r0}, []float64{500}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	atoms := []mdsystem.Atom{{Mass: 12}, {Mass: 12}}
	coords := []geom.Vec3{{X: 1, Y: 1, Z: 1}, {X: 1 + r0 + displacement, Y: 1, Z: 1}}
	vel := []geom.Vec3{{}, {}}
	sys, err := mdsystem.New(mdsystem.Config{
		Dim: 3, Box: geom.Vec3{X: 10, Y: 10, Z: 10}, Atoms: atoms, Coords: coords, Velocities: vel,
		Specific: []mdsystem.SpecificInteractionList{bondList}, ForceUnits: "kJ/mol/nm", EnergyUnits: "kJ/mol", Seed: 11,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func forceFnFor(sys *mdsystem.System) ForceFunc {
	finder := neighbor.NewDistanceNeighborFinder(1.0)
	var nl *mdsystem.NeighborList
	return func() ([]geom.Vec3, float64, error) {
		var err error
		nl, err = finder.FindNeighbors(sys, nl, 0, false)
		if err != nil {
			return nil, 0, err
		}
		return pipeline.ForcesAndEnergy(sys, nl)
	}
}

func TestVelocityVerletConservesEnergy(t *testing.T) {
	sys := diatomic(t, 0.15, 0.02)
	forceFn := forceFnFor(sys)
	forces, potential0, err := forceFn()
	if err != nil {
		t.Fatal(err)
	}
	e0 := sys.KineticEnergy() + potential0

	vv := VelocityVerlet{}
	var potential float64
	for step := 0; step < 2000; step++ {
		forces, potential, err = vv.Step(sys, 0.0005, forces, forceFn)
		if err != nil {
			t.Fatal(err)
		}
	}
	e1 := sys.KineticEnergy() + potential
	if math.Abs(e1-e0) > 1e-3*math.Max(1, math.Abs(e0)) {
		t.Fatalf("energy drifted: e0=%v e1=%v", e0, e1)
	}
}

func TestLeapfrogConservesEnergyApproximately(t *testing.T) {
	sys := diatomic(t, 0.15, 0.02)
	forceFn := forceFnFor(sys)
	forces, potential0, err := forceFn()
	if err != nil {
		t.Fatal(err)
	}
	e0 := sys.KineticEnergy() + potential0

	v := &Verlet{}
	var potential float64
	for step := 0; step < 2000; step++ {
		forces, potential, err = v.Step(sys, 0.0005, forces, forceFn)
		if err != nil {
			t.Fatal(err)
		}
	}
	e1 := sys.KineticEnergy() + potential
	if math.Abs(e1-e0) > 1e-2*math.Max(1, math.Abs(e0)) {
		t.Fatalf("energy drifted: e0=%v e1=%v", e0, e1)
	}
}

func TestStormerVerletConservesEnergyApproximately(t *testing.T) {
	sys := diatomic(t, 0.15, 0.02)
	forceFn := forceFnFor(sys)
	forces, potential0, err := forceFn()
	if err != nil {
		t.Fatal(err)
	}
	e0 := sys.KineticEnergy() + potential0

	sv := &StormerVerlet{}
	var potential float64
	for step := 0; step < 2000; step++ {
		forces, potential, err = sv.Step(sys, 0.0005, forces, forceFn)
		if err != nil {
			t.Fatal(err)
		}
	}
	e1 := sys.KineticEnergy() + potential
	if math.Abs(e1-e0) > 1e-2*math.Max(1, math.Abs(e0)) {
		t.Fatalf("energy drifted: e0=%v e1=%v", e0, e1)
	}
}

func TestLangevinApproachesTargetTemperature(t *testing.T) {
	sys := diatomic(t, 0.15, 0.3)
	forceFn := forceFnFor(sys)
	forces, _, err := forceFn()
	if err != nil {
		t.Fatal(err)
	}

	lang := NewLangevinIntegrator(1.0, 300)
	var avgT float64
	const warmup = 2000
	const sampled = 3000
	for step := 0; step < warmup+sampled; step++ {
		forces, _, err = lang.Step(sys, 0.001, forces, forceFn)
		if err != nil {
			t.Fatal(err)
		}
		if step >= warmup {
			avgT += sys.Temperature()
		}
	}
	avgT /= sampled
	if math.Abs(avgT-300) > 60 {
		t.Fatalf("expected average temperature near 300K, got %v", avgT)
	}
}

func TestSteepestDescentMinimizerReducesEnergy(t *testing.T) {
	sys := diatomic(t, 0.15, 0.05)
	forceFn := forceFnFor(sys)
	cfg := DefaultMinimizerConfig()
	cfg.MaxSteps = 500
	cfg.StepSize = 1e-4

	result, err := SteepestDescentMinimizer(sys, cfg, forceFn)
	if err != nil {
		t.Fatal(err)
	}
	if result.FinalEnergy >= result.InitialEnergy {
		t.Fatalf("minimizer did not reduce energy: initial=%v final=%v", result.InitialEnergy, result.FinalEnergy)
	}
	if result.Reason == "" {
		t.Fatal("expected a non-empty convergence reason")
	}
}

func TestAndersenThermostatRandomizesSomeVelocities(t *testing.T) {
	sys := diatomic(t, 0.15, 0.0)
	before := append([]geom.Vec3(nil), sys.Velocities...)
	therm := NewAndersenThermostat(1e6, 300) // huge collision frequency: near-certain reassignment
	therm.Apply(sys, 0.001)

	changed := false
	for i := range sys.Velocities {
		if sys.Velocities[i] != before[i] {
			changed = true
		}
	}
	if !changed {
		t.Fatal("expected at least one velocity to be reassigned with a near-certain collision probability")
	}
}
