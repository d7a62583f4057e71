package pipeline

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/bonded"
	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
	"github.com/sarat-asymmetrica/mdforge/internal/neighbor"
	"github.com/sarat-asymmetrica/mdforge/internal/pairwise"
)

func smallSystem(t *testing.T) *mdsystem.System {
	t.Helper()
	atoms := []mdsystem.Atom{
		{Mass: 1, Sigma: 0.3, Epsilon: 0.3},
		{Mass: 1, Sigma: 0.3, Epsilon: 0.3},
		{Mass: 1, Sigma: 0.3, Epsilon: 0.3},
	}
	coords := []geom.Vec3{
		{X: 1.0, Y: 1.0, Z: 1.0},
		{X: 1.35, Y: 1.02, Z: 0.98},
		{X: 1.1, Y: 1.4, Z: 1.3},
	}
	vel := make([]geom.Vec3, 3)
	box := geom.Vec3{X: 4, Y: 4, Z: 4}

	bondList, err := bonded.NewHarmonicBondList([]int{0}, []int{1}, []float64{0.15}, []float64{300}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}

	lj := pairwise.NewLennardJones(cutoff.NewDistance(1.2), "kJ/mol/nm", "kJ/mol")
	matrix := mdsystem.NewExclusionMatrix(3)
	matrix.Exclude(0, 1) // bonded pair excluded from non-bonded evaluation

	sys, err := mdsystem.New(mdsystem.Config{
		Dim: 3, Box: box, Atoms: atoms, Coords: coords, Velocities: vel,
		Pairwise: []mdsystem.PairwiseInteraction{lj},
		Specific: []mdsystem.SpecificInteractionList{bondList},
		NBMatrix: matrix, ForceUnits: "kJ/mol/nm", EnergyUnits: "kJ/mol", Seed: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestForcesConserveMomentum(t *testing.T) {
	sys := smallSystem(t)
	finder := neighbor.NewDistanceNeighborFinder(1.2)
	nl, err := finder.FindNeighbors(sys, nil, 0, false)
	if err != nil {
		t.Fatal(err)
	}

	forces, err := Forces(sys, nl)
	if err != nil {
		t.Fatal(err)
	}

	sum := geom.Zero
	for _, f := range forces {
		sum = sum.Add(f)
	}
	if sum.Norm() > 1e-8 {
		t.Fatalf("net force should be zero for an isolated system, got %v", sum)
	}
}

func TestEvaluateEnergyBreakdownSumsToTotal(t *testing.T) {
	sys := smallSystem(t)
	finder := neighbor.NewDistanceNeighborFinder(1.2)
	nl, err := finder.FindNeighbors(sys, nil, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	report, err := Evaluate(sys, nl)
	if err != nil {
		t.Fatal(err)
	}

	var sum float64
	for _, u := range report.Pairwise {
		sum += u
	}
	for _, u := range report.Specific {
		sum += u
	}
	if math.Abs(sum-report.Potential) > 1e-9 {
		t.Fatalf("breakdown does not sum to reported potential: %v vs %v", sum, report.Potential)
	}
	if report.Total != report.Kinetic+report.Potential {
		t.Fatalf("total should equal kinetic+potential")
	}
}

func TestForcesRequireNeighborListForNLOnlyInteractions(t *testing.T) {
	sys := smallSystem(t)
	if _, err := Forces(sys, nil); err == nil {
		t.Fatal("expected an error when no neighbor list is supplied for an NL-only interaction")
	}
}
