package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

func TestDisplacementsUsesMinimumImage(t *testing.T) {
	box := geom.Vec3{X: 2, Y: 2, Z: 2}
	before := []geom.Vec3{{X: 0.1, Y: 0, Z: 0}}
	after := []geom.Vec3{{X: 1.9, Y: 0, Z: 0}} // wrapped-around neighbor, true distance 0.2
	d, err := Displacements(before, after, box)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d[0]-0.2) > 1e-9 {
		t.Fatalf("expected minimum-image displacement 0.2, got %v", d[0])
	}
}

func TestDisplacementsLengthMismatch(t *testing.T) {
	if _, err := Displacements([]geom.Vec3{{}}, []geom.Vec3{{}, {}}, geom.Vec3{X: 1, Y: 1, Z: 1}); err == nil {
		t.Fatal("expected error on length mismatch")
	}
}

func TestDistancesMatchesDirectComputation(t *testing.T) {
	box := geom.Vec3{X: 10, Y: 10, Z: 10}
	coords := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 4, Z: 0}}
	pairs := []mdsystem.NeighborPair{{I: 0, J: 1}}
	d := Distances(coords, box, pairs)
	if math.Abs(d[0]-5.0) > 1e-9 {
		t.Fatalf("expected distance 5, got %v", d[0])
	}
}

// TestRDFApproachesUnityForARandomGas checks that a dilute random gas
// with no pairwise correlation has g(r) close to 1 at large r, the
// defining property of the radial distribution function.
func TestRDFApproachesUnityForARandomGas(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	box := geom.Vec3{X: 10, Y: 10, Z: 10}
	n := 3000
	atoms := make([]mdsystem.Atom, n)
	coords := make([]geom.Vec3, n)
	vel := make([]geom.Vec3, n)
	for i := range atoms {
		atoms[i] = mdsystem.Atom{Mass: 1}
		coords[i] = geom.Vec3{X: r.Float64() * box.X, Y: r.Float64() * box.Y, Z: r.Float64() * box.Z}
	}
	sys, err := mdsystem.New(mdsystem.Config{
		Dim: 3, Box: box, Atoms: atoms, Coords: coords, Velocities: vel,
		ForceUnits: "kJ/mol/nm", EnergyUnits: "kJ/mol", Seed: 99,
	})
	if err != nil {
		t.Fatal(err)
	}

	result, err := RDF(sys, 20, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	last := result.G[len(result.G)-1]
	if math.Abs(last-1) > 0.25 {
		t.Fatalf("expected g(r) near 1 for an uncorrelated gas at large r, got %v", last)
	}
}

func TestRDFRejectsBadArguments(t *testing.T) {
	sys := emptySystem(t)
	if _, err := RDF(sys, 0, 1.0); err == nil {
		t.Fatal("expected error for nBins=0")
	}
	if _, err := RDF(sys, 10, 0); err == nil {
		t.Fatal("expected error for rMax<=0")
	}
}

func emptySystem(t *testing.T) *mdsystem.System {
	t.Helper()
	atoms := []mdsystem.Atom{{Mass: 1}}
	coords := []geom.Vec3{{X: 1, Y: 1, Z: 1}}
	vel := []geom.Vec3{{}}
	sys, err := mdsystem.New(mdsystem.Config{
		Dim: 3, Box: geom.Vec3{X: 2, Y: 2, Z: 2}, Atoms: atoms, Coords: coords, Velocities: vel,
		ForceUnits: "kJ/mol/nm", EnergyUnits: "kJ/mol", Seed: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sys
}
