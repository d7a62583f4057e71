package bonded

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

var noBox = geom.Vec3{}

// finiteDiffCheck perturbs every coordinate of every atom referenced by
// the list and compares the numerical gradient of total energy against
// the analytic force Accumulate reports, confirming the term is
// conservative (spec §8 invariant 5) regardless of arity.
func finiteDiffCheck(t *testing.T, list mdsystem.SpecificInteractionList, coords []geom.Vec3) {
	t.Helper()
	const h = 1e-6

	accum := make([]geom.Vec3, len(coords))
	list.Accumulate(coords, noBox, accum)

	energyAt := func(c []geom.Vec3) float64 {
		a := make([]geom.Vec3, len(c))
		return list.Accumulate(c, noBox, a)
	}

	for idx := range coords {
		for axis := 0; axis < 3; axis++ {
			plus := append([]geom.Vec3(nil), coords...)
			minus := append([]geom.Vec3(nil), coords...)
			perturb(&plus[idx], axis, h)
			perturb(&minus[idx], axis, -h)
			dEdX := (energyAt(plus) - energyAt(minus)) / (2 * h)

			var analytic float64
			switch axis {
			case 0:
				analytic = accum[idx].X
			case 1:
				analytic = accum[idx].Y
			case 2:
				analytic = accum[idx].Z
			}
			if math.Abs(-dEdX-analytic) > 1e-3*math.Max(1, math.Abs(analytic)) {
				t.Fatalf("atom %d axis %d: finite-diff force %v, analytic %v", idx, axis, -dEdX, analytic)
			}
		}
	}
}

func perturb(v *geom.Vec3, axis int, delta float64) {
	switch axis {
	case 0:
		v.X += delta
	case 1:
		v.Y += delta
	case 2:
		v.Z += delta
	}
}

func TestHarmonicBondConservative(t *testing.T) {
	list, err := NewHarmonicBondList([]int{0}, []int{1}, []float64{0.15}, []float64{300}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	coords := []geom.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.17, Y: 0.02, Z: -0.01}}
	finiteDiffCheck(t, list, coords)
}

func TestHarmonicBondMismatchedLengths(t *testing.T) {
	if _, err := NewHarmonicBondList([]int{0, 1}, []int{1}, []float64{0.1}, []float64{300}, "", ""); err == nil {
		t.Fatal("expected error on mismatched array lengths")
	}
}

func TestHarmonicAngleConservative(t *testing.T) {
	list, err := NewHarmonicAngleList([]int{0}, []int{1}, []int{2}, []float64{109.5 * math.Pi / 180}, []float64{400}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	coords := []geom.Vec3{
		{X: 0.15, Y: 0.02, Z: 0},
		{X: 0, Y: 0, Z: 0},
		{X: -0.05, Y: 0.14, Z: 0.03},
	}
	finiteDiffCheck(t, list, coords)
}

func TestProperTorsionConservative(t *testing.T) {
	list, err := NewProperTorsionList([]int{0}, []int{1}, []int{2}, []int{3}, []float64{10}, []float64{0}, []float64{3}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	coords := []geom.Vec3{
		{X: 0.1, Y: 0.9, Z: 0.1},
		{X: 0, Y: 0.5, Z: 0},
		{X: 0, Y: -0.5, Z: 0},
		{X: 0.8, Y: -0.9, Z: 0.3},
	}
	finiteDiffCheck(t, list, coords)
}

func TestImproperTorsionConservative(t *testing.T) {
	list, err := NewImproperTorsionList([]int{0}, []int{1}, []int{2}, []int{3}, []float64{0}, []float64{40}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	coords := []geom.Vec3{
		{X: 0.2, Y: 0.85, Z: -0.1},
		{X: 0, Y: 0.5, Z: 0},
		{X: 0, Y: -0.5, Z: 0},
		{X: -0.3, Y: -0.85, Z: 0.2},
	}
	finiteDiffCheck(t, list, coords)
}

func TestTorsionMismatchedLengths(t *testing.T) {
	if _, err := NewProperTorsionList([]int{0}, []int{1}, []int{2}, []int{3, 4}, []float64{1}, []float64{0}, []float64{1}, "", ""); err == nil {
		t.Fatal("expected error on mismatched array lengths")
	}
}
