package pairwise

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

func atomPair() (mdsystem.Atom, mdsystem.Atom) {
	return mdsystem.Atom{Sigma: 0.3, Epsilon: 0.5, Charge: 0.2, Mass: 1.0},
		mdsystem.Atom{Sigma: 0.32, Epsilon: 0.4, Charge: -0.3, Mass: 2.0}
}

// Newton's third law: F_ij(dr) = -F_ji(-dr), since dr flips sign and
// fDivR depends only on r2.
func TestNewtonsThirdLaw(t *testing.T) {
	ai, aj := atomPair()
	dr := geom.Vec3{X: 0.32, Y: 0.1, Z: -0.05}
	interactions := []mdsystem.PairwiseInteraction{
		NewLennardJones(cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
		NewSoftSphere(cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
		NewCoulomb(cutoff.None{}, 1, false, "kJ/mol/nm", "kJ/mol"),
		NewGravity(1.0, cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
	}
	for _, in := range interactions {
		fij := in.Force(dr, ai, aj, false)
		fji := in.Force(dr.Neg(), aj, ai, false)
		sum := fij.Add(fji)
		if sum.Norm() > 1e-9 {
			t.Fatalf("%T: forces do not cancel: fij=%v fji=%v", in, fij, fji)
		}
	}
}

func TestShortCircuitZeroSigmaOrEpsilon(t *testing.T) {
	ai := mdsystem.Atom{Sigma: 0, Epsilon: 0.5}
	aj := mdsystem.Atom{Sigma: 0.3, Epsilon: 0.4}
	dr := geom.Vec3{X: 0.2, Y: 0, Z: 0}
	lj := NewLennardJones(cutoff.None{}, "kJ/mol/nm", "kJ/mol")
	if u := lj.PotentialEnergy(dr, ai, aj, false); u != 0 {
		t.Fatalf("expected zero energy when sigma is zero, got %v", u)
	}
	if f := lj.Force(dr, ai, aj, false); f.Norm() != 0 {
		t.Fatalf("expected zero force when sigma is zero, got %v", f)
	}
}

func TestMieRejectsNonRepulsiveOrdering(t *testing.T) {
	if _, err := NewMie(6, 6, cutoff.None{}, "kJ/mol/nm", "kJ/mol"); err == nil {
		t.Fatal("expected error when m >= n")
	}
	if _, err := NewMie(8, 6, cutoff.None{}, "kJ/mol/nm", "kJ/mol"); err == nil {
		t.Fatal("expected error when m >= n")
	}
	if _, err := NewMie(6, 12, cutoff.None{}, "kJ/mol/nm", "kJ/mol"); err != nil {
		t.Fatalf("unexpected error for valid Mie(6,12): %v", err)
	}
}

// finiteDiffForce numerically differentiates U along each axis and
// compares against the analytic force returned by Force, confirming
// the kernel is conservative (spec §8 invariant 5).
func finiteDiffForce(t *testing.T, in mdsystem.PairwiseInteraction, ai, aj mdsystem.Atom, dr geom.Vec3) {
	t.Helper()
	const h = 1e-6
	analytic := in.Force(dr, ai, aj, false)

	grad := func(axis int) float64 {
		plus, minus := dr, dr
		switch axis {
		case 0:
			plus.X += h
			minus.X -= h
		case 1:
			plus.Y += h
			minus.Y -= h
		case 2:
			plus.Z += h
			minus.Z -= h
		}
		up := in.PotentialEnergy(plus, ai, aj, false)
		um := in.PotentialEnergy(minus, ai, aj, false)
		return (up - um) / (2 * h)
	}

	want := geom.Vec3{X: -grad(0), Y: -grad(1), Z: -grad(2)}
	diff := analytic.Sub(want)
	tol := 1e-3 * math.Max(1, want.Norm())
	if diff.Norm() > tol {
		t.Fatalf("%T: force not conservative: analytic=%v finite-diff=%v", in, analytic, want)
	}
}

func TestConservativeForces(t *testing.T) {
	ai, aj := atomPair()
	dr := geom.Vec3{X: 0.32, Y: 0.11, Z: -0.07}
	mie, err := NewMie(6, 12, cutoff.None{}, "kJ/mol/nm", "kJ/mol")
	if err != nil {
		t.Fatal(err)
	}
	interactions := []mdsystem.PairwiseInteraction{
		NewLennardJones(cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
		NewSoftSphere(cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
		mie,
		NewCoulomb(cutoff.None{}, 1, false, "kJ/mol/nm", "kJ/mol"),
		NewGravity(1.0, cutoff.None{}, "kJ/mol/nm", "kJ/mol"),
		NewReactionFieldCoulomb(1.0, math.Inf(1), 1, 1, false, "kJ/mol/nm", "kJ/mol"),
	}
	for _, in := range interactions {
		finiteDiffForce(t, in, ai, aj, dr)
	}
}

func TestReactionFieldVanishesAtCutoff(t *testing.T) {
	ai, aj := atomPair()
	rf := NewReactionFieldCoulomb(1.0, math.Inf(1), 1, 1, false, "kJ/mol/nm", "kJ/mol")
	dr := geom.Vec3{X: 1.0 - 1e-7, Y: 0, Z: 0}
	u := rf.PotentialEnergy(dr, ai, aj, false)
	if math.Abs(u) > 1e-3 {
		t.Fatalf("reaction-field potential should vanish at r_c, got %v", u)
	}
}
