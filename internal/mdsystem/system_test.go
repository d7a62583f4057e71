package mdsystem

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
)

func validConfig(n int) Config {
	atoms := make([]Atom, n)
	coords := make([]geom.Vec3, n)
	vel := make([]geom.Vec3, n)
	for i := range atoms {
		atoms[i] = Atom{Mass: 1.0, Sigma: 0.3, Epsilon: 0.2}
		coords[i] = geom.Vec3{X: float64(i) * 0.2}
	}
	return Config{
		Dim:         3,
		Box:         geom.Vec3{X: 2, Y: 2, Z: 2},
		Atoms:       atoms,
		Coords:      coords,
		Velocities:  vel,
		ForceUnits:  "kJ/mol/nm",
		EnergyUnits: "kJ/mol",
		Seed:        7,
	}
}

func TestNewRejectsLengthMismatch(t *testing.T) {
	cfg := validConfig(3)
	cfg.Velocities = cfg.Velocities[:2]
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error on velocity/atom length mismatch")
	}
}

func TestNewRejectsNonPositiveBox(t *testing.T) {
	cfg := validConfig(2)
	cfg.Box = geom.Vec3{X: 0, Y: 1, Z: 1}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error on non-positive box extent")
	}
}

func TestNewWrapsInitialCoords(t *testing.T) {
	cfg := validConfig(1)
	cfg.Coords[0] = geom.Vec3{X: -0.1, Y: 2.5, Z: 0}
	sys, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := sys.Coords[0]
	if c.X < 0 || c.X >= 2 || c.Y < 0 || c.Y >= 2 {
		t.Fatalf("initial coords not wrapped: %+v", c)
	}
}

func TestTemperatureOfRandomVelocities(t *testing.T) {
	cfg := validConfig(2000)
	sys, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	RandomVelocities(sys, 300)
	tempr := sys.Temperature()
	if math.Abs(tempr-300) > 15 {
		t.Fatalf("sampled temperature %v far from target 300K", tempr)
	}
}

func TestNewRejectsCoincidentCoordinatesWhenMinimumSeparationSet(t *testing.T) {
	cfg := validConfig(2)
	cfg.Coords[0] = geom.Vec3{X: 1, Y: 1, Z: 1}
	cfg.Coords[1] = geom.Vec3{X: 1.01, Y: 1, Z: 1}
	cfg.MinimumSeparation = 0.05
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error when atoms start closer than MinimumSeparation")
	}
	cfg.MinimumSeparation = 0
	if _, err := New(cfg); err != nil {
		t.Fatalf("expected no error with MinimumSeparation disabled, got %v", err)
	}
}

func TestNewRejectsNonFiniteCoordinate(t *testing.T) {
	cfg := validConfig(1)
	cfg.Coords[0] = geom.Vec3{X: math.NaN(), Y: 0, Z: 0}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error on NaN coordinate")
	}
}

func TestKineticEnergyNonNegative(t *testing.T) {
	cfg := validConfig(5)
	sys, _ := New(cfg)
	RandomVelocities(sys, 100)
	if sys.KineticEnergy() < 0 {
		t.Fatal("kinetic energy must be non-negative")
	}
}
