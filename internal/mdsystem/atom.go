// Package mdsystem holds the per-atom parameters and global simulation
// state (spec §3, §4.B): a fixed-length set of atoms, their coordinates,
// velocities, the periodic box, and the tuples of interactions that act
// on them.
//
// PHYSICIST: atoms are immutable per-step records; only coordinates and
// velocities change, and only through an integrator.
package mdsystem

// Atom is an immutable per-step particle record (spec §3).
type Atom struct {
	Mass    float64 // atomic mass (system units)
	Charge  float64 // partial charge, e
	Sigma   float64 // Lennard-Jones diameter σ
	Epsilon float64 // Lennard-Jones well depth ε
	Solute  bool    // flags the atom for solute/solvent ε scaling (spec §4.D)
}

// Units names the physical units the system reports quantities in, or
// the sentinel "none" when the caller has opted out of unit tracking
// (spec §6, §9: unit wrappers are a runtime-validated, zero-cost-on-the
// -hot-path concern, not a compile-time dimensional type here).
type Units struct {
	Length      string
	Time        string
	Mass        string
	Energy      string
	Force       string
	Temperature string
	Charge      string
}

// Dimensionless is the Units value meaning "no unit tracking" (System
// construction with units=false, spec §4.B / §6).
var Dimensionless = Units{}

// IsDimensionless reports whether u represents the no-units system.
func (u Units) IsDimensionless() bool { return u == Units{} }

// Default is the spec's §6 default unit set: nm / ps / u / kJ·mol⁻¹ /
// kJ·mol⁻¹·nm⁻¹ / K / e.
var Default = Units{
	Length:      "nm",
	Time:        "ps",
	Mass:        "u",
	Energy:      "kJ/mol",
	Force:       "kJ/mol/nm",
	Temperature: "K",
	Charge:      "e",
}

// Physical constants (spec §6).
const (
	BoltzmannConstant = 0.008314462618 // kJ·mol⁻¹·K⁻¹
	CoulombConstant   = 138.935458     // kJ·mol⁻¹·nm·e⁻²
)
