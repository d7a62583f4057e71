package mdsystem

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"gonum.org/v1/gonum/stat/distuv"
)

// PairwiseInteraction is the contract every non-bonded variant in
// internal/pairwise satisfies (spec §4.D). Defined here, rather than in
// internal/pairwise, so System can hold a tuple of interactions without
// an import cycle.
type PairwiseInteraction interface {
	// Force returns the force on atom i from atom j given the
	// minimum-image displacement dr = j->i... by convention dr is
	// computed by the caller as Displacement(coords[i], coords[j], box)
	// so the returned force already points away from j when repulsive.
	Force(dr geom.Vec3, ai, aj Atom, is14 bool) geom.Vec3
	PotentialEnergy(dr geom.Vec3, ai, aj Atom, is14 bool) float64
	// NLOnly reports whether this interaction is only evaluated over
	// the neighbor list (true) or over all non-excluded i<j pairs.
	NLOnly() bool
	// Weight14 returns the 1-4 scaling factor applied when is14 is set,
	// or false if this interaction does not define one.
	Weight14() (float64, bool)
	ForceUnits() string
	EnergyUnits() string
}

// SpecificInteractionList is the contract for bonded terms (spec §3
// "SpecificInteractionList", §4.E): a polymorphic container over a fixed
// arity k of atom-index tuples plus one parameter record per tuple.
type SpecificInteractionList interface {
	Arity() int
	Len() int
	// Accumulate adds the force contribution of every entry into accum
	// (indexed by atom) and returns the summed potential energy.
	Accumulate(coords []geom.Vec3, box geom.Vec3, accum []geom.Vec3) float64
	MaxAtomIndex() int
	ForceUnits() string
	EnergyUnits() string
}

// NeighborPair is one entry of a NeighborList (spec §3 "NeighborList").
type NeighborPair struct {
	I, J     int
	Weight14 bool
}

// NeighborList is the unordered set of close pairs a NeighborFinder
// produces (spec §3, §4.F).
type NeighborList struct {
	Pairs []NeighborPair
	// BuiltAtStep records the step index at which this list was built,
	// for rebuild-period bookkeeping.
	BuiltAtStep int
	// Snapshot is the coordinate set used by finders that rebuild based on
	// maximum atom displacement since the last build. The base finders in
	// internal/neighbor store sys.Coords itself (no copy), so it follows
	// later in-place coordinate updates; DisplacementRebuild replaces it
	// with a copy taken at build time.
	Snapshot []geom.Vec3
}

// NeighborFinder is the contract for the variants in internal/neighbor
// (spec §4.F).
type NeighborFinder interface {
	FindNeighbors(sys *System, prev *NeighborList, stepIndex int, parallel bool) (*NeighborList, error)
}

// System is the simulation state (spec §3).
type System struct {
	Dim   int // 2 or 3
	Box   geom.Vec3
	Atoms []Atom

	Coords     []geom.Vec3
	Velocities []geom.Vec3

	Pairwise []PairwiseInteraction
	Specific []SpecificInteractionList
	NBMatrix *ExclusionMatrix

	Finder NeighborFinder

	ForceUnits  string
	EnergyUnits string

	rng *rand.Rand
}

// ExclusionMatrix masks permanently-excluded pairs (spec §3 invariant 4)
// and flags 1-4 pairs. A nil *ExclusionMatrix means "nothing excluded".
type ExclusionMatrix struct {
	n         int
	excluded  map[[2]int]bool
	fourteens map[[2]int]bool
}

// NewExclusionMatrix allocates an all-included matrix for n atoms.
func NewExclusionMatrix(n int) *ExclusionMatrix {
	return &ExclusionMatrix{n: n, excluded: make(map[[2]int]bool), fourteens: make(map[[2]int]bool)}
}

func key(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// Exclude marks (i,j) as permanently excluded from non-bonded evaluation.
func (m *ExclusionMatrix) Exclude(i, j int) { m.excluded[key(i, j)] = true }

// Mark14 flags (i,j) as a 1-4 pair (scaled, not excluded).
func (m *ExclusionMatrix) Mark14(i, j int) { m.fourteens[key(i, j)] = true }

// Included reports whether pair (i,j) should be evaluated at all.
func (m *ExclusionMatrix) Included(i, j int) bool {
	if m == nil {
		return true
	}
	return !m.excluded[key(i, j)]
}

// Is14 reports whether pair (i,j) is flagged as a 1-4 interaction.
func (m *ExclusionMatrix) Is14(i, j int) bool {
	if m == nil {
		return false
	}
	return m.fourteens[key(i, j)]
}

// Config bundles System construction parameters.
type Config struct {
	Dim         int
	Box         geom.Vec3
	Atoms       []Atom
	Coords      []geom.Vec3
	Velocities  []geom.Vec3
	Pairwise    []PairwiseInteraction
	Specific    []SpecificInteractionList
	NBMatrix    *ExclusionMatrix
	Finder      NeighborFinder
	ForceUnits  string
	EnergyUnits string
	Seed        int64
	// MinimumSeparation, when positive, rejects construction if any
	// non-excluded pair starts closer than this distance (spec §9 open
	// question on coincident coordinates: a documented precondition,
	// not a runtime panic). Zero disables the check.
	MinimumSeparation float64
}

// New validates cfg and constructs a System (spec §4.B, §7 "Validation").
// Construction failures are fatal and name the offending field, per §7.
func New(cfg Config) (*System, error) {
	n := len(cfg.Atoms)
	if cfg.Dim != 2 && cfg.Dim != 3 {
		return nil, fmt.Errorf("mdsystem: dim must be 2 or 3, got %d", cfg.Dim)
	}
	if len(cfg.Coords) != n {
		return nil, fmt.Errorf("mdsystem: len(coords)=%d != len(atoms)=%d", len(cfg.Coords), n)
	}
	if len(cfg.Velocities) != n {
		return nil, fmt.Errorf("mdsystem: len(velocities)=%d != len(atoms)=%d", len(cfg.Velocities), n)
	}
	if cfg.Box.X <= 0 || cfg.Box.Y <= 0 || (cfg.Dim == 3 && cfg.Box.Z <= 0) {
		return nil, fmt.Errorf("mdsystem: box extents must be positive, got %+v", cfg.Box)
	}
	for idx, p := range cfg.Pairwise {
		if p.ForceUnits() != cfg.ForceUnits || p.EnergyUnits() != cfg.EnergyUnits {
			return nil, fmt.Errorf("mdsystem: pairwise interaction %d unit mismatch (force=%q energy=%q, system wants %q/%q)",
				idx, p.ForceUnits(), p.EnergyUnits(), cfg.ForceUnits, cfg.EnergyUnits)
		}
	}
	for idx, s := range cfg.Specific {
		if s.ForceUnits() != cfg.ForceUnits || s.EnergyUnits() != cfg.EnergyUnits {
			return nil, fmt.Errorf("mdsystem: specific interaction list %d unit mismatch", idx)
		}
		if s.MaxAtomIndex() >= n {
			return nil, fmt.Errorf("mdsystem: specific interaction list %d references atom index %d, have %d atoms", idx, s.MaxAtomIndex(), n)
		}
	}

	for i, c := range cfg.Coords {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) || math.IsInf(c.Z, 0) {
			return nil, fmt.Errorf("mdsystem: atom %d has a non-finite coordinate %+v", i, c)
		}
	}
	if cfg.MinimumSeparation > 0 {
		minSep2 := cfg.MinimumSeparation * cfg.MinimumSeparation
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if cfg.NBMatrix != nil && !cfg.NBMatrix.Included(i, j) {
					continue
				}
				if geom.Displacement(cfg.Coords[i], cfg.Coords[j], cfg.Box).Norm2() < minSep2 {
					return nil, fmt.Errorf("mdsystem: atoms %d and %d start closer than the minimum separation %g", i, j, cfg.MinimumSeparation)
				}
			}
		}
	}

	coords := make([]geom.Vec3, n)
	for i, c := range cfg.Coords {
		coords[i] = geom.Wrap(c, cfg.Box)
	}
	vel := make([]geom.Vec3, n)
	copy(vel, cfg.Velocities)

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	sys := &System{
		Dim:         cfg.Dim,
		Box:         cfg.Box,
		Atoms:       append([]Atom(nil), cfg.Atoms...),
		Coords:      coords,
		Velocities:  vel,
		Pairwise:    cfg.Pairwise,
		Specific:    cfg.Specific,
		NBMatrix:    cfg.NBMatrix,
		Finder:      cfg.Finder,
		ForceUnits:  cfg.ForceUnits,
		EnergyUnits: cfg.EnergyUnits,
		rng:         rand.New(rand.NewSource(seed)),
	}
	return sys, nil
}

// N returns the number of atoms.
func (s *System) N() int { return len(s.Atoms) }

// Rand returns the system's deterministic RNG stream, used by stochastic
// integrators and thermostats (spec §5 "Determinism").
func (s *System) Rand() *rand.Rand { return s.rng }

// KineticEnergy returns Σ ½ m_i |v_i|² (public operation, spec §6).
func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i, a := range s.Atoms {
		ke += 0.5 * a.Mass * s.Velocities[i].Norm2()
	}
	return ke
}

// Temperature returns the instantaneous temperature derived from kinetic
// energy via equipartition: KE = ½ * dim * N * k_B * T (spec §6).
func (s *System) Temperature() float64 {
	n := s.N()
	if n == 0 {
		return 0
	}
	dof := float64(s.Dim * n)
	return 2 * s.KineticEnergy() / (dof * BoltzmannConstant)
}

// RandomVelocities draws each velocity component from N(0, sqrt(k_B*T/m))
// (spec §4.B) using the system's deterministic RNG.
func RandomVelocities(s *System, temperature float64) {
	for i, a := range s.Atoms {
		if a.Mass <= 0 {
			continue
		}
		sigma := math.Sqrt(BoltzmannConstant * temperature / a.Mass)
		dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: s.rng}
		v := geom.Vec3{X: dist.Rand(), Y: dist.Rand()}
		if s.Dim == 3 {
			v.Z = dist.Rand()
		}
		s.Velocities[i] = v
	}
}

// WrapAll re-applies the periodic boundary to every coordinate,
// restoring invariant §3.2 after an integrator step.
func (s *System) WrapAll() {
	for i, c := range s.Coords {
		s.Coords[i] = geom.Wrap(c, s.Box)
	}
}
