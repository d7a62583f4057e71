// Package pairwise implements the short-range non-bonded interaction
// kernels of spec §4.D: Lennard-Jones and its soft-core/soft-sphere/Mie
// relatives, Coulomb and reaction-field Coulomb, and gravity. Every
// kernel is monomorphized (no interface call in the innermost math) and
// shares the combining rules and short-circuit contract described below.
package pairwise

import (
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/cutoff"
	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// SigmaMixing selects the σ combining rule (spec §4.D "Mixing rules").
type SigmaMixing int

const (
	// Lorentz combines σ as an arithmetic mean: (σ_i+σ_j)/2.
	Lorentz SigmaMixing = iota
	// Geometric combines σ as sqrt(σ_i σ_j).
	Geometric
)

func mixSigma(rule SigmaMixing, si, sj float64) float64 {
	if rule == Geometric {
		return math.Sqrt(si * sj)
	}
	return 0.5 * (si + sj)
}

// mixEpsilon combines ε as a geometric mean, scaled by
// weightSoluteSolvent when exactly one atom is flagged solute (spec
// §4.D).
func mixEpsilon(ei, ej float64, soluteI, soluteJ bool, weightSoluteSolvent float64) float64 {
	eps := math.Sqrt(ei * ej)
	if soluteI != soluteJ {
		eps *= weightSoluteSolvent
	}
	return eps
}

// shortCircuit reports whether the pair has zero σ or ε on either atom
// (spec §4.D, §8 invariant 2), in which case force/energy are zero
// unless skipShortcut opts out of the fast path.
func shortCircuit(ai, aj mdsystem.Atom, skipShortcut bool) bool {
	if skipShortcut {
		return false
	}
	return ai.Sigma == 0 || ai.Epsilon == 0 || aj.Sigma == 0 || aj.Epsilon == 0
}

// applyWeight14 scales force and energy by w when is14 is set and the
// interaction defines a 1-4 weight (spec §4.D).
func applyWeight14(f geom.Vec3, u float64, is14 bool, w float64, has bool) (geom.Vec3, float64) {
	if is14 && has {
		return f.Scale(w), u * w
	}
	return f, u
}

// evalPolicy runs the cutoff policy on the raw kernel and turns the
// result into a force vector, honoring the common short-circuit and
// 1-4 weighting contract (spec §4.D "Common contract").
func evalPolicy(pol cutoff.Policy, dr geom.Vec3, r2 float64, raw cutoff.Raw, is14 bool, w14 float64, has14 bool) (geom.Vec3, float64) {
	fDivR, u, active := pol.Apply(r2, raw)
	if !active {
		return geom.Zero, 0
	}
	f := dr.Scale(fDivR)
	return applyWeight14(f, u, is14, w14, has14)
}
