// Package cutoff implements the five cutoff variants of spec §4.C. Every
// policy precomputes squared radii, so deciding whether a pair lies
// inside the cutoff compares squared distances and needs no square root.
package cutoff

import "math"

// Raw evaluates the un-cut interaction at squared distance r2, returning
// F/r (so the caller's force vector is Raw(r2)*dr) and the potential U.
type Raw func(r2 float64) (forceDivR, potential float64)

// Policy is the common contract of spec §4.C's cutoff table.
type Policy interface {
	// SqCutoff returns r_c², or +Inf for the None variant.
	SqCutoff() float64
	// Apply transforms the raw kernel at r2 according to the policy,
	// returning active=false when the pair is beyond the cutoff (F=U=0).
	Apply(r2 float64, raw Raw) (forceDivR, potential float64, active bool)
}

// None applies no cutoff: the raw potential/force is used everywhere
// (spec §4.C "None").
type None struct{}

func (None) SqCutoff() float64 { return math.Inf(1) }

func (None) Apply(r2 float64, raw Raw) (float64, float64, bool) {
	f, u := raw(r2)
	return f, u, true
}

// Distance is the hard cutoff: raw below r_c, zero above.
type Distance struct {
	sqRc float64
}

// NewDistance builds a hard-distance cutoff at radius rc.
func NewDistance(rc float64) Distance { return Distance{sqRc: rc * rc} }

func (d Distance) SqCutoff() float64 { return d.sqRc }

func (d Distance) Apply(r2 float64, raw Raw) (float64, float64, bool) {
	if r2 >= d.sqRc {
		return 0, 0, false
	}
	f, u := raw(r2)
	return f, u, true
}

// ShiftedPotential subtracts U(r_c) from the raw potential so energy is
// continuous at the cutoff; the force is unchanged (and discontinuous).
type ShiftedPotential struct {
	sqRc float64
}

func NewShiftedPotential(rc float64) ShiftedPotential {
	return ShiftedPotential{sqRc: rc * rc}
}

func (s ShiftedPotential) SqCutoff() float64 { return s.sqRc }

func (s ShiftedPotential) Apply(r2 float64, raw Raw) (float64, float64, bool) {
	if r2 >= s.sqRc {
		return 0, 0, false
	}
	f, u := raw(r2)
	_, uRc := raw(s.sqRc)
	return f, u - uRc, true
}

// ShiftedForce shifts the force linearly so F(r_c)=0, and integrates the
// shift back into the potential so the two stay consistent
// (Allen & Tildesley "shifted force potential").
type ShiftedForce struct {
	rc, sqRc float64
}

func NewShiftedForce(rc float64) ShiftedForce {
	return ShiftedForce{rc: rc, sqRc: rc * rc}
}

func (s ShiftedForce) SqCutoff() float64 { return s.sqRc }

func (s ShiftedForce) Apply(r2 float64, raw Raw) (float64, float64, bool) {
	if r2 >= s.sqRc {
		return 0, 0, false
	}
	r := math.Sqrt(r2)
	fDivR, u := raw(r2)
	fRcDivR, uRc := raw(s.sqRc)

	fRc := fRcDivR * s.rc // force magnitude at cutoff
	fShifted := fDivR*r - fRc
	uShifted := u - uRc + (r-s.rc)*fRc

	if r == 0 {
		return 0, uShifted, true
	}
	return fShifted / r, uShifted, true
}

// Switch is the two-radius cubic-spline switching function: raw inside
// r_on, a smooth cubic taper to zero across [r_on, r_c] for both force
// and potential (spec §4.C "Cubic-spline switch").
type Switch struct {
	sqRon, sqRc float64
}

// NewSwitch builds a cubic-spline switch active between ron and rc.
func NewSwitch(ron, rc float64) Switch {
	return Switch{sqRon: ron * ron, sqRc: rc * rc}
}

func (s Switch) SqCutoff() float64 { return s.sqRc }

func (s Switch) Apply(r2 float64, raw Raw) (float64, float64, bool) {
	if r2 >= s.sqRc {
		return 0, 0, false
	}
	fDivR, u := raw(r2)
	if r2 <= s.sqRon {
		return fDivR, u, true
	}

	// Standard CHARMM/NAMD switching function, expressed directly in
	// terms of r² so the fast path never takes a square root:
	//   sw    = (rc²-r²)² (rc² + 2r² - 3ron²) / (rc²-ron²)³
	//   dsw/d(r²) = 6 (rc²-r²)(ron²-r²) / (rc²-ron²)³
	denom := s.sqRc - s.sqRon
	denom3 := denom * denom * denom
	rcMr2 := s.sqRc - r2
	sw := rcMr2 * rcMr2 * (s.sqRc + 2*r2 - 3*s.sqRon) / denom3
	dswDr2 := 6 * rcMr2 * (s.sqRon - r2) / denom3

	// d(U*sw)/dr2 = dU/dr2 * sw + U * dsw/dr2, and fDivR = -2 dU/dr2,
	// so fDivR_sw = fDivR*sw - 2*U*dsw/dr2.
	uSwitched := u * sw
	fSwitched := fDivR*sw - 2*u*dswDr2
	return fSwitched, uSwitched, true
}
