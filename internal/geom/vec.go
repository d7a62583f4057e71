// Package geom implements fixed-width vector math and periodic boundary
// conditions for orthorhombic simulation cells.
//
// PHYSICIST: minimum-image displacement is the only geometry the pairwise
// and bonded kernels ever need; everything else builds on Vec3 arithmetic.
// MATHEMATICIAN: kept monomorphic (no interfaces) so the compiler can inline
// the hot loop in internal/pipeline.
package geom

import "math"

// Vec3 is a 3-component vector: a coordinate, velocity, force, or
// displacement. The engine is built for dim=3; 2D systems (see
// spec §3 "dim ∈ {2,3}") use a Vec3 with Z pinned to zero and a Box
// whose Z extent is effectively unbounded (see mdsystem.System.Dim).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns v·w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns v×w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm2 returns |v|².
func (v Vec3) Norm2() float64 { return v.Dot(v) }

// Norm returns |v|.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Normalize returns v/|v|, or the zero vector if v is (numerically) zero.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Zero is the additive identity.
var Zero = Vec3{}

// Displacement returns the minimum-image vector a-b under box: each axis
// is wrapped into [-box[k]/2, box[k]/2]. A zero (or negative) box extent
// on an axis disables wrapping on that axis, which is how 2D systems
// (Z unused) and fully aperiodic axes are expressed.
func Displacement(a, b, box Vec3) Vec3 {
	d := a.Sub(b)
	return Vec3{
		wrapComponent(d.X, box.X),
		wrapComponent(d.Y, box.Y),
		wrapComponent(d.Z, box.Z),
	}
}

func wrapComponent(d, boxLen float64) float64 {
	if boxLen <= 0 {
		return d
	}
	return d - boxLen*math.Round(d/boxLen)
}

// Wrap folds c into [0, box[k]) component-wise. Axes with a non-positive
// box extent are left untouched.
func Wrap(c, box Vec3) Vec3 {
	return Vec3{
		wrapInto(c.X, box.X),
		wrapInto(c.Y, box.Y),
		wrapInto(c.Z, box.Z),
	}
}

func wrapInto(c, boxLen float64) float64 {
	if boxLen <= 0 {
		return c
	}
	w := math.Mod(c, boxLen)
	if w < 0 {
		w += boxLen
	}
	return w
}
