package common

import (
	"github.com/chewxy/math32"
)

// Saturate clamps v to the [0, 1] range.
//
// Parameters:
//   - v: the value to clamp
//
// Returns:
//   - float32: v clamped to [0, 1]
func Saturate(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
// t is not clamped; callers clamp first when required.
//
// Parameters:
//   - a: start value (returned at t=0)
//   - b: end value (returned at t=1)
//   - t: interpolation factor
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smoothstep performs the standard Hermite interpolation between edge0 and edge1.
// Returns 0 for v <= edge0, 1 for v >= edge1, and a smooth cubic in between.
//
// Parameters:
//   - edge0: lower edge of the transition
//   - edge1: upper edge of the transition
//   - v: the input value
//
// Returns:
//   - float32: the smoothed interpolation factor in [0, 1]
func Smoothstep(edge0, edge1, v float32) float32 {
	t := Saturate((v - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Fract returns the fractional part of v (v - floor(v)).
//
// Parameters:
//   - v: the input value
//
// Returns:
//   - float32: the fractional part, in [0, 1) for finite inputs
func Fract(v float32) float32 {
	return v - math32.Floor(v)
}

// Mod computes the GLSL-style modulus x - y*floor(x/y).
// Unlike math.Mod, the result has the sign of y, matching shader semantics.
//
// Parameters:
//   - x: the dividend
//   - y: the divisor (must be non-zero)
//
// Returns:
//   - float32: the GLSL-style modulus
func Mod(x, y float32) float32 {
	return x - y*math32.Floor(x/y)
}

// Normalize3 normalizes a 3-component vector in place semantics (returns the result).
// A zero-length input is returned unchanged to avoid producing NaNs.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the unit-length vector, or v unchanged if its length is zero
func Normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// Dot3 computes the dot product of two 3-component vectors.
//
// Parameters:
//   - a, b: the input vectors
//
// Returns:
//   - float32: the dot product
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Length2 computes the Euclidean length of a 2-component vector.
//
// Parameters:
//   - x, y: the vector components
//
// Returns:
//   - float32: the length
func Length2(x, y float32) float32 {
	return math32.Sqrt(x*x + y*y)
}

// TransformVec4 multiplies a column-major 4x4 matrix by a 4-component column vector.
//
// Parameters:
//   - m: the matrix (16 elements, column-major)
//   - v: the vector
//
// Returns:
//   - [4]float32: m * v
func TransformVec4(m []float32, v [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}
