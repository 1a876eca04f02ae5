// Package sky implements the procedural atmospheric backdrop pass: a vertical
// sky/ground gradient with a fixed sun disk, rendered as a single full-screen
// triangle with no vertex buffer. The package holds the pass's GPU uniform type,
// its tuning parameters, and a CPU evaluation of the same math the WGSL shader
// runs, used by the software renderer and by tests.
package sky

import (
	"github.com/chewxy/math32"

	"github.com/vantage3d/vantage/common"
)

// VertexCount is the number of vertices the pass draws. The full-screen
// triangle is synthesized from the built-in vertex index, so no vertex buffer
// is ever bound.
const VertexCount = 3

// trianglePositions is the clip-space XY lookup table for the full-screen
// triangle, indexed by vertex ordinal. The triangle deliberately overshoots
// the viewport so a single primitive covers it without a diagonal seam.
var trianglePositions = [VertexCount][2]float32{
	{-1, -1},
	{3, -1},
	{-1, 3},
}

// VertexClipPosition returns the clip-space position of a full-screen triangle
// vertex. Every vertex sits on the far plane (z = w = 1).
//
// Parameters:
//   - index: the vertex ordinal, 0..2
//
// Returns:
//   - [4]float32: the clip-space position (x, y, 1, 1)
func VertexClipPosition(index int) [4]float32 {
	p := trianglePositions[index]
	return [4]float32{p[0], p[1], 1, 1}
}

// Direction reconstructs the world-space view direction for a clip-space
// position: the clip position is unprojected through the inverse projection to
// a view-space direction, then rotated into world space by the transpose of
// the view matrix's upper-left 3x3 (valid because the view rotation is
// orthonormal). The result is not normalized; callers normalize per pixel.
//
// Parameters:
//   - u: the sky uniform holding ProjInv and View
//   - clipX, clipY: the clip-space XY position
//
// Returns:
//   - [3]float32: the un-normalized world-space view direction
func Direction(u *GPUSkyUniform, clipX, clipY float32) [3]float32 {
	viewDir := common.TransformVec4(u.ProjInv[:], [4]float32{clipX, clipY, 1, 1})

	// For column-major storage, multiplying by the transposed rotation is a dot
	// with each column's first three rows.
	var world [3]float32
	for k := 0; k < 3; k++ {
		world[k] = u.View[k*4]*viewDir[0] + u.View[k*4+1]*viewDir[1] + u.View[k*4+2]*viewDir[2]
	}
	return world
}

// VertexDirection returns the world-space view direction for a full-screen
// triangle vertex, as interpolated across the triangle by the rasterizer.
//
// Parameters:
//   - u: the sky uniform holding ProjInv and View
//   - index: the vertex ordinal, 0..2
//
// Returns:
//   - [3]float32: the un-normalized world-space view direction
func VertexDirection(u *GPUSkyUniform, index int) [3]float32 {
	p := trianglePositions[index]
	return Direction(u, p[0], p[1])
}

// SunDiskIntensity computes the sun disk coverage for a normalized view
// direction: 1 exactly at the sun center, smoothly falling to 0 at
// SunAngularRadius radians away.
//
// Parameters:
//   - dir: the normalized world-space view direction
//
// Returns:
//   - float32: the disk intensity in [0, 1]
func SunDiskIntensity(dir [3]float32) float32 {
	// acos(dot) loses all precision near the disk center in float32; the
	// chord form 2*asin(|d-s|/2) stays exact for small angles.
	dx := dir[0] - SunDirection[0]
	dy := dir[1] - SunDirection[1]
	dz := dir[2] - SunDirection[2]
	chord := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	angle := 2 * math32.Asin(common.Saturate(chord*0.5))
	return 1 - common.Smoothstep(0, SunAngularRadius, angle)
}

// Shade evaluates the sky fragment color for a view direction. The direction
// is normalized first; a zero-length direction is left unchanged rather than
// producing NaNs. Output alpha is always 1 (the backdrop is opaque).
//
// Parameters:
//   - dir: the world-space view direction (need not be normalized)
//
// Returns:
//   - [4]float32: the RGBA fragment color
func Shade(dir [3]float32) [4]float32 {
	d := common.Normalize3(dir)
	height := d[1]

	var rgb [3]float32
	if height > 0 {
		t := common.Saturate(1 - math32.Pow(1-height, 1/SkyCurve))
		rgb = lerp3(HorizonColor, ZenithColor, t)
	} else {
		t := common.Saturate(1 - math32.Pow(1+height, 1/GroundCurve))
		rgb = lerp3(HorizonColor, GroundColor, t)
	}
	for i := range rgb {
		rgb[i] *= Brightness
	}

	rgb = lerp3(rgb, SunColor, SunDiskIntensity(d)*SunBlendStrength)

	return [4]float32{rgb[0], rgb[1], rgb[2], 1}
}

// lerp3 linearly interpolates between two RGB colors.
func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		common.Lerp(a[0], b[0], t),
		common.Lerp(a[1], b[1], t),
		common.Lerp(a[2], b[2], t),
	}
}
