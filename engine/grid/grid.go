// Package grid implements the camera-following LOD ground grid pass: three
// tiers of analytically anti-aliased power-of-ten cell lines on the world
// ground plane, with axis accent bands and a perspective distance fade. The
// quad geometry is synthesized from the built-in vertex index with no vertex
// buffer. The package holds the pass's GPU uniform type, its tuning
// parameters, and a CPU evaluation of the same math the WGSL shader runs,
// used by the software renderer and by tests.
package grid

import (
	"github.com/chewxy/math32"

	"github.com/vantage3d/vantage/common"
)

// VertexCount is the number of vertices the pass draws: two triangles forming
// the ground quad, synthesized from the built-in vertex index.
const VertexCount = 6

// quadPositions is the local-space position lookup table for the ground quad,
// indexed by vertex ordinal. The ordinal-to-position mapping fixes the winding
// order; the quad is drawn without culling so it is visible from below.
var quadPositions = [VertexCount][3]float32{
	{-QuadHalfExtent, 0, -QuadHalfExtent},
	{QuadHalfExtent, 0, -QuadHalfExtent},
	{QuadHalfExtent, 0, QuadHalfExtent},
	{-QuadHalfExtent, 0, -QuadHalfExtent},
	{QuadHalfExtent, 0, QuadHalfExtent},
	{-QuadHalfExtent, 0, QuadHalfExtent},
}

// QuadScale returns the world-space scale applied to the quad's local
// positions. Perspective mode uses GridSize directly; orthographic mode
// inflates the quad proportionally to how zoomed out the parallel view is,
// since a fixed-size quad would otherwise not cover the visible area.
//
// Parameters:
//   - u: the grid uniform
//
// Returns:
//   - float32: the quad scale in world units per local unit
func QuadScale(u *GPUGridUniform) float32 {
	if u.IsOrthographic != 0 {
		m := u.OrthographicScale * OrthoScaleMultiplier
		if m < OrthoScaleFloor {
			m = OrthoScaleFloor
		}
		return u.GridSize * m
	}
	return u.GridSize
}

// WorldPosition returns the world-space position of a quad vertex: the local
// position scaled by QuadScale and recentered on the camera's ground-plane
// position, so the quad follows the camera each frame.
//
// Parameters:
//   - u: the grid uniform
//   - index: the vertex ordinal, 0..5
//
// Returns:
//   - [3]float32: the world-space vertex position (y is always 0)
func WorldPosition(u *GPUGridUniform, index int) [3]float32 {
	p := quadPositions[index]
	s := QuadScale(u)
	return [3]float32{
		p[0]*s + u.CameraWorldPos[0],
		0,
		p[2]*s + u.CameraWorldPos[2],
	}
}

// ClipPosition returns the clip-space position of a quad vertex. In
// orthographic mode clip z is clamped to [0, w] so the quad is not lost to
// near/far-plane clipping under parallel depth ranges.
//
// Parameters:
//   - u: the grid uniform
//   - index: the vertex ordinal, 0..5
//
// Returns:
//   - [4]float32: the clip-space vertex position
func ClipPosition(u *GPUGridUniform, index int) [4]float32 {
	w := WorldPosition(u, index)
	clip := common.TransformVec4(u.ViewProj[:], [4]float32{w[0], w[1], w[2], 1})
	if u.IsOrthographic != 0 {
		if clip[2] < 0 {
			clip[2] = 0
		}
		if clip[2] > clip[3] {
			clip[2] = clip[3]
		}
	}
	return clip
}

// LOD computes the fractional level-of-detail for a per-pixel world footprint:
// the power-of-ten tier that keeps on-screen line spacing at or above
// GridMinPixels. The integer part selects the base cell size; the fractional
// part drives the cross-fade toward the next tier.
//
// Parameters:
//   - u: the grid uniform
//   - dudvX, dudvY: the world-units-per-pixel footprint on each ground axis
//
// Returns:
//   - float32: the fractional LOD, clamped to be non-negative
func LOD(u *GPUGridUniform, dudvX, dudvY float32) float32 {
	l := common.Length2(dudvX, dudvY)
	effectiveScale := l
	if u.OrthographicScale > 1 {
		effectiveScale *= u.OrthographicScale
	}
	lod := math32.Log10(effectiveScale*u.GridMinPixels/u.GridCellSize) + 1
	if lod < 0 || math32.IsNaN(lod) {
		return 0
	}
	return lod
}

// LineCoverage computes the anti-aliased line coverage for one cell size at a
// ground-plane point: distance to the nearest cell boundary on each axis,
// normalized by the AA band width, folded into a [0,1] mask that peaks on the
// line and fades out within the band; the two axes combine by max. With a zero
// AA band width the mask degenerates to an exact boundary test.
//
// Parameters:
//   - worldX, worldZ: the ground-plane position
//   - aaWidthX, aaWidthY: the AA band width per axis (dudv * AAWidthFactor)
//   - cell: the cell size for this tier (must be positive)
//
// Returns:
//   - float32: the coverage alpha in [0, 1]
func LineCoverage(worldX, worldZ, aaWidthX, aaWidthY, cell float32) float32 {
	cx := axisCoverage(worldX, aaWidthX, cell)
	cz := axisCoverage(worldZ, aaWidthY, cell)
	if cx > cz {
		return cx
	}
	return cz
}

func axisCoverage(world, aaWidth, cell float32) float32 {
	m := common.Mod(world, cell)
	if aaWidth == 0 {
		// Exact boundary test for the zero-footprint limit.
		if m == 0 {
			return 1
		}
		return 0
	}
	return 1 - math32.Abs(common.Saturate(m/aaWidth)*2-1)
}

// Fragment evaluates the grid fragment color at a ground-plane point given the
// per-pixel world footprint. Returns ok=false when the composited alpha falls
// below DiscardThreshold, mirroring the shader's discard.
//
// Parameters:
//   - u: the grid uniform
//   - worldX, worldZ: the ground-plane position
//   - dudvX, dudvY: the world-units-per-pixel footprint on each ground axis
//
// Returns:
//   - [4]float32: the RGBA fragment color (premultiplied by nothing; standard straight alpha)
//   - bool: false when the fragment is discarded
func Fragment(u *GPUGridUniform, worldX, worldZ, dudvX, dudvY float32) ([4]float32, bool) {
	lod := LOD(u, dudvX, dudvY)
	lodFloor := math32.Floor(lod)
	lodFract := lod - lodFloor

	lod0 := u.GridCellSize * math32.Pow(10, lodFloor)
	lod1 := lod0 * 10
	lod2 := lod1 * 10

	aaX := dudvX * AAWidthFactor
	aaY := dudvY * AAWidthFactor

	lod0a := LineCoverage(worldX, worldZ, aaX, aaY, lod0)
	lod1a := LineCoverage(worldX, worldZ, aaX, aaY, lod1)
	lod2a := LineCoverage(worldX, worldZ, aaX, aaY, lod2)

	// Coarser tiers always win over finer ones at the same pixel; the finest
	// tier fades out with the fractional LOD as the camera zooms out.
	var color [4]float32
	switch {
	case lod2a > 0:
		color = ThickColor
		color[3] *= lod2a * ThickAlphaScale
	case lod1a > 0:
		color = mix4(ThickColor, ThinColor, common.Smoothstep(CrossFadeStart, CrossFadeEnd, lodFract))
		color[3] *= lod1a * MidAlphaScale
	default:
		color = ThinColor
		color[3] *= lod0a * (1 - lodFract) * ThinAlphaScale
	}

	if u.IsOrthographic == 0 {
		dist := common.Length2(worldX-u.CameraWorldPos[0], worldZ-u.CameraWorldPos[2])
		color[3] *= 1 - common.Smoothstep(FadeStartFactor*u.GridSize, FadeEndFactor*u.GridSize, dist)
	}

	if math32.Abs(worldZ) < AxisBand {
		color = mix4(color, XAxisColor, AxisBlend)
	}
	if math32.Abs(worldX) < AxisBand {
		color = mix4(color, ZAxisColor, AxisBlend)
	}

	if color[3] < DiscardThreshold {
		return [4]float32{}, false
	}
	return color, true
}

// mix4 linearly interpolates between two RGBA colors.
func mix4(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		common.Lerp(a[0], b[0], t),
		common.Lerp(a[1], b[1], t),
		common.Lerp(a[2], b[2], t),
		common.Lerp(a[3], b[3], t),
	}
}
