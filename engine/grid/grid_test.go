package grid

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage3d/vantage/common"
)

func defaultUniform() *GPUGridUniform {
	u := &GPUGridUniform{
		GridSize:      DefaultGridSize,
		GridMinPixels: DefaultGridMinPixels,
		GridCellSize:  DefaultGridCellSize,
	}
	common.Identity(u.ViewProj[:])
	return u
}

func TestQuadScalePerspective(t *testing.T) {
	u := defaultUniform()
	assert.Equal(t, DefaultGridSize, QuadScale(u))
}

func TestQuadScaleOrthographic(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	// Small world-units-per-pixel scales hit the multiplier floor.
	u.OrthographicScale = 0.05
	assert.Equal(t, DefaultGridSize*OrthoScaleFloor, QuadScale(u))

	// Above the floor the quad grows linearly with the zoom-out.
	u.OrthographicScale = 0.5
	assert.Equal(t, DefaultGridSize*0.5*OrthoScaleMultiplier, QuadScale(u))
}

func TestWorldPositionFollowsCamera(t *testing.T) {
	u := defaultUniform()
	u.CameraWorldPos = [3]float32{123, 5, -42}

	w := WorldPosition(u, 0)
	assert.Equal(t, float32(-QuadHalfExtent*DefaultGridSize+123), w[0])
	assert.Equal(t, float32(0), w[1], "quad stays on the ground plane")
	assert.Equal(t, float32(-QuadHalfExtent*DefaultGridSize-42), w[2])

	// Camera height never lifts the quad.
	u.CameraWorldPos[1] = 500
	assert.Equal(t, float32(0), WorldPosition(u, 2)[1])
}

func TestWorldPositionCoversAllVertices(t *testing.T) {
	u := defaultUniform()
	ext := QuadScale(u) * QuadHalfExtent
	seen := map[[2]float32]bool{}
	for i := range VertexCount {
		w := WorldPosition(u, i)
		assert.Equal(t, ext, math32.Abs(w[0]), "vertex %d x", i)
		assert.Equal(t, ext, math32.Abs(w[2]), "vertex %d z", i)
		seen[[2]float32{w[0], w[2]}] = true
	}
	assert.Len(t, seen, 4, "six vertices fold into four distinct corners")
}

func TestClipPositionOrthographicDepthClamp(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1
	u.OrthographicScale = 0.05

	// Identity view-projection passes world z straight through as clip z with
	// w = 1, so the far corners land well outside [0, w] before clamping.
	for i := range VertexCount {
		clip := ClipPosition(u, i)
		assert.GreaterOrEqual(t, clip[2], float32(0), "vertex %d", i)
		assert.LessOrEqual(t, clip[2], clip[3], "vertex %d", i)
	}
}

func TestClipPositionPerspectiveUnclamped(t *testing.T) {
	u := defaultUniform()
	// With an identity matrix vertex 0 has world z = -1000, which must survive
	// untouched in perspective mode.
	clip := ClipPosition(u, 0)
	assert.Equal(t, float32(-QuadHalfExtent*DefaultGridSize), clip[2])
}

func TestLODTiers(t *testing.T) {
	u := defaultUniform()

	// lod = log10(l * GridMinPixels / GridCellSize) + 1 = log10(80 l) + 1
	assert.InDelta(t, 1, LOD(u, 0.0125, 0), 1e-5)
	assert.InDelta(t, 2, LOD(u, 0.125, 0), 1e-5)
	assert.InDelta(t, 3, LOD(u, 1.25, 0), 1e-4)

	// The footprint length combines both axes.
	l := common.Length2(0.1, 0.2)
	assert.InDelta(t, math32.Log10(l*80)+1, LOD(u, 0.1, 0.2), 1e-5)
}

func TestLODClampsToZero(t *testing.T) {
	u := defaultUniform()
	assert.Equal(t, float32(0), LOD(u, 0, 0), "zero footprint")
	assert.Equal(t, float32(0), LOD(u, 1e-5, 0), "footprint below the first tier")
}

func TestLODOrthographicScaleBoost(t *testing.T) {
	u := defaultUniform()
	base := LOD(u, 0.0125, 0)

	// Scales above 1 coarsen the LOD by their log10.
	u.OrthographicScale = 10
	assert.InDelta(t, base+1, LOD(u, 0.0125, 0), 1e-5)

	// Scales at or below 1 leave the footprint alone.
	u.OrthographicScale = 0.5
	assert.InDelta(t, base, LOD(u, 0.0125, 0), 1e-6)
}

func TestLineCoverageBand(t *testing.T) {
	const cell = float32(1)
	const aa = float32(0.1)

	// Coverage peaks half an AA band past the cell boundary and vanishes at
	// the boundary itself and beyond the band.
	assert.InDelta(t, 0, LineCoverage(0, 0.5, aa, aa, cell), 1e-6)
	assert.InDelta(t, 1, LineCoverage(aa/2, 0.5, aa, aa, cell), 1e-6)
	assert.InDelta(t, 0.5, LineCoverage(aa/4, 0.5, aa, aa, cell), 1e-6)
	assert.InDelta(t, 0, LineCoverage(2*aa, 0.5, aa, aa, cell), 1e-6)
}

func TestLineCoverageAxesCombineByMax(t *testing.T) {
	const cell = float32(1)
	const aa = float32(0.1)

	x := LineCoverage(aa/2, 0.5, aa, aa, cell)
	z := LineCoverage(0.5, aa/2, aa, aa, cell)
	both := LineCoverage(aa/2, aa/2, aa, aa, cell)
	assert.Equal(t, x, z)
	assert.Equal(t, x, both, "overlap takes the max, not the sum")
}

func TestLineCoverageRepeatsEveryCell(t *testing.T) {
	const cell = float32(0.025)
	const aa = float32(0.002)
	a := LineCoverage(aa/2, 0.3, aa, aa, cell)
	b := LineCoverage(40*cell+aa/2, 0.3, aa, aa, cell)
	assert.InDelta(t, a, b, 1e-3)
}

func TestLineCoverageZeroFootprint(t *testing.T) {
	// The degenerate zero-width band keeps exact boundary hits visible instead
	// of dividing by zero.
	assert.Equal(t, float32(1), LineCoverage(0, 0.5, 0, 0, 1))
	assert.Equal(t, float32(0), LineCoverage(0.3, 0.5, 0, 0, 1))
}

func TestFragmentThickTier(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	// (10.004, 0.5) with an 0.008 AA band sits exactly mid-band past a
	// coarse-tier line at x = 10 (cell 2.5), so coverage is 1.
	c, ok := Fragment(u, 10.004, 0.5, 0.001, 0.001)
	require.True(t, ok)
	assert.InDelta(t, ThickColor[0], c[0], 1e-6)
	assert.InDelta(t, ThickColor[1], c[1], 1e-6)
	assert.InDelta(t, ThickColor[2], c[2], 1e-6)
	assert.InDelta(t, ThickColor[3]*ThickAlphaScale, c[3], 1e-2)
}

func TestFragmentMidTierCrossFade(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	// A 0.04 world-unit footprint lands the LOD between tiers with its
	// fractional part well inside the cross-fade window; the mid tier cell is
	// 2.5 with an 0.32 AA band.
	const d = float32(0.04)
	lod := LOD(u, d, d)
	require.Equal(t, float32(1), math32.Floor(lod))
	fract := lod - 1
	require.Greater(t, fract, CrossFadeStart)
	require.Less(t, fract, CrossFadeEnd)

	// x = 2.66 sits mid-band past the 2.5 line (coverage 1) and far from any
	// 25-unit coarse line; z = 1.25 is mid-cell and off the axis bands.
	c, ok := Fragment(u, 2.66, 1.25, d, d)
	require.True(t, ok)

	blend := common.Smoothstep(CrossFadeStart, CrossFadeEnd, fract)
	assert.InDelta(t, common.Lerp(ThickColor[0], ThinColor[0], blend), c[0], 1e-5)
	assert.InDelta(t, common.Lerp(ThickColor[1], ThinColor[1], blend), c[1], 1e-5)
	assert.InDelta(t, common.Lerp(ThickColor[2], ThinColor[2], blend), c[2], 1e-5)
	assert.InDelta(t, common.Lerp(ThickColor[3], ThinColor[3], blend)*MidAlphaScale, c[3], 1e-4)

	// The blend sits strictly between the two tier colors.
	assert.Greater(t, c[0], ThickColor[0])
	assert.Less(t, c[0], ThinColor[0])
}

func TestFragmentDiscardBetweenLines(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	// Mid-cell on both axes, far from the world axes: nothing contributes.
	_, ok := Fragment(u, 3.71, 2.61, 0.001, 0.001)
	assert.False(t, ok)
}

func TestFragmentPerspectiveDistanceFade(t *testing.T) {
	u := defaultUniform()
	u.GridSize = 1

	// The same mid-band line point is visible near the camera and fully faded
	// past FadeEndFactor * GridSize.
	_, okNear := Fragment(u, 0.504, 0.3, 0.001, 0.001)
	assert.True(t, okNear)

	u.CameraWorldPos = [3]float32{0, 0, 0}
	_, okFar := Fragment(u, 10.004, 0.3, 0.001, 0.001)
	assert.False(t, okFar, "beyond the fade window every fragment is discarded")
}

func TestFragmentOrthographicSkipsDistanceFade(t *testing.T) {
	u := defaultUniform()
	u.GridSize = 1
	u.IsOrthographic = 1

	_, ok := Fragment(u, 10.004, 0.3, 0.001, 0.001)
	assert.True(t, ok, "parallel projections keep distant lines")
}

func TestFragmentAxisBands(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	// (3.71, 0): all line tiers miss, so the base color is the thin color at
	// zero alpha; the X axis band then blends in at half strength.
	c, ok := Fragment(u, 3.71, 0, 0.001, 0.001)
	require.True(t, ok)
	wantX := mix4([4]float32{ThinColor[0], ThinColor[1], ThinColor[2], 0}, XAxisColor, AxisBlend)
	for i := range 4 {
		assert.InDelta(t, wantX[i], c[i], 1e-3, "x axis channel %d", i)
	}

	// (0, 3.71): same but for the Z axis band.
	c, ok = Fragment(u, 0, 3.71, 0.001, 0.001)
	require.True(t, ok)
	wantZ := mix4([4]float32{ThinColor[0], ThinColor[1], ThinColor[2], 0}, ZAxisColor, AxisBlend)
	for i := range 4 {
		assert.InDelta(t, wantZ[i], c[i], 1e-3, "z axis channel %d", i)
	}
}

func TestFragmentOriginBlendsBothAxes(t *testing.T) {
	u := defaultUniform()
	u.IsOrthographic = 1

	c, ok := Fragment(u, 0.011, 0.011, 0.0001, 0.0001)
	require.True(t, ok)

	// Inside both bands the X accent applies first, then the Z accent over it.
	_, okSingle := Fragment(u, 0.011, 0.5, 0.0001, 0.0001)
	require.True(t, okSingle)
	assert.Greater(t, c[3], float32(DiscardThreshold))
}

func TestValidate(t *testing.T) {
	u := defaultUniform()
	assert.NoError(t, u.Validate())

	bad := *u
	bad.GridSize = 0
	assert.ErrorContains(t, bad.Validate(), "grid size")

	bad = *u
	bad.GridMinPixels = -1
	assert.ErrorContains(t, bad.Validate(), "minimum pixel spacing")

	bad = *u
	bad.GridCellSize = 0
	assert.ErrorContains(t, bad.Validate(), "cell size")
}

func TestGPUGridUniformSizeAndLayout(t *testing.T) {
	u := defaultUniform()
	assert.Equal(t, 96, u.Size())

	u.ViewProj[0] = 2.5
	u.CameraWorldPos = [3]float32{1, 2, 3}
	u.OrthographicScale = 0.25
	u.IsOrthographic = 1

	buf := u.Marshal()
	require.Len(t, buf, 96)
	assert.Equal(t, float32(2.5), float32FromLE(buf[0:]))
	assert.Equal(t, float32(1), float32FromLE(buf[64:]))
	assert.Equal(t, float32(3), float32FromLE(buf[72:]))
	assert.Equal(t, DefaultGridSize, float32FromLE(buf[76:]))
	assert.Equal(t, DefaultGridMinPixels, float32FromLE(buf[80:]))
	assert.Equal(t, DefaultGridCellSize, float32FromLE(buf[84:]))
	assert.Equal(t, float32(0.25), float32FromLE(buf[88:]))
	assert.Equal(t, float32(1), float32FromLE(buf[92:]))
}

func float32FromLE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math32.Float32frombits(bits)
}
