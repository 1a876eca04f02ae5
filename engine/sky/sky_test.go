package sky

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage3d/vantage/common"
)

func identityUniform() *GPUSkyUniform {
	u := &GPUSkyUniform{}
	common.Identity(u.Proj[:])
	common.Identity(u.ProjInv[:])
	common.Identity(u.View[:])
	u.CamPos = [4]float32{0, 0, 0, 1}
	return u
}

// sunOffsetDir returns a unit direction exactly angle radians away from the sun.
func sunOffsetDir(angle float32) [3]float32 {
	// (1,0,0) is perpendicular to SunDirection, which has a zero x component.
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return [3]float32{
		s,
		c * SunDirection[1],
		c * SunDirection[2],
	}
}

func TestVertexClipPositions(t *testing.T) {
	assert.Equal(t, [4]float32{-1, -1, 1, 1}, VertexClipPosition(0))
	assert.Equal(t, [4]float32{3, -1, 1, 1}, VertexClipPosition(1))
	assert.Equal(t, [4]float32{-1, 3, 1, 1}, VertexClipPosition(2))
}

func TestTriangleCoversViewport(t *testing.T) {
	// The three vertices must enclose the full [-1,1] NDC square. With
	// vertices at (-1,-1), (3,-1), (-1,3) the hypotenuse is x+y=2, so every
	// corner of the square satisfies x >= -1, y >= -1, x+y <= 2.
	corners := [][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for _, c := range corners {
		assert.GreaterOrEqual(t, c[0], float32(-1))
		assert.GreaterOrEqual(t, c[1], float32(-1))
		assert.LessOrEqual(t, c[0]+c[1], float32(2))
	}
}

func TestDirectionIdentityMatrices(t *testing.T) {
	u := identityUniform()
	d := Direction(u, 0.5, -0.25)
	assert.InDelta(t, 0.5, d[0], 1e-6)
	assert.InDelta(t, -0.25, d[1], 1e-6)
	assert.InDelta(t, 1, d[2], 1e-6)
}

func TestDirectionCenterMatchesCameraForward(t *testing.T) {
	u := &GPUSkyUniform{}
	common.Perspective(u.Proj[:], float32(math.Pi/4), 16.0/9.0, 0.1, 100)
	require.True(t, common.Invert4(u.ProjInv[:], u.Proj[:]))
	// Eye behind the origin on +Z, looking down -Z.
	common.LookAt(u.View[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)

	d := common.Normalize3(Direction(u, 0, 0))
	assert.InDelta(t, 0, d[0], 1e-5)
	assert.InDelta(t, 0, d[1], 1e-5)
	assert.InDelta(t, -1, d[2], 1e-5)
}

func TestDirectionRotatesWithView(t *testing.T) {
	u := &GPUSkyUniform{}
	common.Perspective(u.Proj[:], float32(math.Pi/4), 1, 0.1, 100)
	require.True(t, common.Invert4(u.ProjInv[:], u.Proj[:]))
	// Looking down +X: the clip center must map to world +X.
	common.LookAt(u.View[:], -5, 0, 0, 0, 0, 0, 0, 1, 0)

	d := common.Normalize3(Direction(u, 0, 0))
	assert.InDelta(t, 1, d[0], 1e-5)
	assert.InDelta(t, 0, d[1], 1e-5)
	assert.InDelta(t, 0, d[2], 1e-5)
}

func TestVertexDirectionMatchesDirection(t *testing.T) {
	u := &GPUSkyUniform{}
	common.Perspective(u.Proj[:], float32(math.Pi/3), 1.5, 0.1, 200)
	require.True(t, common.Invert4(u.ProjInv[:], u.Proj[:]))
	common.LookAt(u.View[:], 2, 3, 4, 0, 0, 0, 0, 1, 0)

	for i := range VertexCount {
		want := Direction(u, trianglePositions[i][0], trianglePositions[i][1])
		assert.Equal(t, want, VertexDirection(u, i), "vertex %d", i)
	}
}

func TestShadeHorizonContinuity(t *testing.T) {
	// The two gradient branches share the horizon color, so crossing height
	// zero must not produce a visible seam. Sample away from the sun.
	above := Shade([3]float32{1, 1e-4, 0})
	below := Shade([3]float32{1, -1e-4, 0})
	for i := range 3 {
		assert.InDelta(t, above[i], below[i], 1e-2, "channel %d", i)
	}
}

func TestShadeHorizonColor(t *testing.T) {
	c := Shade([3]float32{0, 0, 1})
	for i := range 3 {
		assert.InDelta(t, HorizonColor[i]*Brightness, c[i], 1e-5, "channel %d", i)
	}
	assert.Equal(t, float32(1), c[3])
}

func TestShadeZenithColor(t *testing.T) {
	c := Shade([3]float32{0, 1, 0})
	for i := range 3 {
		assert.InDelta(t, ZenithColor[i]*Brightness, c[i], 1e-5, "channel %d", i)
	}
}

func TestShadeGroundColor(t *testing.T) {
	c := Shade([3]float32{0, -1, 0})
	for i := range 3 {
		assert.InDelta(t, GroundColor[i]*Brightness, c[i], 1e-5, "channel %d", i)
	}
}

func TestShadeGroundBandHugsHorizon(t *testing.T) {
	// GroundCurve is far smaller than SkyCurve, so the ground gradient reaches
	// its terminal color within a few degrees below the horizon.
	c := Shade([3]float32{1, -0.2, 0})
	for i := range 3 {
		assert.InDelta(t, GroundColor[i]*Brightness, c[i], 1e-2, "channel %d", i)
	}
}

func TestShadeNormalizesInput(t *testing.T) {
	a := Shade([3]float32{0, 10, 0})
	b := Shade([3]float32{0, 1, 0})
	assert.Equal(t, b, a)
}

func TestShadeOpaqueAlpha(t *testing.T) {
	dirs := [][3]float32{{0, 1, 0}, {0, -1, 0}, {1, 0.01, -1}, SunDirection, {0, 0, 0}}
	for _, d := range dirs {
		c := Shade(d)
		assert.Equal(t, float32(1), c[3])
	}
}

func TestSunDiskIntensity(t *testing.T) {
	// The chord form keeps the center exact; acos(dot) would drift to ~0.999.
	assert.Equal(t, float32(1), SunDiskIntensity(SunDirection))
	assert.InDelta(t, 0.5, SunDiskIntensity(sunOffsetDir(SunAngularRadius/2)), 1e-3)
	assert.InDelta(t, 0, SunDiskIntensity(sunOffsetDir(SunAngularRadius)), 1e-5)
	assert.InDelta(t, 0, SunDiskIntensity(sunOffsetDir(0.5)), 1e-6)
	assert.InDelta(t, 0, SunDiskIntensity([3]float32{0, -1, 0}), 1e-6)
}

func TestShadeSunCenterBlend(t *testing.T) {
	// At the disk center the gradient color blends halfway toward the sun color.
	d := SunDirection
	height := d[1]
	tt := common.Saturate(1 - math32.Pow(1-height, 1/SkyCurve))
	grad := lerp3(HorizonColor, ZenithColor, tt)
	for i := range grad {
		grad[i] *= Brightness
	}
	want := lerp3(grad, SunColor, SunBlendStrength)

	c := Shade(d)
	for i := range 3 {
		assert.InDelta(t, want[i], c[i], 1e-4, "channel %d", i)
	}
}

func TestShadeOutsideDiskUnaffectedBySun(t *testing.T) {
	// Two directions at the same height, both beyond the disk edge, must shade
	// identically regardless of their angle to the sun.
	a := Shade([3]float32{1, 0.3, 0})
	b := Shade([3]float32{-1, 0.3, 0})
	for i := range 4 {
		assert.InDelta(t, a[i], b[i], 1e-6, "channel %d", i)
	}
}

func TestGPUSkyUniformSizeAndLayout(t *testing.T) {
	u := &GPUSkyUniform{}
	assert.Equal(t, 208, u.Size())

	u.Proj[0] = 1.5
	u.ProjInv[15] = -2
	u.View[5] = 3
	u.CamPos = [4]float32{7, 8, 9, 1}

	buf := u.Marshal()
	require.Len(t, buf, 208)
	assert.Equal(t, float32(1.5), float32FromLE(buf[0:]))
	assert.Equal(t, float32(-2), float32FromLE(buf[64+15*4:]))
	assert.Equal(t, float32(3), float32FromLE(buf[128+5*4:]))
	assert.Equal(t, float32(7), float32FromLE(buf[192:]))
	assert.Equal(t, float32(1), float32FromLE(buf[204:]))
}

func float32FromLE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math32.Float32frombits(bits)
}
