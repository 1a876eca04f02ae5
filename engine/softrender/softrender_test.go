package softrender

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage3d/vantage/common"
	"github.com/vantage3d/vantage/engine/grid"
	"github.com/vantage3d/vantage/engine/sky"
)

// testUniforms builds a matched sky/grid uniform pair for a perspective camera
// hovering above the grid, looking down its forward axis.
func testUniforms(t *testing.T, eyeX, eyeY, eyeZ float32) (sky.GPUSkyUniform, grid.GPUGridUniform) {
	t.Helper()

	var view, proj, projInv, viewProj [16]float32
	common.LookAt(view[:], eyeX, eyeY, eyeZ, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], float32(math.Pi/4), 1, 0.1, 500)
	require.True(t, common.Invert4(projInv[:], proj[:]))
	common.Mul4(viewProj[:], proj[:], view[:])

	su := sky.GPUSkyUniform{Proj: proj, ProjInv: projInv, View: view}
	su.CamPos = [4]float32{eyeX, eyeY, eyeZ, 1}

	gu := grid.GPUGridUniform{
		ViewProj:       viewProj,
		CameraWorldPos: [3]float32{eyeX, eyeY, eyeZ},
		GridSize:       100,
		GridMinPixels:  2,
		GridCellSize:   0.025,
	}
	return su, gu
}

func TestNewRasterizerPanicsOnBadDimensions(t *testing.T) {
	assert.Panics(t, func() { NewRasterizer(0, 64) })
	assert.Panics(t, func() { NewRasterizer(64, -1) })
}

func TestRenderDimensions(t *testing.T) {
	r := NewRasterizer(32, 24, WithWorkers(2))
	assert.Equal(t, 32, r.Width())
	assert.Equal(t, 24, r.Height())

	su, gu := testUniforms(t, 0, 5, 10)
	img, err := r.Render(su, gu)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
}

func TestRenderRejectsInvalidGridUniform(t *testing.T) {
	r := NewRasterizer(8, 8)
	su, gu := testUniforms(t, 0, 5, 10)
	gu.GridCellSize = 0

	_, err := r.Render(su, gu)
	assert.ErrorContains(t, err, "cell size")
}

func TestRenderRejectsSingularViewProjection(t *testing.T) {
	r := NewRasterizer(8, 8)
	su, _ := testUniforms(t, 0, 5, 10)
	gu := grid.GPUGridUniform{GridSize: 100, GridMinPixels: 2, GridCellSize: 0.025}

	_, err := r.Render(su, gu)
	assert.ErrorContains(t, err, "singular")
}

func TestRenderOpaqueOutput(t *testing.T) {
	r := NewRasterizer(16, 16)
	su, gu := testUniforms(t, 0, 3, 8)
	img, err := r.Render(su, gu)
	require.NoError(t, err)

	// The sky pass covers every pixel, so the composite is fully opaque.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, uint8(255), img.RGBAAt(x, y).A, "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderSkyAboveHorizon(t *testing.T) {
	// Camera looking horizontally: the top rows see upward directions with no
	// possible ground intersection, so they must shade as pure sky.
	var view, proj, projInv, viewProj [16]float32
	common.LookAt(view[:], 0, 2, 10, 0, 2, 0, 0, 1, 0)
	common.Perspective(proj[:], float32(math.Pi/4), 1, 0.1, 500)
	require.True(t, common.Invert4(projInv[:], proj[:]))
	common.Mul4(viewProj[:], proj[:], view[:])

	su := sky.GPUSkyUniform{Proj: proj, ProjInv: projInv, View: view}
	su.CamPos = [4]float32{0, 2, 10, 1}
	gu := grid.GPUGridUniform{
		ViewProj:       viewProj,
		CameraWorldPos: [3]float32{0, 2, 10},
		GridSize:       100,
		GridMinPixels:  2,
		GridCellSize:   0.025,
	}

	const size = 33
	r := NewRasterizer(size, size)
	img, err := r.Render(su, gu)
	require.NoError(t, err)

	// Top center pixel looks above the horizon: compare against the analytic
	// sky color for that pixel's view direction.
	ndcX := (float32(size/2)+0.5)/float32(size)*2 - 1
	ndcY := 1 - 0.5/float32(size)*2
	want := sky.Shade(sky.Direction(&su, ndcX, ndcY))

	got := img.RGBAAt(size/2, 0)
	assert.InDelta(t, float64(want[0]*255), float64(got.R), 1.5)
	assert.InDelta(t, float64(want[1]*255), float64(got.G), 1.5)
	assert.InDelta(t, float64(want[2]*255), float64(got.B), 1.5)
}

func TestRenderGridVisibleBelowHorizon(t *testing.T) {
	// Looking straight down from above the origin, the center of the image
	// lands on the world axes, so grid color must differ from the bare sky.
	var view, proj, projInv, viewProj [16]float32
	common.LookAt(view[:], 0.001, 5, 0, 0, 0, 0, 0, 0, -1)
	common.Perspective(proj[:], float32(math.Pi/4), 1, 0.1, 500)
	require.True(t, common.Invert4(projInv[:], proj[:]))
	common.Mul4(viewProj[:], proj[:], view[:])

	su := sky.GPUSkyUniform{Proj: proj, ProjInv: projInv, View: view}
	su.CamPos = [4]float32{0.001, 5, 0, 1}
	gu := grid.GPUGridUniform{
		ViewProj:       viewProj,
		CameraWorldPos: [3]float32{0.001, 5, 0},
		GridSize:       100,
		GridMinPixels:  2,
		GridCellSize:   0.025,
	}

	const size = 65
	r := NewRasterizer(size, size)
	img, err := r.Render(su, gu)
	require.NoError(t, err)

	// The nadir sky color is the pure ground gradient; the center pixel sits
	// on the axis bands, which pull it far away from that color.
	groundSky := sky.Shade([3]float32{0, -1, 0})
	center := img.RGBAAt(size/2, size/2)
	diff := math.Abs(float64(center.R)-float64(groundSky[0]*255)) +
		math.Abs(float64(center.G)-float64(groundSky[1]*255)) +
		math.Abs(float64(center.B)-float64(groundSky[2]*255))
	assert.Greater(t, diff, 20.0, "grid lines and axis bands must show over the ground gradient")
}

func TestRenderDeterministicAcrossWorkerCounts(t *testing.T) {
	su, gu := testUniforms(t, 3, 4, 9)

	one, err := NewRasterizer(24, 24, WithWorkers(1)).Render(su, gu)
	require.NoError(t, err)
	four, err := NewRasterizer(24, 24, WithWorkers(4)).Render(su, gu)
	require.NoError(t, err)

	assert.Equal(t, one.Pix, four.Pix, "banding must not change the image")
}
