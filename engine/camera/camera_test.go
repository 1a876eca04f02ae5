package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage3d/vantage/common"
)

func orbitCamera(options ...CameraBuilderOption) Camera {
	base := []CameraBuilderOption{
		WithViewport(1280, 720),
		WithController(NewCameraController(
			WithRadius(10),
			WithTarget(0, 0, 0),
			WithElevation(0.5),
			WithAzimuth(0.25),
		)),
	}
	return NewCamera(append(base, options...)...)
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, ProjectionPerspective, c.Projection())
	assert.InDelta(t, 45.0*math.Pi/180.0, float64(c.Fov()), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(1000), c.Far())

	// Without a controller the matrices stay at identity and position at origin.
	x, y, z := c.Position()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, z)
}

func TestControllerSphericalPosition(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(10),
		WithTarget(0, 0, 0),
		WithElevation(0),
		WithAzimuth(0),
	)
	// Elevation clamps to the bounds in the builder as well as the setters,
	// so a zero request rests at the floor just above the horizontal plane.
	floor := float64(ctrl.MinElevation())
	ceil := float64(ctrl.MaxElevation())
	x, y, z := ctrl.Position()
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 10*math.Sin(floor), y, 1e-4)
	assert.InDelta(t, 10*math.Cos(floor), z, 1e-4)

	ctrl.SetElevation(float32(math.Pi / 2))
	x, y, z = ctrl.Position()
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 10*math.Sin(ceil), y, 1e-4)
	assert.InDelta(t, 10*math.Cos(ceil), z, 1e-4)

	ctrl.SetElevation(0)
	ctrl.SetAzimuth(float32(math.Pi / 2))
	x, y, z = ctrl.Position()
	assert.InDelta(t, 10*math.Cos(floor), x, 1e-4)
	assert.InDelta(t, 0, z, 1e-4)
}

func TestControllerTargetOffsetsPosition(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(5),
		WithTarget(100, 20, -30),
		WithElevation(0),
		WithAzimuth(0),
	)
	floor := float64(ctrl.MinElevation())
	x, y, z := ctrl.Position()
	assert.InDelta(t, 100, x, 1e-4)
	assert.InDelta(t, 20+5*math.Sin(floor), y, 1e-4)
	assert.InDelta(t, -30+5*math.Cos(floor), z, 1e-4)
}

func TestControllerZoomRespectsBounds(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(10),
		WithRadiusBounds(2, 20),
		WithZoomSpeed(1),
	)
	ctrl.Zoom(5)
	assert.InDelta(t, 5, ctrl.Radius(), 1e-5)
	ctrl.Zoom(100)
	assert.Equal(t, float32(2), ctrl.Radius(), "clamped to the minimum radius")
	ctrl.Zoom(-100)
	assert.Equal(t, float32(20), ctrl.Radius(), "clamped to the maximum radius")
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := orbitCamera()
	c.Update()

	view := c.ViewMatrix()
	v := common.TransformVec4(view[:], [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, v[0], 1e-4, "target centered horizontally")
	assert.InDelta(t, 0, v[1], 1e-4, "target centered vertically")
	assert.InDelta(t, -10, v[2], 1e-3, "target one radius down the view axis")
}

func TestProjectionSwitching(t *testing.T) {
	c := orbitCamera()
	c.Update()
	persp := c.ProjectionMatrix()

	c.SetProjection(ProjectionOrthographic)
	assert.Equal(t, ProjectionOrthographic, c.Projection())
	ortho := c.ProjectionMatrix()
	assert.NotEqual(t, persp, ortho)

	// Orthographic projections have no w-divide: the last row is (0,0,0,1).
	assert.Equal(t, float32(0), ortho[3])
	assert.Equal(t, float32(0), ortho[7])
	assert.Equal(t, float32(0), ortho[11])
	assert.Equal(t, float32(1), ortho[15])

	// Perspective keeps -1 in the w row for the divide.
	assert.Equal(t, float32(-1), persp[11])

	c.SetProjection(ProjectionPerspective)
	assert.Equal(t, persp, c.ProjectionMatrix())
}

func TestOrthographicScaleGating(t *testing.T) {
	c := orbitCamera()
	assert.Equal(t, float32(0), c.OrthographicScale(), "zero while perspective")

	c.SetProjection(ProjectionOrthographic)
	c.SetOrthographicScale(0.05)
	assert.Equal(t, float32(0.05), c.OrthographicScale())

	c.SetProjection(ProjectionPerspective)
	assert.Equal(t, float32(0), c.OrthographicScale(), "gated again after switching back")
}

func TestOrthographicScaleSizesViewVolume(t *testing.T) {
	c := NewCamera(
		WithViewport(1000, 500),
		WithProjection(ProjectionOrthographic),
		WithOrthographicScale(0.02),
		WithController(NewCameraController(WithRadius(10))),
	)
	c.Update()

	// 0.02 world units per pixel over a 500-pixel-high viewport gives a
	// 10-unit-tall view volume: a view-space point 5 above center maps to y=1.
	p := c.ProjectionMatrix()
	clip := common.TransformVec4(p[:], [4]float32{0, 5, -1, 1})
	assert.InDelta(t, 1, clip[1], 1e-4)

	// Aspect 2:1 doubles the horizontal extent.
	clip = common.TransformVec4(p[:], [4]float32{10, 0, -1, 1})
	assert.InDelta(t, 1, clip[0], 1e-4)
}

func TestInverseProjectionTracksProjection(t *testing.T) {
	c := orbitCamera()
	c.Update()

	check := func() {
		p := c.ProjectionMatrix()
		inv := c.InverseProjectionMatrix()
		var prod [16]float32
		common.Mul4(prod[:], p[:], inv[:])
		for i := range 16 {
			want := float32(0)
			if i%5 == 0 {
				want = 1
			}
			assert.InDelta(t, want, prod[i], 1e-4, "element %d", i)
		}
	}

	check()
	c.SetViewport(800, 600)
	check()
	c.SetProjection(ProjectionOrthographic)
	check()
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := orbitCamera()
	c.Update()

	p := c.ProjectionMatrix()
	v := c.ViewMatrix()
	vp := c.ViewProjectionMatrix()

	var want [16]float32
	common.Mul4(want[:], p[:], v[:])
	for i := range 16 {
		assert.InDelta(t, want[i], vp[i], 1e-5, "element %d", i)
	}
}

func TestSetViewportIgnoresDegenerateSizes(t *testing.T) {
	c := orbitCamera()
	c.Update()
	before := c.ProjectionMatrix()

	c.SetViewport(0, 720)
	assert.Equal(t, before, c.ProjectionMatrix())
	c.SetViewport(1280, -1)
	assert.Equal(t, before, c.ProjectionMatrix())
}

func TestPanMovesTargetNotOrbit(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(10),
		WithTarget(0, 0, 0),
		WithElevation(0),
		WithAzimuth(0),
		WithPanSpeed(1),
	)
	require.InDelta(t, 10, ctrl.Radius(), 1e-6)

	ctrl.PanRight(1)
	tx, _, _ := ctrl.Target()
	assert.NotZero(t, tx, "panning shifts the pivot")
	assert.InDelta(t, 10, ctrl.Radius(), 1e-5, "panning preserves the orbit radius")
}
