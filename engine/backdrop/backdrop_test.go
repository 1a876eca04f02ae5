package backdrop

import (
	"math"
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage3d/vantage/common"
	"github.com/vantage3d/vantage/engine/camera"
	"github.com/vantage3d/vantage/engine/renderer/shader"
)

func testCamera(t *testing.T) camera.Camera {
	t.Helper()
	return camera.NewCamera(
		camera.WithFov(float32(45.0*math.Pi/180.0)),
		camera.WithViewport(1280, 720),
		camera.WithNear(0.1),
		camera.WithFar(500),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(12),
			camera.WithTarget(1, 0, -2),
			camera.WithElevation(0.5),
			camera.WithAzimuth(0.3),
		)),
	)
}

func testBackdrop() *backdrop {
	return &backdrop{
		mu:            &sync.RWMutex{},
		gridSize:      100,
		gridMinPixels: 2,
		gridCellSize:  0.025,
	}
}

func TestPackSkyUniformMatchesCamera(t *testing.T) {
	cam := testCamera(t)
	cam.Update()

	u := packSkyUniform(cam)
	assert.Equal(t, cam.ProjectionMatrix(), u.Proj)
	assert.Equal(t, cam.InverseProjectionMatrix(), u.ProjInv)
	assert.Equal(t, cam.ViewMatrix(), u.View)

	x, y, z := cam.Position()
	assert.Equal(t, [4]float32{x, y, z, 1}, u.CamPos)
}

func TestPackSkyUniformInverseIsCurrent(t *testing.T) {
	cam := testCamera(t)
	cam.Update()
	u := packSkyUniform(cam)

	// ProjInv must actually invert Proj from the same frame.
	var prod [16]float32
	common.Mul4(prod[:], u.Proj[:], u.ProjInv[:])
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, prod[i], 1e-4, "element %d", i)
	}

	// A viewport change must refresh both together.
	cam.SetViewport(640, 480)
	u2 := packSkyUniform(cam)
	assert.NotEqual(t, u.Proj, u2.Proj)
	common.Mul4(prod[:], u2.Proj[:], u2.ProjInv[:])
	assert.InDelta(t, 1, prod[0], 1e-4)
}

func TestPackGridUniformPerspective(t *testing.T) {
	cam := testCamera(t)
	cam.SetOrthographicScale(5) // must stay inert in perspective mode
	cam.Update()

	u := packGridUniform(cam, 100, 2, 0.025)
	require.NoError(t, u.Validate())

	assert.Equal(t, cam.ViewProjectionMatrix(), u.ViewProj)
	assert.Equal(t, float32(100), u.GridSize)
	assert.Equal(t, float32(2), u.GridMinPixels)
	assert.Equal(t, float32(0.025), u.GridCellSize)
	assert.Equal(t, float32(0), u.IsOrthographic)
	assert.Equal(t, float32(0), u.OrthographicScale)

	x, y, z := cam.Position()
	assert.Equal(t, [3]float32{x, y, z}, u.CameraWorldPos)
}

func TestPackGridUniformOrthographic(t *testing.T) {
	cam := testCamera(t)
	cam.SetProjection(camera.ProjectionOrthographic)
	cam.SetOrthographicScale(0.05)
	cam.Update()

	u := packGridUniform(cam, 100, 2, 0.025)
	assert.Equal(t, float32(1), u.IsOrthographic)
	assert.Equal(t, float32(0.05), u.OrthographicScale)
}

func TestTunableSetters(t *testing.T) {
	b := testBackdrop()

	require.NoError(t, b.SetGridSize(50))
	assert.Equal(t, float32(50), b.GridSize())
	assert.ErrorContains(t, b.SetGridSize(0), "grid size")
	assert.Equal(t, float32(50), b.GridSize(), "rejected values leave state untouched")

	require.NoError(t, b.SetGridMinPixels(4))
	assert.Equal(t, float32(4), b.GridMinPixels())
	assert.ErrorContains(t, b.SetGridMinPixels(-2), "minimum pixel spacing")

	require.NoError(t, b.SetGridCellSize(0.1))
	assert.Equal(t, float32(0.1), b.GridCellSize())
	assert.ErrorContains(t, b.SetGridCellSize(0), "cell size")
}

func TestUniformLayoutMergesFragmentVisibility(t *testing.T) {
	vs := shader.NewShader("backdrop_test_sky_vs", shader.ShaderTypeVertex, "../sky/assets/sky.wgsl")

	desc := uniformLayout(vs)
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.NotZero(t, entry.Visibility&wgpu.ShaderStageVertex)
	assert.NotZero(t, entry.Visibility&wgpu.ShaderStageFragment)

	// The source descriptor must not be mutated in place.
	orig := vs.BindGroupLayoutDescriptor(0)
	require.Len(t, orig.Entries, 1)
	assert.Zero(t, orig.Entries[0].Visibility&wgpu.ShaderStageFragment)
}
