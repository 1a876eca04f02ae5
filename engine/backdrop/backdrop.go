// Package backdrop composes the sky and ground grid render passes into a single
// camera-driven background layer. It owns the two pipelines, their uniform
// buffers, and the per-frame upload of camera state, so a host only has to call
// Prepare and Draw inside its frame loop.
package backdrop

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/vantage3d/vantage/engine/camera"
	"github.com/vantage3d/vantage/engine/grid"
	"github.com/vantage3d/vantage/engine/renderer"
	"github.com/vantage3d/vantage/engine/renderer/bind_group_provider"
	"github.com/vantage3d/vantage/engine/renderer/pipeline"
	"github.com/vantage3d/vantage/engine/renderer/shader"
	"github.com/vantage3d/vantage/engine/sky"
)

const (
	// SkyPipelineKey is the renderer cache key for the sky gradient pipeline.
	SkyPipelineKey = "backdrop_sky"

	// GridPipelineKey is the renderer cache key for the ground grid pipeline.
	GridPipelineKey = "backdrop_grid"
)

// Backdrop manages the sky gradient and ground grid passes for a camera.
// Both passes are bufferless: their geometry is generated in the vertex shader
// from the vertex index, so each pass carries only a single uniform buffer.
// Thread-safe for concurrent access.
type Backdrop interface {
	// Camera returns the backdrop's camera.
	Camera() camera.Camera

	// SetCamera replaces the backdrop's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the backdrop's renderer.
	Renderer() renderer.Renderer

	// GridSize returns the half-extent scale of the ground quad in world units.
	//
	// Returns:
	//   - float32: the grid size
	GridSize() float32

	// SetGridSize sets the half-extent scale of the ground quad in world units.
	// The value must be strictly positive.
	//
	// Parameters:
	//   - size: the new grid size
	//
	// Returns:
	//   - error: an error if the value is not strictly positive
	SetGridSize(size float32) error

	// GridMinPixels returns the target minimum on-screen line spacing in pixels.
	//
	// Returns:
	//   - float32: the minimum pixel spacing
	GridMinPixels() float32

	// SetGridMinPixels sets the target minimum on-screen line spacing in pixels.
	// The value must be strictly positive; it is a divisor in the LOD computation.
	//
	// Parameters:
	//   - minPixels: the new minimum pixel spacing
	//
	// Returns:
	//   - error: an error if the value is not strictly positive
	SetGridMinPixels(minPixels float32) error

	// GridCellSize returns the world-space size of the finest grid cell.
	//
	// Returns:
	//   - float32: the cell size
	GridCellSize() float32

	// SetGridCellSize sets the world-space size of the finest grid cell.
	// The value must be strictly positive; it is a divisor in the LOD computation.
	//
	// Parameters:
	//   - cellSize: the new cell size
	//
	// Returns:
	//   - error: an error if the value is not strictly positive
	SetGridCellSize(cellSize float32) error

	// Prepare updates the camera matrices, packs the sky and grid uniforms from
	// the camera's current state, and uploads both to the GPU in a single
	// coalesced write. Must be called once per frame before Draw.
	Prepare()

	// Draw encodes the sky and grid draw calls, in that order, within the
	// current render pass. Must be called between BeginFrame and EndFrame on the
	// renderer. The sky draws first with depth testing disabled so the grid and
	// any later passes composite over it.
	//
	// Returns:
	//   - error: an error if either pipeline is missing from the renderer cache
	Draw() error

	// SkyBindGroupProvider returns the bind group provider holding the sky
	// uniform buffer resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the sky provider
	SkyBindGroupProvider() bind_group_provider.BindGroupProvider

	// GridBindGroupProvider returns the bind group provider holding the grid
	// uniform buffer resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the grid provider
	GridBindGroupProvider() bind_group_provider.BindGroupProvider
}

type backdrop struct {
	mu *sync.RWMutex

	cam camera.Camera
	r   renderer.Renderer

	gridSize      float32
	gridMinPixels float32
	gridCellSize  float32

	skyBGP  bind_group_provider.BindGroupProvider
	gridBGP bind_group_provider.BindGroupProvider

	// Reusable write slice so Prepare allocates nothing per frame.
	writePool []bind_group_provider.BufferWrite
}

var _ Backdrop = &backdrop{}

// NewBackdrop creates a new Backdrop with the given camera, renderer, and the
// four pass shaders. All of them are required and NewBackdrop panics if any is
// nil, if pipeline registration fails, or if a configured grid tunable is not
// strictly positive.
//
// The sky pipeline is registered with depth testing disabled and no blending
// (opaque replace). The grid pipeline is registered with a less-equal depth
// test, depth writes off, a small depth bias so grid lines win z-fighting
// against coplanar geometry, standard alpha blending, and no culling so the
// ground plane is visible from below.
//
// Parameters:
//   - cam: the camera driving both passes (must not be nil)
//   - r: the renderer to register pipelines and resources with (must not be nil)
//   - skyVertex: the sky pass vertex shader (must not be nil)
//   - skyFragment: the sky pass fragment shader (must not be nil)
//   - gridVertex: the grid pass vertex shader (must not be nil)
//   - gridFragment: the grid pass fragment shader (must not be nil)
//   - options: functional options to further configure the backdrop
//
// Returns:
//   - Backdrop: the newly created backdrop
func NewBackdrop(cam camera.Camera, r renderer.Renderer, skyVertex, skyFragment, gridVertex, gridFragment shader.Shader, options ...BackdropOption) Backdrop {
	if cam == nil {
		panic("backdrop: NewBackdrop requires a non-nil Camera")
	}
	if r == nil {
		panic("backdrop: NewBackdrop requires a non-nil Renderer")
	}
	if skyVertex == nil || skyFragment == nil {
		panic("backdrop: NewBackdrop requires non-nil sky vertex and fragment shaders")
	}
	if gridVertex == nil || gridFragment == nil {
		panic("backdrop: NewBackdrop requires non-nil grid vertex and fragment shaders")
	}

	b := &backdrop{
		mu:            &sync.RWMutex{},
		cam:           cam,
		r:             r,
		gridSize:      grid.DefaultGridSize,
		gridMinPixels: grid.DefaultGridMinPixels,
		gridCellSize:  grid.DefaultGridCellSize,
		writePool:     make([]bind_group_provider.BufferWrite, 0, 2),
	}

	for _, option := range options {
		option(b)
	}

	u := grid.GPUGridUniform{
		GridSize:      b.gridSize,
		GridMinPixels: b.gridMinPixels,
		GridCellSize:  b.gridCellSize,
	}
	if err := u.Validate(); err != nil {
		panic(fmt.Sprintf("backdrop: invalid grid configuration: %v", err))
	}

	skyPipe := pipeline.NewPipeline(SkyPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(skyVertex),
		pipeline.WithFragmentShader(skyFragment),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	gridPipe := pipeline.NewPipeline(GridPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(gridVertex),
		pipeline.WithFragmentShader(gridFragment),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithDepthBias(2, 2.0),
		pipeline.WithBlendEnabled(true),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	if err := r.RegisterPipelines(skyPipe, gridPipe); err != nil {
		panic(fmt.Sprintf("backdrop: failed to register pipelines: %v", err))
	}

	b.skyBGP = bind_group_provider.NewBindGroupProvider("Sky",
		bind_group_provider.WithVertexCount(sky.VertexCount))
	if err := r.InitBindGroup(b.skyBGP, uniformLayout(skyVertex), nil, nil); err != nil {
		panic(fmt.Sprintf("backdrop: failed to init sky bind group: %v", err))
	}

	b.gridBGP = bind_group_provider.NewBindGroupProvider("Grid",
		bind_group_provider.WithVertexCount(grid.VertexCount))
	if err := r.InitBindGroup(b.gridBGP, uniformLayout(gridVertex), nil, nil); err != nil {
		panic(fmt.Sprintf("backdrop: failed to init grid bind group: %v", err))
	}

	return b
}

// uniformLayout returns the group-0 layout descriptor from the vertex shader
// with fragment visibility ORed in. Both passes declare a single uniform read
// by the vertex and fragment stages, and the bind group layout must match the
// merged visibility the render pipeline layout is created with.
func uniformLayout(vertexShader shader.Shader) wgpu.BindGroupLayoutDescriptor {
	desc := vertexShader.BindGroupLayoutDescriptor(0)
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	copy(entries, desc.Entries)
	for i := range entries {
		entries[i].Visibility |= wgpu.ShaderStageFragment
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	}
}

func (b *backdrop) Camera() camera.Camera {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cam
}

func (b *backdrop) SetCamera(cam camera.Camera) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cam = cam
}

func (b *backdrop) Renderer() renderer.Renderer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.r
}

func (b *backdrop) GridSize() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gridSize
}

func (b *backdrop) SetGridSize(size float32) error {
	if size <= 0 {
		return fmt.Errorf("backdrop: grid size must be positive, got %v", size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gridSize = size
	return nil
}

func (b *backdrop) GridMinPixels() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gridMinPixels
}

func (b *backdrop) SetGridMinPixels(minPixels float32) error {
	if minPixels <= 0 {
		return fmt.Errorf("backdrop: grid minimum pixel spacing must be positive, got %v", minPixels)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gridMinPixels = minPixels
	return nil
}

func (b *backdrop) GridCellSize() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gridCellSize
}

func (b *backdrop) SetGridCellSize(cellSize float32) error {
	if cellSize <= 0 {
		return fmt.Errorf("backdrop: grid cell size must be positive, got %v", cellSize)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gridCellSize = cellSize
	return nil
}

func (b *backdrop) SkyBindGroupProvider() bind_group_provider.BindGroupProvider {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.skyBGP
}

func (b *backdrop) GridBindGroupProvider() bind_group_provider.BindGroupProvider {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gridBGP
}

func (b *backdrop) Prepare() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cam == nil || b.r == nil {
		return
	}

	b.cam.Update()
	skyUniform := packSkyUniform(b.cam)
	gridUniform := packGridUniform(b.cam, b.gridSize, b.gridMinPixels, b.gridCellSize)

	writes := append(b.writePool[:0],
		bind_group_provider.BufferWrite{
			Provider: b.skyBGP,
			Binding:  0,
			Offset:   0,
			Data:     skyUniform.Marshal(),
		},
		bind_group_provider.BufferWrite{
			Provider: b.gridBGP,
			Binding:  0,
			Offset:   0,
			Data:     gridUniform.Marshal(),
		},
	)
	b.writePool = writes

	b.r.WriteBuffers(writes)
}

func (b *backdrop) Draw() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.r == nil {
		return fmt.Errorf("backdrop: no renderer attached")
	}

	// Sky first: it covers the whole viewport with depth testing off, so it
	// must not overwrite anything drawn after it within the same frame.
	if err := b.r.DrawCall(SkyPipelineKey, b.skyBGP, 1, []bind_group_provider.BindGroupProvider{b.skyBGP}); err != nil {
		return err
	}
	if err := b.r.DrawCall(GridPipelineKey, b.gridBGP, 1, []bind_group_provider.BindGroupProvider{b.gridBGP}); err != nil {
		return err
	}
	return nil
}

// packSkyUniform builds the sky pass uniform from the camera's current state.
func packSkyUniform(cam camera.Camera) sky.GPUSkyUniform {
	u := sky.GPUSkyUniform{
		Proj:    cam.ProjectionMatrix(),
		ProjInv: cam.InverseProjectionMatrix(),
		View:    cam.ViewMatrix(),
	}
	u.CamPos[0], u.CamPos[1], u.CamPos[2] = cam.Position()
	u.CamPos[3] = 1
	return u
}

// packGridUniform builds the grid pass uniform from the camera's current state
// and the configured tunables. OrthographicScale is zero in perspective mode so
// the shader's effective-scale gate stays inert.
func packGridUniform(cam camera.Camera, gridSize, gridMinPixels, gridCellSize float32) grid.GPUGridUniform {
	u := grid.GPUGridUniform{
		ViewProj:      cam.ViewProjectionMatrix(),
		GridSize:      gridSize,
		GridMinPixels: gridMinPixels,
		GridCellSize:  gridCellSize,
	}
	u.CameraWorldPos[0], u.CameraWorldPos[1], u.CameraWorldPos[2] = cam.Position()
	if cam.Projection() == camera.ProjectionOrthographic {
		u.IsOrthographic = 1
		u.OrthographicScale = cam.OrthographicScale()
	}
	return u
}
