// Package softrender rasterizes the sky and grid passes on the CPU into an
// RGBA image. It runs the same shading math as the WGSL shaders, using
// finite differences between neighboring pixel rays in place of hardware
// derivatives, and is used for headless rendering and for golden-image style
// verification of the passes without a GPU device.
package softrender

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/vantage3d/vantage/common"
	"github.com/vantage3d/vantage/engine/grid"
	"github.com/vantage3d/vantage/engine/sky"
)

// Rasterizer renders the backdrop passes on the CPU.
// Thread-safe: Render may be called from any goroutine, one frame at a time.
type Rasterizer interface {
	// Width returns the output image width in pixels.
	Width() int

	// Height returns the output image height in pixels.
	Height() int

	// Render evaluates the sky pass and then the grid pass for every pixel and
	// composites them with standard alpha blending, matching the GPU pipeline
	// order and blend state. The grid uniform's tunables are validated before
	// any work is done.
	//
	// Parameters:
	//   - skyUniform: the sky pass uniform for this frame
	//   - gridUniform: the grid pass uniform for this frame
	//
	// Returns:
	//   - *image.RGBA: the rendered frame
	//   - error: an error if the grid tunables are invalid or the view-projection is singular
	Render(skyUniform sky.GPUSkyUniform, gridUniform grid.GPUGridUniform) (*image.RGBA, error)
}

type rasterizer struct {
	mu *sync.Mutex

	width  int
	height int

	// pool manages a bounded set of reusable goroutines that rasterize
	// horizontal bands in parallel. Workers persist across frames.
	pool    worker.DynamicWorkerPool
	workers int
}

var _ Rasterizer = &rasterizer{}

// NewRasterizer creates a new CPU rasterizer for the given output size.
// Panics if width or height is not positive.
//
// Parameters:
//   - width: output image width in pixels
//   - height: output image height in pixels
//   - options: functional options to further configure the rasterizer
//
// Returns:
//   - Rasterizer: the newly created rasterizer
func NewRasterizer(width, height int, options ...RasterizerOption) Rasterizer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("softrender: NewRasterizer requires positive dimensions, got %dx%d", width, height))
	}

	r := &rasterizer{
		mu:      &sync.Mutex{},
		width:   width,
		height:  height,
		workers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(r)
	}

	// Queue size of 256 accommodates the band count with headroom.
	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, 1*time.Second)

	return r
}

func (r *rasterizer) Width() int {
	return r.width
}

func (r *rasterizer) Height() int {
	return r.height
}

func (r *rasterizer) Render(skyUniform sky.GPUSkyUniform, gridUniform grid.GPUGridUniform) (*image.RGBA, error) {
	if err := gridUniform.Validate(); err != nil {
		return nil, err
	}

	var invViewProj [16]float32
	if !common.Invert4(invViewProj[:], gridUniform.ViewProj[:]) {
		return nil, fmt.Errorf("softrender: grid view-projection matrix is singular")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))

	// Fan the rows out in bands. A WaitGroup provides the per-frame barrier;
	// pool.Wait() blocks until workers idle-exit which is unsuitable here.
	bandHeight := max(r.height/(r.workers*4), 1)
	var wg sync.WaitGroup
	taskID := 0
	for y0 := 0; y0 < r.height; y0 += bandHeight {
		y1 := min(y0+bandHeight, r.height)

		wg.Add(1)
		startRow, endRow := y0, y1
		id := taskID
		taskID++
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				r.renderBand(img, &skyUniform, &gridUniform, invViewProj[:], startRow, endRow)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return img, nil
}

// renderBand rasterizes the half-open row range [startRow, endRow).
func (r *rasterizer) renderBand(img *image.RGBA, skyUniform *sky.GPUSkyUniform, gridUniform *grid.GPUGridUniform, invViewProj []float32, startRow, endRow int) {
	halfExtent := grid.QuadScale(gridUniform) * grid.QuadHalfExtent

	for y := startRow; y < endRow; y++ {
		for x := 0; x < r.width; x++ {
			ndcX, ndcY := r.pixelToNDC(x, y)

			dir := sky.Direction(skyUniform, ndcX, ndcY)
			rgba := sky.Shade(dir)

			if world, ok := groundIntersection(invViewProj, ndcX, ndcY); ok {
				dx := gridUniform.CameraWorldPos[0] - world[0]
				dz := gridUniform.CameraWorldPos[2] - world[2]
				inQuad := dx >= -halfExtent && dx <= halfExtent && dz >= -halfExtent && dz <= halfExtent
				if inQuad {
					dudvX, dudvY := r.pixelFootprint(invViewProj, x, y, world)
					if gc, hit := grid.Fragment(gridUniform, world[0], world[2], dudvX, dudvY); hit {
						rgba = blendOver(gc, rgba)
					}
				}
			}

			img.SetRGBA(x, y, color.RGBA{
				R: toByte(rgba[0]),
				G: toByte(rgba[1]),
				B: toByte(rgba[2]),
				A: toByte(rgba[3]),
			})
		}
	}
}

// pixelToNDC maps a pixel center to normalized device coordinates, with NDC y
// increasing upward.
func (r *rasterizer) pixelToNDC(x, y int) (float32, float32) {
	ndcX := (float32(x)+0.5)/float32(r.width)*2 - 1
	ndcY := 1 - (float32(y)+0.5)/float32(r.height)*2
	return ndcX, ndcY
}

// pixelFootprint computes the world-units-per-pixel footprint of the ground
// plane at a pixel by intersecting the rays of the two forward neighbors and
// differencing, the finite-difference stand-in for the shader's dpdx/dpdy.
// A neighbor whose ray misses the plane contributes a zero difference.
func (r *rasterizer) pixelFootprint(invViewProj []float32, x, y int, world [3]float32) (float32, float32) {
	right := world
	rx, ry := r.pixelToNDC(x+1, y)
	if w, ok := groundIntersection(invViewProj, rx, ry); ok {
		right = w
	}

	down := world
	dx, dy := r.pixelToNDC(x, y+1)
	if w, ok := groundIntersection(invViewProj, dx, dy); ok {
		down = w
	}

	dudvX := common.Length2(right[0]-world[0], down[0]-world[0])
	dudvY := common.Length2(right[2]-world[2], down[2]-world[2])
	return dudvX, dudvY
}

// groundIntersection casts the pixel's view ray and intersects it with the
// y = 0 ground plane. The ray is recovered by unprojecting the NDC point at
// the near and far depths, which handles perspective and orthographic
// projections uniformly.
func groundIntersection(invViewProj []float32, ndcX, ndcY float32) ([3]float32, bool) {
	near, okNear := unproject(invViewProj, ndcX, ndcY, 0)
	far, okFar := unproject(invViewProj, ndcX, ndcY, 1)
	if !okNear || !okFar {
		return [3]float32{}, false
	}

	dirY := far[1] - near[1]
	if dirY == 0 {
		return [3]float32{}, false
	}
	t := -near[1] / dirY
	if t < 0 || t > 1 {
		return [3]float32{}, false
	}

	return [3]float32{
		near[0] + (far[0]-near[0])*t,
		0,
		near[2] + (far[2]-near[2])*t,
	}, true
}

// unproject maps an NDC point at the given depth back to world space.
func unproject(invViewProj []float32, ndcX, ndcY, ndcZ float32) ([3]float32, bool) {
	p := common.TransformVec4(invViewProj, [4]float32{ndcX, ndcY, ndcZ, 1})
	if p[3] == 0 {
		return [3]float32{}, false
	}
	return [3]float32{p[0] / p[3], p[1] / p[3], p[2] / p[3]}, true
}

// blendOver composites src over dst with standard straight-alpha blending,
// the same blend state the grid pipeline uses.
func blendOver(src, dst [4]float32) [4]float32 {
	a := src[3]
	return [4]float32{
		src[0]*a + dst[0]*(1-a),
		src[1]*a + dst[1]*(1-a),
		src[2]*a + dst[2]*(1-a),
		a + dst[3]*(1-a),
	}
}

// toByte clamps a [0,1] channel to an 8-bit value.
func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
