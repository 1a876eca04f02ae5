package camera

import (
	"math"
	"sync"

	"github.com/vantage3d/vantage/common"
)

// ProjectionMode selects how the camera projects view space into clip space.
type ProjectionMode int

const (
	// ProjectionPerspective uses a standard perspective projection with the camera's field of view.
	ProjectionPerspective ProjectionMode = iota

	// ProjectionOrthographic uses a parallel projection sized by the camera's orthographic scale
	// (world units per pixel) and the current viewport dimensions.
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	mode              ProjectionMode
	orthographicScale float32
	viewportHeight    int

	viewMatrix              [16]float32
	projectionMatrix        [16]float32
	viewProjectionMatrix    [16]float32
	inverseProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds projection settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the field of view in radians. Only meaningful in perspective mode.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Projection returns the camera's current projection mode.
	//
	// Returns:
	//   - ProjectionMode: ProjectionPerspective or ProjectionOrthographic
	Projection() ProjectionMode

	// OrthographicScale returns the world-units-per-pixel factor used in orthographic mode.
	// Returns 0 when the camera is in perspective mode.
	//
	// Returns:
	//   - float32: the orthographic scale, or 0 in perspective mode
	OrthographicScale() float32

	// Position returns the camera's world-space position as reported by the controller.
	// Returns the origin if no controller is attached.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseProjectionMatrix returns the inverse of the current projection matrix
	// as 16 floats (column-major). The sky pass uses it to reconstruct world-space
	// view directions from clip-space positions, so it is recomputed in the same
	// update as the projection matrix and never goes stale across a resize.
	//
	// Returns:
	//   - [16]float32: the inverse projection matrix
	InverseProjectionMatrix() [16]float32

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from controller and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	// If no controller is attached, this method does nothing.
	Update()

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetProjection switches the camera between perspective and orthographic mode
	// and recomputes matrices.
	//
	// Parameters:
	//   - mode: the projection mode to use
	SetProjection(mode ProjectionMode)

	// SetOrthographicScale sets the world-units-per-pixel factor for orthographic mode
	// and recomputes matrices. Values <= 0 are clamped to a minimal positive scale.
	//
	// Parameters:
	//   - scale: world units per pixel
	SetOrthographicScale(scale float32)

	// SetViewport sets the viewport dimensions in pixels, updating the aspect ratio
	// and orthographic extents, then recomputes matrices. Both the projection and its
	// inverse are refreshed in the same call.
	//
	// Parameters:
	//   - width, height: viewport dimensions in pixels
	SetViewport(width, height int)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// A controller must be attached via SetController or WithController option
// before position/target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		up:                   [3]float32{0, 1, 0},
		fov:                  45.0 * (math.Pi / 180.0), // radians
		aspect:               1.0,
		near:                 0.1,
		far:                  1000.0,
		mode:                 ProjectionPerspective,
		orthographicScale:    0.01,
		viewportHeight:       720,
		viewMatrix:           [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix:     [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		viewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Projection() ProjectionMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *cameraImpl) OrthographicScale() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ProjectionOrthographic {
		return 0
	}
	return c.orthographicScale
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return 0, 0, 0
	}
	return c.controller.Position()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetProjection(mode ProjectionMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.updateMatrices()
}

func (c *cameraImpl) SetOrthographicScale(scale float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if scale <= 0 {
		scale = 1e-6
	}
	c.orthographicScale = scale
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.viewportHeight = height
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// updateMatrices recalculates the view, projection, view-projection, and inverse projection matrices.
// It reads position and target from the attached controller. This is a no-op when the controller is nil.
// The projection and its inverse always change together. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}

	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up[0], c.up[1], c.up[2],
	)

	switch c.mode {
	case ProjectionOrthographic:
		halfHeight := c.orthographicScale * float32(c.viewportHeight) / 2.0
		halfWidth := halfHeight * c.aspect
		common.Orthographic(c.projectionMatrix[:],
			-halfWidth, halfWidth, -halfHeight, halfHeight, c.near, c.far,
		)
	default:
		common.Perspective(c.projectionMatrix[:],
			c.fov, c.aspect, c.near, c.far,
		)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
}
