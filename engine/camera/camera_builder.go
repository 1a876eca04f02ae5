package camera

type CameraBuilderOption func(*cameraImpl)

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = [3]float32{x, y, z}
		c.updateMatrices()
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
		c.updateMatrices()
	}
}

// WithViewport sets the camera's viewport dimensions in pixels, which determine
// the aspect ratio and the orthographic projection extents.
//
// Parameters:
//   - width, height: viewport dimensions in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width <= 0 || height <= 0 {
			return
		}
		c.aspect = float32(width) / float32(height)
		c.viewportHeight = height
		c.updateMatrices()
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.updateMatrices()
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
		c.updateMatrices()
	}
}

// WithProjection sets the camera's projection mode.
//
// Parameters:
//   - mode: ProjectionPerspective or ProjectionOrthographic
//
// Returns:
//   - CameraBuilderOption: functional option to set the projection mode
func WithProjection(mode ProjectionMode) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.mode = mode
		c.updateMatrices()
	}
}

// WithOrthographicScale sets the world-units-per-pixel factor used in orthographic mode.
// Values <= 0 are clamped to a minimal positive scale.
//
// Parameters:
//   - scale: world units per pixel
//
// Returns:
//   - CameraBuilderOption: functional option to set the orthographic scale
func WithOrthographicScale(scale float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if scale <= 0 {
			scale = 1e-6
		}
		c.orthographicScale = scale
		c.updateMatrices()
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera recomputes its matrices from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
