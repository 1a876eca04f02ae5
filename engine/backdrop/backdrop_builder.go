package backdrop

// BackdropOption is a functional option for configuring a Backdrop.
// Use the With* functions to create options.
type BackdropOption func(b *backdrop)

// WithGridSize sets the half-extent scale of the ground quad in world units.
// Values that are not strictly positive are rejected by NewBackdrop.
//
// Parameters:
//   - size: the grid size in world units
//
// Returns:
//   - BackdropOption: option function to apply
func WithGridSize(size float32) BackdropOption {
	return func(b *backdrop) {
		b.gridSize = size
	}
}

// WithGridMinPixels sets the target minimum on-screen spacing between grid
// lines in pixels, which drives the LOD selection. Values that are not strictly
// positive are rejected by NewBackdrop.
//
// Parameters:
//   - minPixels: the minimum pixel spacing
//
// Returns:
//   - BackdropOption: option function to apply
func WithGridMinPixels(minPixels float32) BackdropOption {
	return func(b *backdrop) {
		b.gridMinPixels = minPixels
	}
}

// WithGridCellSize sets the world-space size of the finest grid cell. Values
// that are not strictly positive are rejected by NewBackdrop.
//
// Parameters:
//   - cellSize: the cell size in world units
//
// Returns:
//   - BackdropOption: option function to apply
func WithGridCellSize(cellSize float32) BackdropOption {
	return func(b *backdrop) {
		b.gridCellSize = cellSize
	}
}
