package grid

// Tuning parameters for the LOD ground grid. These mirror the literals in
// assets/grid.wgsl; the GPU shader and the CPU evaluation in this package must
// agree on every value.
const (
	// QuadHalfExtent is the half-extent of the ground quad in local units
	// before scaling by GridSize.
	QuadHalfExtent float32 = 10.0

	// OrthoScaleFloor is the minimum quad scale multiplier in orthographic mode.
	OrthoScaleFloor float32 = 10.0

	// OrthoScaleMultiplier converts the orthographic world-units-per-pixel scale
	// into a quad scale multiplier so a zoomed-out parallel view stays covered.
	OrthoScaleMultiplier float32 = 100.0

	// AAWidthFactor scales the per-pixel world footprint into the anti-aliasing
	// band width used by the line coverage mask.
	AAWidthFactor float32 = 8.0

	// CrossFadeStart and CrossFadeEnd bound the smoothstep window over the
	// fractional LOD that cross-fades the mid tier from thick to thin color.
	CrossFadeStart float32 = 0.2
	CrossFadeEnd   float32 = 0.8

	// ThickAlphaScale, MidAlphaScale, and ThinAlphaScale weight the coverage
	// alpha of the coarse, mid, and fine line tiers respectively.
	ThickAlphaScale float32 = 0.7
	MidAlphaScale   float32 = 0.5
	ThinAlphaScale  float32 = 0.4

	// FadeStartFactor and FadeEndFactor, multiplied by GridSize, bound the
	// perspective-mode distance fade measured in the ground plane.
	FadeStartFactor float32 = 0.8
	FadeEndFactor   float32 = 3.0

	// AxisBand is the world-space half-width of the X/Z axis accent bands.
	AxisBand float32 = 0.03

	// AxisBlend is the blend weight of the axis accent colors over the line color.
	AxisBlend float32 = 0.5

	// DiscardThreshold is the composited alpha below which the fragment is
	// discarded to avoid overdraw from near-invisible fragments.
	DiscardThreshold float32 = 0.02

	// DefaultGridSize, DefaultGridMinPixels, and DefaultGridCellSize are the
	// tunable defaults used when the host does not configure the grid.
	DefaultGridSize      float32 = 100.0
	DefaultGridMinPixels float32 = 2.0
	DefaultGridCellSize  float32 = 0.025
)

var (
	// ThinColor is the fine-tier line color (light gray, mostly transparent).
	ThinColor = [4]float32{0.75, 0.75, 0.75, 0.25}

	// ThickColor is the coarse-tier line color (muted blue).
	ThickColor = [4]float32{0.2, 0.4, 0.8, 0.4}

	// XAxisColor is the accent color for the X axis (the |z| < AxisBand band).
	XAxisColor = [4]float32{0.87, 0.26, 0.24, 0.7}

	// ZAxisColor is the accent color for the Z axis (the |x| < AxisBand band).
	ZAxisColor = [4]float32{0.24, 0.7, 0.29, 0.7}
)
