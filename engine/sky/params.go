package sky

import (
	"github.com/vantage3d/vantage/common"
)

// Tuning parameters for the procedural sky. These mirror the literals in
// assets/sky.wgsl; the GPU shader and the CPU evaluation in this package must
// agree on every value.
const (
	// SkyCurve is the exponent shaping the horizon-to-zenith gradient remap.
	SkyCurve float32 = 0.15

	// GroundCurve is the exponent shaping the horizon-to-ground gradient remap.
	// Much smaller than SkyCurve so the ground band hugs the horizon tightly.
	GroundCurve float32 = 0.02

	// Brightness is the uniform boost applied to the gradient color before sun blending.
	Brightness float32 = 1.3

	// SunAngularRadius is the angular radius of the sun disk in radians.
	// The disk edge smooths from full intensity at angle 0 to zero at this angle.
	SunAngularRadius float32 = 0.02

	// SunBlendStrength scales how strongly the sun disk color blends over the gradient.
	SunBlendStrength float32 = 0.5
)

var (
	// HorizonColor is the gradient color exactly at the horizon, shared by the
	// sky and ground branches so there is no seam at height zero.
	HorizonColor = [3]float32{0.646, 0.656, 0.67}

	// ZenithColor is the gradient color looking straight up.
	ZenithColor = [3]float32{0.385, 0.454, 0.55}

	// GroundColor is the gradient color looking straight down.
	GroundColor = [3]float32{0.2, 0.169, 0.133}

	// SunColor is the warm color blended in over the sun disk.
	SunColor = [3]float32{1.0, 0.95, 0.8}

	// SunDirection is the fixed world-space direction toward the sun.
	SunDirection = common.Normalize3([3]float32{0, 0.5, -1})
)
