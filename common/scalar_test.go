package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturate(t *testing.T) {
	assert.Equal(t, float32(0), Saturate(-0.5))
	assert.Equal(t, float32(0), Saturate(0))
	assert.Equal(t, float32(0.25), Saturate(0.25))
	assert.Equal(t, float32(1), Saturate(1))
	assert.Equal(t, float32(1), Saturate(3.7))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(2), Lerp(2, 8, 0))
	assert.Equal(t, float32(8), Lerp(2, 8, 1))
	assert.Equal(t, float32(5), Lerp(2, 8, 0.5))
	// t is deliberately unclamped
	assert.Equal(t, float32(14), Lerp(2, 8, 2))
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), Smoothstep(0, 1, -1))
	assert.Equal(t, float32(0), Smoothstep(0, 1, 0))
	assert.Equal(t, float32(0.5), Smoothstep(0, 1, 0.5))
	assert.Equal(t, float32(1), Smoothstep(0, 1, 1))
	assert.Equal(t, float32(1), Smoothstep(0, 1, 5))

	// Hermite value at the quarter point: t^2(3-2t) with t=0.25.
	assert.InDelta(t, 0.15625, Smoothstep(0, 1, 0.25), 1e-6)

	// Shifted and scaled edges.
	assert.InDelta(t, 0.5, Smoothstep(2, 6, 4), 1e-6)
}

func TestFract(t *testing.T) {
	assert.InDelta(t, 0.25, Fract(3.25), 1e-6)
	assert.InDelta(t, 0, Fract(4), 1e-6)
	// floor-based: fract(-0.25) = 0.75 under GLSL semantics
	assert.InDelta(t, 0.75, Fract(-0.25), 1e-6)
}

func TestModShaderSemantics(t *testing.T) {
	assert.InDelta(t, 0.5, Mod(2.5, 1), 1e-6)
	assert.InDelta(t, 0, Mod(5, 2.5), 1e-6)
	// Negative dividend wraps into [0, y), unlike math.Mod.
	assert.InDelta(t, 0.75, Mod(-0.25, 1), 1e-6)
	assert.InDelta(t, 0.02, Mod(-0.005, 0.025), 1e-6)
}

func TestNormalize3(t *testing.T) {
	n := Normalize3([3]float32{3, 0, 4})
	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0, n[1], 1e-6)
	assert.InDelta(t, 0.8, n[2], 1e-6)

	zero := Normalize3([3]float32{})
	assert.Equal(t, [3]float32{}, zero, "zero vector passes through unchanged")
}

func TestDot3(t *testing.T) {
	assert.Equal(t, float32(0), Dot3([3]float32{1, 0, 0}, [3]float32{0, 1, 0}))
	assert.Equal(t, float32(32), Dot3([3]float32{1, 2, 3}, [3]float32{4, 5, 6}))
}

func TestLength2(t *testing.T) {
	assert.Equal(t, float32(5), Length2(3, 4))
	assert.Equal(t, float32(0), Length2(0, 0))
}
