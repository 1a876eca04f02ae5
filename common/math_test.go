package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matTol = 1e-5

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	Identity(m)
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.Equal(t, want, m[i], "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)

	m := make([]float32, 16)
	Perspective(m, float32(math.Pi/4), 16.0/9.0, 0.1, 100)

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.Equal(t, m, out)

	// Mul4 must tolerate aliased output.
	Mul4(m, id, m)
	assert.Equal(t, out, m)
}

func TestPerspectiveCenterRay(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, float32(math.Pi/4), 1, 0.1, 100)

	// A view-space point straight ahead projects to clip center.
	clip := TransformVec4(m, [4]float32{0, 0, -10, 1})
	assert.InDelta(t, 0, clip[0], matTol)
	assert.InDelta(t, 0, clip[1], matTol)
	assert.InDelta(t, 10, clip[3], matTol, "w should be -z")
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	m := make([]float32, 16)
	Perspective(m, float32(math.Pi/3), 1, near, far)

	// WebGPU clip space: z/w is 0 at the near plane and 1 at the far plane.
	nc := TransformVec4(m, [4]float32{0, 0, -near, 1})
	fc := TransformVec4(m, [4]float32{0, 0, -far, 1})
	assert.InDelta(t, 0, nc[2]/nc[3], matTol)
	assert.InDelta(t, 1, fc[2]/fc[3], matTol)
}

func TestOrthographicMapsVolumeToClip(t *testing.T) {
	m := make([]float32, 16)
	Orthographic(m, -2, 2, -1, 1, 0.1, 100)

	c := TransformVec4(m, [4]float32{2, 1, -0.1, 1})
	assert.InDelta(t, 1, c[0], matTol)
	assert.InDelta(t, 1, c[1], matTol)
	assert.InDelta(t, 0, c[2], matTol)
	assert.InDelta(t, 1, c[3], matTol)

	c = TransformVec4(m, [4]float32{-2, -1, -100, 1})
	assert.InDelta(t, -1, c[0], matTol)
	assert.InDelta(t, -1, c[1], matTol)
	assert.InDelta(t, 1, c[2], matTol)
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	v := make([]float32, 16)
	LookAt(v, 3, 4, 5, 0, 0, 0, 0, 1, 0)

	eye := TransformVec4(v, [4]float32{3, 4, 5, 1})
	assert.InDelta(t, 0, eye[0], matTol)
	assert.InDelta(t, 0, eye[1], matTol)
	assert.InDelta(t, 0, eye[2], matTol)

	// The target lies straight down -Z in view space.
	tgt := TransformVec4(v, [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, tgt[0], matTol)
	assert.InDelta(t, 0, tgt[1], matTol)
	assert.Less(t, tgt[2], float32(0))
}

func TestInvert4Roundtrip(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 1, 2, 3, 0, 0.5, -1, 0, 1, 0)

	inv := make([]float32, 16)
	require.True(t, Invert4(inv, m))

	prod := make([]float32, 16)
	Mul4(prod, m, inv)
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, prod[i], matTol, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16)
	out := []float32{42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	assert.False(t, Invert4(out, m))
	assert.Equal(t, float32(42), out[0], "output must be untouched on failure")
}

func TestTransformVec4(t *testing.T) {
	m := make([]float32, 16)
	Identity(m)
	m[12], m[13], m[14] = 5, -3, 7

	v := TransformVec4(m, [4]float32{1, 2, 3, 1})
	assert.Equal(t, [4]float32{6, -1, 10, 1}, v)

	// Direction vectors (w = 0) ignore translation.
	d := TransformVec4(m, [4]float32{1, 2, 3, 0})
	assert.Equal(t, [4]float32{1, 2, 3, 0}, d)
}
