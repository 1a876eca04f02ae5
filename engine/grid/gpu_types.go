package grid

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// GPUGridUniformSource is the canonical WGSL definition of the GridUniform struct.
// Matches GPUGridUniform layout exactly (96 bytes, std140 aligned).
//
//go:embed assets/grid_uniform.wgsl
var GPUGridUniformSource string

// GPUGridUniform is the GPU-aligned representation of the grid pass uniform buffer.
// Matches the WGSL GridUniform struct layout exactly (see GPUGridUniformSource).
// Size: 96 bytes (std140 / WGSL aligned).
//
// GridCellSize and GridMinPixels are divisors in the LOD computation and must be
// strictly positive before upload; the shader does not guard against zero.
type GPUGridUniform struct {
	ViewProj          [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraWorldPos    [3]float32  // offset 64: world-space camera position (vec3<f32>)
	GridSize          float32     // offset 76: quad half-extent scale in world units
	GridMinPixels     float32     // offset 80: target minimum on-screen line spacing in pixels
	GridCellSize      float32     // offset 84: world-space size of the finest grid cell
	OrthographicScale float32     // offset 88: world units per pixel, >0 only in orthographic mode
	IsOrthographic    float32     // offset 92: 1 when the camera projection is orthographic, else 0
}

// Size returns the size of the GPUGridUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUGridUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Validate checks the host-side preconditions on the grid tunables. GridSize,
// GridMinPixels, and GridCellSize are divisors or scale factors in the LOD math;
// zero or negative values propagate NaN/Inf into the color output, so they must
// be rejected before upload.
//
// Returns:
//   - error: a descriptive error for the first violated precondition, or nil
func (g *GPUGridUniform) Validate() error {
	if g.GridSize <= 0 {
		return fmt.Errorf("grid: grid size must be positive, got %v", g.GridSize)
	}
	if g.GridMinPixels <= 0 {
		return fmt.Errorf("grid: minimum pixel spacing must be positive, got %v", g.GridMinPixels)
	}
	if g.GridCellSize <= 0 {
		return fmt.Errorf("grid: cell size must be positive, got %v", g.GridCellSize)
	}
	return nil
}

// Marshal serializes the GPUGridUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUGridUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraWorldPos[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.GridSize))
	binary.LittleEndian.PutUint32(buf[80:], math.Float32bits(g.GridMinPixels))
	binary.LittleEndian.PutUint32(buf[84:], math.Float32bits(g.GridCellSize))
	binary.LittleEndian.PutUint32(buf[88:], math.Float32bits(g.OrthographicScale))
	binary.LittleEndian.PutUint32(buf[92:], math.Float32bits(g.IsOrthographic))
	return buf
}
