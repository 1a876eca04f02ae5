package sky

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSkyUniformSource is the canonical WGSL definition of the SkyUniform struct.
// Matches GPUSkyUniform layout exactly (208 bytes, std140 aligned).
//
//go:embed assets/sky_uniform.wgsl
var GPUSkyUniformSource string

// GPUSkyUniform is the GPU-aligned representation of the sky pass uniform buffer.
// Matches the WGSL SkyUniform struct layout exactly (see GPUSkyUniformSource).
// Size: 208 bytes (std140 / WGSL aligned).
//
// Proj and ProjInv must always come from the same frame: the vertex stage
// unprojects through ProjInv, so a stale inverse after an aspect change skews
// every reconstructed view direction.
type GPUSkyUniform struct {
	Proj    [16]float32 // offset   0: projection matrix (mat4x4<f32>)
	ProjInv [16]float32 // offset  64: inverse projection matrix (mat4x4<f32>)
	View    [16]float32 // offset 128: view matrix, rotation part used (mat4x4<f32>)
	CamPos  [4]float32  // offset 192: world-space camera position (vec4<f32>, w unused)
}

// Size returns the size of the GPUSkyUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (208)
func (g *GPUSkyUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkyUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUSkyUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Proj[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.ProjInv[i]))
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.View[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[192+i*4:], math.Float32bits(g.CamPos[i]))
	}
	return buf
}
