package model

import (
	"unsafe"

	"github.com/Carmen-Shannon/mystic-grove/common"
)

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the VertexInput struct of the lit WGSL program (48 bytes, no padding).
type GPUVertex struct {
	Position [3]float32 // offset  0: model-space position
	Normal   [3]float32 // offset 12: unit normal
	TexCoord [2]float32 // offset 24: UV, origin at the top-left texel
	Tangent  [4]float32 // offset 32: tangent (xyz) + bitangent handedness (w)
}

// GPUVertexSize is the stride of GPUVertex in bytes.
const GPUVertexSize = uint64(unsafe.Sizeof(GPUVertex{}))

// Byte offsets of each GPUVertex attribute, used to build vertex buffer layouts.
const (
	GPUVertexPositionOffset = 0
	GPUVertexNormalOffset   = 12
	GPUVertexTexCoordOffset = 24
	GPUVertexTangentOffset  = 32
)

// Mesh is tessellated geometry ready for upload: triangle-list vertices with
// counter-clockwise front faces and 32-bit indices.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// VertexBytes returns the vertex array as raw bytes for a GPU buffer write.
func (m *Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index array as raw bytes for a GPU buffer write.
func (m *Mesh) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}
