package renderer

import (
	"unsafe"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUFrameUniform is the per-frame uniform shared by every draw of a frame.
// Matches the WGSL FrameUniform struct of the lit program exactly.
// Size: 240 bytes.
//
// Layout:
//
//	CameraUniform camera    (80 bytes, offset 0)
//	Lighting      lighting  (128 bytes, offset 80)
//	vec4<f32>     fog_color (16 bytes, offset 208) rgb sRGB-encoded, w unused
//	vec4<f32>     params    (16 bytes, offset 224) x = fog near, y = fog far, z = fog enabled, w = encode output to sRGB
type GPUFrameUniform struct {
	Camera   camera.GPUCameraUniform
	Lighting light.GPULighting
	FogColor [4]float32
	Params   [4]float32
}

// Size returns the size of the GPUFrameUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (240)
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal returns the struct as bytes ready for GPU upload.
//
// Returns:
//   - []byte: 240-byte view of the struct
func (g *GPUFrameUniform) Marshal() []byte {
	return common.StructToBytes(g)
}

// GPUObjectUniform is the per-draw uniform holding one object's transforms.
// Size: 144 bytes.
//
// Layout:
//
//	mat4x4<f32> model  (64 bytes, offset 0)
//	mat4x4<f32> normal (64 bytes, offset 64) inverse-transpose of model
//	vec4<f32>   flags  (16 bytes, offset 128) x = receives shadows
type GPUObjectUniform struct {
	Model  [16]float32
	Normal [16]float32
	Flags  [4]float32
}

// Size returns the size of the GPUObjectUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal returns the struct as bytes ready for GPU upload.
//
// Returns:
//   - []byte: 144-byte view of the struct
func (g *GPUObjectUniform) Marshal() []byte {
	return common.StructToBytes(g)
}

// DrawItem is one object prepared for drawing.
type DrawItem struct {
	// ID is the game object ID; backends key per-object GPU state by it.
	ID uint64
	// MeshKey identifies the tessellation; objects sharing a key share GPU buffers.
	MeshKey string
	Mesh    *model.Mesh
	// Material is never nil; objects without one use DefaultMaterial.
	Material material.Material
	Object   GPUObjectUniform
	// Distance from the camera to the object's bounding sphere centre.
	Distance float32
}

// Frame is everything a backend needs to draw one image.
type Frame struct {
	Uniform GPUFrameUniform
	// Clear is the sRGB background colour.
	Clear common.Color
	// Width and Height are the drawing buffer size in physical pixels.
	Width, Height int
	// Shadow is the directional light's shadow map configuration, nil when no shadow pass runs.
	Shadow        *light.ShadowConfig
	ShadowCasters []DrawItem
	// Opaque is sorted front to back.
	Opaque []DrawItem
	// Transparent is sorted back to front.
	Transparent []DrawItem
}

// FrameStats summarises the last rendered frame.
type FrameStats struct {
	Objects       int
	Drawn         int
	Culled        int
	ShadowCasters int
}

func newObjectUniform(modelMatrix, normalMatrix mgl32.Mat4, receiveShadow bool) GPUObjectUniform {
	u := GPUObjectUniform{
		Model:  modelMatrix,
		Normal: normalMatrix,
	}
	if receiveShadow {
		u.Flags[0] = 1
	}
	return u
}
