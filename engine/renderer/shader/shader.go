package shader

import (
	"fmt"
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	entryPoint    string
	vertexLayouts []wgpu.VertexBufferLayout
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL program and the metadata needed to build a pipeline stage from it.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType retrieves the stage this shader is used for.
	//
	// Returns:
	//   - ShaderType: the shader stage
	ShaderType() ShaderType

	// EntryPoint retrieves the name of the stage's entry function.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// VertexLayouts retrieves the vertex buffer layouts consumed by a vertex shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, one per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module retrieves the shader module descriptor ready for device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source. When no entry point is given through the
// options, the first function marked for the shader's stage is used.
// Panics if the source is empty or no entry point can be found.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is used for
//   - source: the WGSL source, already pre-processed
//   - options: functional options to configure the shader
//
// Returns:
//   - Shader: a new Shader
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s has no source", key))
	}
	s := &shader{
		key:        key,
		shaderType: shaderType,
		source:     source,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.entryPoint == "" {
		s.entryPoint = parseEntryPoint(source, shaderType)
	}
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point for its stage", key))
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

// NewShaderFromFS pre-processes the named WGSL file from fsys, resolving include
// directives against the same file system, and creates a Shader from the result.
//
// Parameters:
//   - fsys: the file system holding the WGSL sources
//   - name: the path of the root source file within fsys
//   - shaderType: the stage the shader is used for
//   - options: functional options to configure the shader
//
// Returns:
//   - Shader: a new Shader
//   - error: an error if a source file is missing or includes form a cycle
func NewShaderFromFS(fsys fs.FS, name string, shaderType ShaderType, options ...ShaderBuilderOption) (Shader, error) {
	source, err := NewPreProcessor(fsys).Process(name)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", name, err)
	}
	return NewShader(name, shaderType, source, options...), nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
