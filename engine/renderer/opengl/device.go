package opengl

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/renderer"
)

// BlendFactor is a blend function factor.
type BlendFactor uint8

const (
	BlendOne BlendFactor = iota
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// DepthFunc is a depth comparison function.
type DepthFunc uint8

const (
	DepthFuncLess DepthFunc = iota
)

// ShaderStage selects the pipeline stage a shader source compiles for.
type ShaderStage uint8

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

// Device is the set of graphics-API entry points the renderer issues. The
// production implementation wraps the OpenGL bindings; tests substitute a
// recording fake to observe exactly which state changes reach the driver.
//
// Device methods perform no caching and no validation of their own: every
// call maps to driver work. Redundancy elimination is the renderer's job.
type Device interface {
	// Init loads the API function pointers. The context must be current.
	Init() error
	// Version reports the driver version string.
	Version() string

	SetBlendEnabled(enabled bool)
	BlendFunc(src, dst BlendFactor)
	SetDepthTest(enabled bool)
	DepthFunc(fn DepthFunc)
	DepthMask(write bool)

	UseProgram(program uint32)
	ActiveTexture(unit uint32)
	BindTexture(texture uint32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindArrayBuffer(buffer uint32)
	ArrayBufferData(data []byte)
	VertexAttrib(index uint32, size, stride int32, offset uintptr)
	BindElementBuffer(buffer uint32)
	ElementBufferData(indices []uint32)

	BindUniformBuffer(buffer uint32)
	// UniformBufferData allocates storage for the currently bound uniform
	// buffer. It reports driver allocation failure.
	UniformBufferData(size int) error
	UniformBufferSubData(offset int, data []byte)
	BindUniformBufferRange(binding, buffer uint32, offset, size int)
	UniformBufferOffsetAlignment() int32

	ClearColour(r, g, b, a float32)
	Clear(colour, depth bool)
	Viewport(x, y, width, height int32)

	DrawElements(prim renderer.Primitive, count, start int32)
	DrawArrays(prim renderer.Primitive, first, count int32)

	CompileShader(stage ShaderStage, source string) (uint32, error)
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformBlockIndex(program uint32, name string) (uint32, bool)
	UniformBlockBinding(program, index, binding uint32)
	SetUniformMat4(location int32, m mgl32.Mat4)
	SetUniformVec4(location int32, v mgl32.Vec4)
	SetUniformVec3(location int32, v mgl32.Vec3)
	SetUniformVec2(location int32, v mgl32.Vec2)
	SetUniformFloat(location int32, f float32)
	SetUniformInt(location int32, i int32)

	// Timestamp reads the GPU clock, in nanoseconds. The readback is
	// synchronous; the stall is accepted profiling latency.
	Timestamp() uint64
}
