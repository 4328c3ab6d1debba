package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderProgram is an opaque handle to a compiled and linked program. It is
// owned by the caller that created it; the renderer only ever binds it.
type ShaderProgram interface {
	// ID returns a stable identity for logs and debug tooling.
	ID() string
	// Destroy releases the backend program object. The handle must not be
	// used afterwards.
	Destroy()
}

// Renderer is the hardware abstraction the engine draws through. A concrete
// backend owns a state cache that suppresses redundant state-change calls,
// so callers may set the same state repeatedly at no cost.
//
// All methods must run on the thread that owns the graphics context. A
// renderer instance exclusively owns its cached state; if anything else
// mutates the underlying context, call Invalidate.
type Renderer interface {
	// IDString identifies the backend and driver.
	IDString() string

	// CreateShader compiles and links a vertex/fragment pair. The returned
	// handle is owned by the caller.
	CreateShader(vertexSrc, fragmentSrc string) (ShaderProgram, error)
	UseProgram(p ShaderProgram)

	// SetProgramBlockBinding assigns a named uniform block to a binding
	// point.
	SetProgramBlockBinding(p ShaderProgram, name string, binding uint32)

	// SetUniformTexture points a named sampler uniform at a texture unit.
	// Unknown names are a lookup miss and a no-op, not an error; the same
	// holds for every SetUniform variant.
	SetUniformTexture(p ShaderProgram, name string, unit int32)
	SetUniformMat4(p ShaderProgram, name string, m mgl32.Mat4)
	SetUniformVec4(p ShaderProgram, name string, v mgl32.Vec4)
	SetUniformVec3(p ShaderProgram, name string, v mgl32.Vec3)
	SetUniformVec2(p ShaderProgram, name string, v mgl32.Vec2)
	SetUniformFloat(p ShaderProgram, name string, f float32)

	// Clear clears the selected buffers to the given colour and the default
	// depth.
	Clear(colour mgl32.Vec4, clearColour, clearDepth bool)

	// SetSceneParameters uploads the per-frame scene uniforms.
	SetSceneParameters(data SceneUniformData)

	// Draw issues one indexed draw, DrawArrays one non-indexed draw.
	Draw(model mgl32.Mat4, buffer DrawBuffer, p DrawParameters)
	DrawArrays(model mgl32.Mat4, buffer DrawBuffer, p DrawParameters)

	// DrawBatched submits a pre-sorted render list in the order given.
	DrawBatched(list RenderList)

	// Invalidate discards every cached binding so the next use re-applies
	// it. Required after out-of-band mutation of the graphics context.
	Invalidate()

	// PushDebugGroup opens a named profiling span. Spans nest up to
	// MaxDebugDepth; exceeding that is a contract violation.
	PushDebugGroup(title string)
	// PopDebugGroup closes the innermost span and returns its profiling
	// data. The returned value is only valid until the next call to
	// PushDebugGroup.
	PopDebugGroup() *ProfileInfo

	SetViewport(width, height int32)
	Viewport() (int32, int32)
	Projection2D() mgl32.Mat4

	// Swap marks the frame boundary and resets the per-frame counters.
	Swap()
	DrawCount() int
	TextureCount() int
	BufferCount() int

	// SceneData returns the most recently applied scene uniforms.
	SceneData() SceneUniformData
}

// Base carries the bookkeeping every Renderer implementation shares:
// per-frame counters, the viewport and its derived 2D projection, and the
// last applied scene uniforms. Backends embed it and bump the counters as
// they issue calls.
type Base struct {
	DrawCounter    int
	TextureCounter int
	BufferCounter  int

	LastSceneData SceneUniformData

	viewportW    int32
	viewportH    int32
	projection2D mgl32.Mat4
}

// Swap resets all per-frame counters. It does not touch the scene data.
func (b *Base) Swap() {
	b.DrawCounter = 0
	b.TextureCounter = 0
	b.BufferCounter = 0
}

func (b *Base) DrawCount() int {
	return b.DrawCounter
}

func (b *Base) TextureCount() int {
	return b.TextureCounter
}

func (b *Base) BufferCount() int {
	return b.BufferCounter
}

// SetViewport records the viewport rectangle and derives the fixed 2D
// orthographic projection from it, with the origin in the top-left corner.
func (b *Base) SetViewport(width, height int32) {
	b.viewportW = width
	b.viewportH = height
	b.projection2D = mgl32.Ortho2D(0, float32(width), float32(height), 0)
}

func (b *Base) Viewport() (int32, int32) {
	return b.viewportW, b.viewportH
}

func (b *Base) Projection2D() mgl32.Mat4 {
	return b.projection2D
}

func (b *Base) SceneData() SceneUniformData {
	return b.LastSceneData
}
