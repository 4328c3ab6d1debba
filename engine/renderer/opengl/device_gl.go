package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

// glDevice issues the real OpenGL calls.
type glDevice struct {
	timerQuery uint32
}

// NewDevice returns the OpenGL 3.3 core device. The GL context must be made
// current on the calling thread before the renderer is constructed.
func NewDevice() Device {
	return &glDevice{}
}

func (d *glDevice) Init() error {
	return gl.Init()
}

func (d *glDevice) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *glDevice) SetBlendEnabled(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func glBlendFactor(f BlendFactor) uint32 {
	switch f {
	case BlendOne:
		return gl.ONE
	case BlendSrcAlpha:
		return gl.SRC_ALPHA
	case BlendOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	core.Assertf(false, "unknown blend factor %d", f)
	return 0
}

func (d *glDevice) BlendFunc(src, dst BlendFactor) {
	gl.BlendFunc(glBlendFactor(src), glBlendFactor(dst))
}

func (d *glDevice) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *glDevice) DepthFunc(fn DepthFunc) {
	switch fn {
	case DepthFuncLess:
		gl.DepthFunc(gl.LESS)
	default:
		core.Assertf(false, "unknown depth function %d", fn)
	}
}

func (d *glDevice) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (d *glDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *glDevice) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *glDevice) BindTexture(texture uint32) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *glDevice) GenVertexArray() uint32 {
	var name uint32
	gl.GenVertexArrays(1, &name)
	return name
}

func (d *glDevice) BindVertexArray(array uint32) {
	gl.BindVertexArray(array)
}

func (d *glDevice) DeleteVertexArray(array uint32) {
	gl.DeleteVertexArrays(1, &array)
}

func (d *glDevice) GenBuffer() uint32 {
	var name uint32
	gl.GenBuffers(1, &name)
	return name
}

func (d *glDevice) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *glDevice) BindArrayBuffer(buffer uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
}

func (d *glDevice) ArrayBufferData(data []byte) {
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STREAM_DRAW)
}

func (d *glDevice) VertexAttrib(index uint32, size, stride int32, offset uintptr) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(int(offset)))
}

func (d *glDevice) BindElementBuffer(buffer uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
}

func (d *glDevice) ElementBufferData(indices []uint32) {
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
}

func (d *glDevice) BindUniformBuffer(buffer uint32) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, buffer)
}

func (d *glDevice) UniformBufferData(size int) error {
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.STREAM_DRAW)
	if gl.GetError() == gl.OUT_OF_MEMORY {
		return core.ErrBufferAllocation
	}
	return nil
}

func (d *glDevice) UniformBufferSubData(offset int, data []byte) {
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, len(data), gl.Ptr(data))
}

func (d *glDevice) BindUniformBufferRange(binding, buffer uint32, offset, size int) {
	gl.BindBufferRange(gl.UNIFORM_BUFFER, binding, buffer, offset, size)
}

func (d *glDevice) UniformBufferOffsetAlignment() int32 {
	var align int32
	gl.GetIntegerv(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT, &align)
	return align
}

func (d *glDevice) ClearColour(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *glDevice) Clear(colour, depth bool) {
	var mask uint32
	if colour {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (d *glDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func glPrimitive(p renderer.Primitive) uint32 {
	switch p {
	case renderer.Triangles:
		return gl.TRIANGLES
	case renderer.Lines:
		return gl.LINES
	case renderer.Points:
		return gl.POINTS
	}
	core.Assertf(false, "unknown primitive %d", p)
	return 0
}

func (d *glDevice) DrawElements(prim renderer.Primitive, count, start int32) {
	// Indices are 32-bit.
	gl.DrawElements(glPrimitive(prim), count, gl.UNSIGNED_INT, gl.PtrOffset(int(start)*4))
}

func (d *glDevice) DrawArrays(prim renderer.Primitive, first, count int32) {
	gl.DrawArrays(glPrimitive(prim), first, count)
}

func (d *glDevice) CompileShader(stage ShaderStage, source string) (uint32, error) {
	var glStage uint32
	switch stage {
	case VertexStage:
		glStage = gl.VERTEX_SHADER
	case FragmentStage:
		glStage = gl.FRAGMENT_SHADER
	default:
		core.Assertf(false, "unknown shader stage %d", stage)
	}

	shader := gl.CreateShader(glStage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile error: %s", infoLog)
	}
	return shader, nil
}

func (d *glDevice) LinkProgram(vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("program link error: %s", infoLog)
	}
	return program, nil
}

func (d *glDevice) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *glDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *glDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *glDevice) UniformBlockIndex(program uint32, name string) (uint32, bool) {
	index := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
	return index, index != gl.INVALID_INDEX
}

func (d *glDevice) UniformBlockBinding(program, index, binding uint32) {
	gl.UniformBlockBinding(program, index, binding)
}

func (d *glDevice) SetUniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *glDevice) SetUniformVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *glDevice) SetUniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *glDevice) SetUniformVec2(location int32, v mgl32.Vec2) {
	gl.Uniform2f(location, v[0], v[1])
}

func (d *glDevice) SetUniformFloat(location int32, f float32) {
	gl.Uniform1f(location, f)
}

func (d *glDevice) SetUniformInt(location int32, i int32) {
	gl.Uniform1i(location, i)
}

func (d *glDevice) Timestamp() uint64 {
	if d.timerQuery == 0 {
		gl.GenQueries(1, &d.timerQuery)
	}
	gl.QueryCounter(d.timerQuery, gl.TIMESTAMP)
	var stamp uint64
	gl.GetQueryObjectui64v(d.timerQuery, gl.QUERY_RESULT, &stamp)
	return stamp
}
