package opengl

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

// fakeDevice records every call that reaches the driver so tests can assert
// on exactly which state changes the cache let through.
type fakeDevice struct {
	blendEnables  int
	blendDisables int
	blendFuncs    int
	lastBlendFunc [2]BlendFactor

	depthEnables  int
	depthDisables int
	depthFuncs    int
	depthMasks    int
	lastDepthMask bool

	programBinds []uint32
	activeUnits  []uint32
	textureBinds []uint32
	vaoBinds     []uint32

	arrayBinds     []uint32
	arrayDataSizes []int
	vertexAttribs  []uint32
	elementBinds   []uint32
	elementCounts  []int

	drawElements []drawCall
	drawArrays   []drawCall

	uboBinds        []uint32
	uboAllocs       []int
	uboSubData      []subDataCall
	uboRangeBinds   []rangeBind
	offsetAlignment int32
	failAlloc       bool

	locations     map[string]int32
	uniformInts   map[int32]int32
	uniformFloats map[int32]float32

	nextName  uint32
	clock     uint64
	clockStep uint64

	failCompile bool
	failLink    bool
}

type drawCall struct {
	prim  renderer.Primitive
	count int32
	start int32
}

type subDataCall struct {
	offset int
	size   int
}

type rangeBind struct {
	binding uint32
	buffer  uint32
	offset  int
	size    int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		offsetAlignment: 256,
		locations:       make(map[string]int32),
		uniformInts:     make(map[int32]int32),
		uniformFloats:   make(map[int32]float32),
		clockStep:       100,
	}
}

func (d *fakeDevice) Init() error     { return nil }
func (d *fakeDevice) Version() string { return "fake 3.3" }

func (d *fakeDevice) SetBlendEnabled(enabled bool) {
	if enabled {
		d.blendEnables++
	} else {
		d.blendDisables++
	}
}

func (d *fakeDevice) BlendFunc(src, dst BlendFactor) {
	d.blendFuncs++
	d.lastBlendFunc = [2]BlendFactor{src, dst}
}

func (d *fakeDevice) SetDepthTest(enabled bool) {
	if enabled {
		d.depthEnables++
	} else {
		d.depthDisables++
	}
}

func (d *fakeDevice) DepthFunc(fn DepthFunc) {
	d.depthFuncs++
}

func (d *fakeDevice) DepthMask(write bool) {
	d.depthMasks++
	d.lastDepthMask = write
}

func (d *fakeDevice) UseProgram(program uint32) {
	d.programBinds = append(d.programBinds, program)
}

func (d *fakeDevice) ActiveTexture(unit uint32) {
	d.activeUnits = append(d.activeUnits, unit)
}

func (d *fakeDevice) BindTexture(texture uint32) {
	d.textureBinds = append(d.textureBinds, texture)
}

func (d *fakeDevice) genName() uint32 {
	d.nextName++
	return d.nextName
}

func (d *fakeDevice) GenVertexArray() uint32 { return d.genName() }

func (d *fakeDevice) BindVertexArray(array uint32) {
	d.vaoBinds = append(d.vaoBinds, array)
}

func (d *fakeDevice) DeleteVertexArray(array uint32) {}

func (d *fakeDevice) GenBuffer() uint32          { return d.genName() }
func (d *fakeDevice) DeleteBuffer(buffer uint32) {}

func (d *fakeDevice) BindArrayBuffer(buffer uint32) {
	d.arrayBinds = append(d.arrayBinds, buffer)
}

func (d *fakeDevice) ArrayBufferData(data []byte) {
	d.arrayDataSizes = append(d.arrayDataSizes, len(data))
}

func (d *fakeDevice) VertexAttrib(index uint32, size, stride int32, offset uintptr) {
	d.vertexAttribs = append(d.vertexAttribs, index)
}

func (d *fakeDevice) BindElementBuffer(buffer uint32) {
	d.elementBinds = append(d.elementBinds, buffer)
}

func (d *fakeDevice) ElementBufferData(indices []uint32) {
	d.elementCounts = append(d.elementCounts, len(indices))
}

func (d *fakeDevice) BindUniformBuffer(buffer uint32) {
	d.uboBinds = append(d.uboBinds, buffer)
}

func (d *fakeDevice) UniformBufferData(size int) error {
	if d.failAlloc {
		return core.ErrBufferAllocation
	}
	d.uboAllocs = append(d.uboAllocs, size)
	return nil
}

func (d *fakeDevice) UniformBufferSubData(offset int, data []byte) {
	d.uboSubData = append(d.uboSubData, subDataCall{offset: offset, size: len(data)})
}

func (d *fakeDevice) BindUniformBufferRange(binding, buffer uint32, offset, size int) {
	d.uboRangeBinds = append(d.uboRangeBinds, rangeBind{
		binding: binding, buffer: buffer, offset: offset, size: size,
	})
}

func (d *fakeDevice) UniformBufferOffsetAlignment() int32 {
	return d.offsetAlignment
}

func (d *fakeDevice) ClearColour(r, g, b, a float32)     {}
func (d *fakeDevice) Clear(colour, depth bool)           {}
func (d *fakeDevice) Viewport(x, y, width, height int32) {}

func (d *fakeDevice) DrawElements(prim renderer.Primitive, count, start int32) {
	d.drawElements = append(d.drawElements, drawCall{prim, count, start})
}

func (d *fakeDevice) DrawArrays(prim renderer.Primitive, first, count int32) {
	d.drawArrays = append(d.drawArrays, drawCall{prim, count, first})
}

func (d *fakeDevice) CompileShader(stage ShaderStage, source string) (uint32, error) {
	if d.failCompile {
		return 0, fmt.Errorf("compiling shader: syntax error")
	}
	return d.genName(), nil
}

func (d *fakeDevice) LinkProgram(vertex, fragment uint32) (uint32, error) {
	if d.failLink {
		return 0, fmt.Errorf("linking program: unresolved varying")
	}
	return d.genName(), nil
}

func (d *fakeDevice) DeleteShader(shader uint32)   {}
func (d *fakeDevice) DeleteProgram(program uint32) {}

func (d *fakeDevice) UniformLocation(program uint32, name string) int32 {
	if name == "missing" {
		return -1
	}
	loc, ok := d.locations[name]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[name] = loc
	}
	return loc
}

func (d *fakeDevice) UniformBlockIndex(program uint32, name string) (uint32, bool) {
	if name == "missing" {
		return 0, false
	}
	return 3, true
}

func (d *fakeDevice) UniformBlockBinding(program, index, binding uint32) {}

func (d *fakeDevice) SetUniformMat4(location int32, m mgl32.Mat4) {}
func (d *fakeDevice) SetUniformVec4(location int32, v mgl32.Vec4) {}
func (d *fakeDevice) SetUniformVec3(location int32, v mgl32.Vec3) {}
func (d *fakeDevice) SetUniformVec2(location int32, v mgl32.Vec2) {}

func (d *fakeDevice) SetUniformFloat(location int32, f float32) {
	d.uniformFloats[location] = f
}

func (d *fakeDevice) SetUniformInt(location int32, i int32) {
	d.uniformInts[location] = i
}

func (d *fakeDevice) Timestamp() uint64 {
	d.clock += d.clockStep
	return d.clock
}

// stubBuffer is a DrawBuffer with no backing storage.
type stubBuffer struct {
	vao  uint32
	prim renderer.Primitive
}

func (b *stubBuffer) VAO() uint32                   { return b.vao }
func (b *stubBuffer) Primitive() renderer.Primitive { return b.prim }

func newTestRenderer(t *testing.T, opts ...Option) (*OpenGLRenderer, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	r, err := New(dev, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, dev
}
