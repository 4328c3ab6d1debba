package opengl

import (
	"unsafe"

	"github.com/pcercuei/openrw/engine/renderer"
)

// VertexBytes reinterprets interleaved float32 vertex data as the byte
// stream buffer uploads take.
func VertexBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// GeometryBuffer owns a vertex array with a single interleaved vertex
// buffer. It satisfies renderer.DrawBuffer so instructions can reference it.
type GeometryBuffer struct {
	dev        Device
	vao        uint32
	vbo        uint32
	ebo        uint32
	count      int32
	indexCount int32
	prim       renderer.Primitive
}

// NewGeometryBuffer allocates an empty buffer drawing the given topology.
func NewGeometryBuffer(dev Device, prim renderer.Primitive) *GeometryBuffer {
	return &GeometryBuffer{
		dev:  dev,
		vao:  dev.GenVertexArray(),
		vbo:  dev.GenBuffer(),
		prim: prim,
	}
}

// UploadVertices replaces the buffer contents with count interleaved
// vertices and wires the attribute layout into the vertex array. Attribute
// indices follow the order of the list.
func (g *GeometryBuffer) UploadVertices(data []byte, count int32, attrs renderer.AttributeList) {
	g.dev.BindVertexArray(g.vao)
	g.dev.BindArrayBuffer(g.vbo)
	g.dev.ArrayBufferData(data)
	for i, a := range attrs {
		g.dev.VertexAttrib(uint32(i), a.Size, a.Stride, a.Offset)
	}
	g.count = count
}

// UploadIndices attaches a 32-bit index buffer to the vertex array,
// enabling indexed draws from this buffer.
func (g *GeometryBuffer) UploadIndices(indices []uint32) {
	if g.ebo == 0 {
		g.ebo = g.dev.GenBuffer()
	}
	g.dev.BindVertexArray(g.vao)
	g.dev.BindElementBuffer(g.ebo)
	g.dev.ElementBufferData(indices)
	g.indexCount = int32(len(indices))
}

func (g *GeometryBuffer) VAO() uint32 {
	return g.vao
}

func (g *GeometryBuffer) Primitive() renderer.Primitive {
	return g.prim
}

// Count returns the number of vertices currently uploaded.
func (g *GeometryBuffer) Count() int32 {
	return g.count
}

// IndexCount returns the number of indices currently uploaded.
func (g *GeometryBuffer) IndexCount() int32 {
	return g.indexCount
}

func (g *GeometryBuffer) SetPrimitive(prim renderer.Primitive) {
	g.prim = prim
}

func (g *GeometryBuffer) Destroy() {
	if g.ebo != 0 {
		g.dev.DeleteBuffer(g.ebo)
		g.ebo = 0
	}
	g.dev.DeleteBuffer(g.vbo)
	g.dev.DeleteVertexArray(g.vao)
	g.vbo = 0
	g.vao = 0
}
