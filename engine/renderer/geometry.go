package renderer

// Primitive is the topology geometry is assembled with.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

// AttributeSemantic identifies what a vertex attribute feeds.
type AttributeSemantic int

const (
	PositionAttribute AttributeSemantic = iota
	NormalAttribute
	ColourAttribute
	TexCoordAttribute
)

// Attribute describes one interleaved vertex attribute.
type Attribute struct {
	Semantic AttributeSemantic
	// Size is the number of float components.
	Size int32
	// Stride is the byte distance between consecutive vertices.
	Stride int32
	// Offset is the byte offset of this attribute within a vertex.
	Offset uintptr
}

type AttributeList []Attribute

// DrawBuffer is the dispatcher's view of externally owned geometry. The
// renderer only ever binds it for drawing; creation, upload and destruction
// belong to the caller.
type DrawBuffer interface {
	// VAO returns the native vertex array name.
	VAO() uint32
	// Primitive returns the topology draws from this buffer use.
	Primitive() Primitive
}

// VertexP2 is a bare 2D position vertex.
type VertexP2 struct {
	X, Y float32
}

func (VertexP2) Attributes() AttributeList {
	return AttributeList{
		{Semantic: PositionAttribute, Size: 2, Stride: 8, Offset: 0},
	}
}

// VertexP3 is a bare 3D position vertex.
type VertexP3 struct {
	X, Y, Z float32
}

func (VertexP3) Attributes() AttributeList {
	return AttributeList{
		{Semantic: PositionAttribute, Size: 3, Stride: 12, Offset: 0},
	}
}
