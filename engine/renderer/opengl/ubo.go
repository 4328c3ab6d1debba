package opengl

import (
	"unsafe"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

// uniformBuffer is a fixed-capacity ring of GPU-visible uniform storage.
// Entries are written at the cursor and the cursor wraps modulo entryCount,
// so a slot is only reused after entryCount further uploads. That margin is
// what lets per-draw data stream without synchronizing against the GPU.
type uniformBuffer struct {
	name         uint32
	currentEntry uint32
	entryCount   uint32
	entrySize    uint32
	bufferSize   int
}

// createUBO allocates a ring of entryCount slots of entrySize bytes each,
// with the slot size rounded up to the driver's offset alignment. On
// allocation failure no usable object is left behind.
func (r *OpenGLRenderer) createUBO(entryCount, entrySize int) (*uniformBuffer, error) {
	if align := int(r.dev.UniformBufferOffsetAlignment()); align > 0 {
		entrySize = (entrySize + align - 1) / align * align
	}

	name := r.dev.GenBuffer()
	r.attachUBO(name)
	if err := r.dev.UniformBufferData(entryCount * entrySize); err != nil {
		r.dev.DeleteBuffer(name)
		r.currentUBO = 0
		return nil, err
	}

	return &uniformBuffer{
		name:       name,
		entryCount: uint32(entryCount),
		entrySize:  uint32(entrySize),
		bufferSize: entryCount * entrySize,
	}, nil
}

// attachUBO binds a uniform buffer, cached.
func (r *OpenGLRenderer) attachUBO(buffer uint32) {
	if r.currentUBO != buffer {
		r.dev.BindUniformBuffer(buffer)
		r.currentUBO = buffer
	}
}

// uploadUBOEntry writes data into the slot at the cursor, advances the
// cursor modulo the entry count, and returns the byte offset of the slot
// just written. It is the caller's responsibility that the GPU finished
// reading a slot before it comes around again.
func (r *OpenGLRenderer) uploadUBOEntry(buffer *uniformBuffer, data []byte) int {
	core.Assertf(len(data) <= int(buffer.entrySize),
		"uniform entry of %d bytes exceeds slot size %d", len(data), buffer.entrySize)

	r.attachUBO(buffer.name)
	offset := int(buffer.currentEntry) * int(buffer.entrySize)
	r.dev.UniformBufferSubData(offset, data)
	buffer.currentEntry = (buffer.currentEntry + 1) % buffer.entryCount
	r.uploadCounter++
	return offset
}

// std140 mirrors of the uniform structs. Field order and padding follow the
// block layout the engine shaders declare.

type sceneUniformStd140 struct {
	Projection [16]float32
	View       [16]float32
	Ambient    [4]float32
	Dynamic    [4]float32
	FogColour  [4]float32
	CamPos     [4]float32
	FogStart   float32
	FogEnd     float32
	_          [2]float32
}

type objectUniformStd140 struct {
	Model      [16]float32
	Colour     [4]float32
	Diffuse    float32
	Ambient    float32
	Visibility float32
	_          float32
}

var (
	sceneDataSize  = int(unsafe.Sizeof(sceneUniformStd140{}))
	objectDataSize = int(unsafe.Sizeof(objectUniformStd140{}))
)

func structBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

func sceneUniformBytes(d *renderer.SceneUniformData) []byte {
	s := sceneUniformStd140{
		Projection: [16]float32(d.Projection),
		View:       [16]float32(d.View),
		Ambient:    [4]float32(d.Ambient),
		Dynamic:    [4]float32(d.Dynamic),
		FogColour:  [4]float32(d.FogColour),
		CamPos:     [4]float32(d.CamPos),
		FogStart:   d.FogStart,
		FogEnd:     d.FogEnd,
	}
	return structBytes(&s)
}

func objectUniformBytes(d *renderer.ObjectUniformData) []byte {
	o := objectUniformStd140{
		Model:      [16]float32(d.Model),
		Colour:     [4]float32(d.Colour),
		Diffuse:    d.Diffuse,
		Ambient:    d.Ambient,
		Visibility: d.Visibility,
	}
	return structBytes(&o)
}
