package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlendMode selects how a draw is blended against the framebuffer.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// DepthMode selects the depth test applied to a draw.
type DepthMode int

const (
	DepthOff DepthMode = iota
	DepthLess
)

// RenderKey is an opaque sort key attached to a RenderInstruction. Its bit
// layout belongs to whichever component builds the RenderList; the dispatcher
// never inspects it and only benefits when equal-state draws are adjacent.
type RenderKey uint64

// TextureSlots is the number of texture units a single draw can bind.
const TextureSlots = 2

// Textures holds the texture names bound to the fixed draw units. Every
// slot is applied, so a zero entry unbinds whatever the unit held before.
type Textures [TextureSlots]uint32

// Colour is an 8-bit RGBA material colour.
type Colour [4]uint8

// DrawParameters carries the fixed-function state for one draw: the index
// range, texture bindings, blending and depth state, and material scalars.
// Since not all draws use the same shaders, material properties should be
// controlled via a different mechanism.
type DrawParameters struct {
	// Count is the number of indices (or vertices for non-indexed draws).
	Count int32
	// Start is the first index.
	Start int32
	// Textures to bind to the fixed draw units.
	Textures  Textures
	BlendMode BlendMode
	DepthMode DepthMode
	// DepthWrite controls writing to the depth buffer.
	DepthWrite bool
	// Colour is the material colour.
	Colour     Colour
	Ambient    float32
	Diffuse    float32
	Visibility float32
}

// NewDrawParameters returns the default draw state: no blending, less-than
// depth testing with depth writes on, and fully lit, fully visible material.
func NewDrawParameters() DrawParameters {
	return DrawParameters{
		BlendMode:  BlendNone,
		DepthMode:  DepthLess,
		DepthWrite: true,
		Colour:     Colour{255, 255, 255, 255},
		Ambient:    1,
		Diffuse:    1,
		Visibility: 1,
	}
}

// RenderInstruction is one deferred draw request. Instructions are built by
// an upstream object renderer and handed to DrawBatched in bulk.
type RenderInstruction struct {
	SortKey  RenderKey
	Model    mgl32.Mat4
	Buffer   DrawBuffer
	DrawInfo DrawParameters
}

// RenderList is a caller-ordered sequence of instructions for one frame.
// The producer is responsible for pre-sorting by key; the dispatcher
// consumes the list exactly in the order given.
type RenderList []RenderInstruction

// SceneUniformData holds the per-frame global uniforms.
type SceneUniformData struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Ambient    mgl32.Vec4
	Dynamic    mgl32.Vec4
	FogColour  mgl32.Vec4
	CamPos     mgl32.Vec4
	FogStart   float32
	FogEnd     float32
}

// NewSceneUniformData returns scene uniforms with identity matrices.
func NewSceneUniformData() SceneUniformData {
	return SceneUniformData{
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
	}
}

// ObjectUniformData is the per-draw uniform snapshot streamed into the
// object ring buffer. It is transient; its lifetime is one ring slot.
type ObjectUniformData struct {
	Model      mgl32.Mat4
	Colour     mgl32.Vec4
	Diffuse    float32
	Ambient    float32
	Visibility float32
}

// ProfileInfo is the profiling data returned by PopDebugGroup. With the
// no-op collector only the depth bookkeeping runs and all fields read zero.
type ProfileInfo struct {
	// TimerStart is the GPU timestamp at PushDebugGroup, in nanoseconds.
	TimerStart uint64
	// Duration is the elapsed GPU time of the span, in nanoseconds.
	Duration uint64
	// Counter deltas between the matching push and pop.
	Primitives uint
	Draws      uint
	Textures   uint
	Buffers    uint
	Uploads    uint
}
