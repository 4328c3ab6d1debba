package opengl

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

// Uniform block binding points shared with the engine shaders. Programs
// bind their SceneData and ObjectData blocks to these.
const (
	SceneBlockBinding  uint32 = 1
	ObjectBlockBinding uint32 = 2
)

// defaultObjectRingEntries is the depth of the per-object uniform ring. A
// slot is only reused after this many further draws, which is the safety
// margin against overwriting data the GPU is still reading.
const defaultObjectRingEntries = 1024

// Sentinels marking cached state as unknown, so the next setter re-applies
// unconditionally. Invalidate installs these.
const (
	invalidBlend = renderer.BlendMode(-1)
	invalidDepth = renderer.DepthMode(-1)
)

// OpenGLRenderer implements renderer.Renderer on an OpenGL 3.3 core
// context. It keeps a cache of the currently bound pipeline state and only
// emits a driver call when a requested value differs from the cached one.
type OpenGLRenderer struct {
	renderer.Base

	dev Device

	uboScene  *uniformBuffer
	uboObject *uniformBuffer

	// State cache.
	currentBuffer   renderer.DrawBuffer
	currentProgram  *Program
	blendMode       renderer.BlendMode
	depthMode       renderer.DepthMode
	depthWrite      int8 // -1 unknown, 0 off, 1 on
	currentUBO      uint32
	currentUnit     uint32
	currentTextures map[uint32]uint32

	spans      spanCollector
	debugDepth int

	// Totals feeding the profiling spans only; not part of the contract
	// counters.
	primitiveCounter uint
	uploadCounter    uint

	objectRingEntries int
	profiling         bool
}

// Option configures renderer construction.
type Option func(*OpenGLRenderer)

// WithProfiling enables the recording span collector. Without it the span
// stack still enforces nesting but collects nothing.
func WithProfiling() Option {
	return func(r *OpenGLRenderer) {
		r.profiling = true
	}
}

// WithObjectRingEntries overrides the depth of the per-object uniform ring.
func WithObjectRingEntries(entries int) Option {
	return func(r *OpenGLRenderer) {
		core.Assertf(entries > 0, "object ring must hold at least one entry, got %d", entries)
		r.objectRingEntries = entries
	}
}

// New builds a renderer on the given device. The graphics context must be
// current; New loads the API and allocates the uniform rings.
func New(dev Device, opts ...Option) (*OpenGLRenderer, error) {
	// Blend and depth test start disabled on a fresh context; the depth
	// mask default is on, so it starts unknown and the first draw applies
	// it.
	r := &OpenGLRenderer{
		dev:               dev,
		blendMode:         renderer.BlendNone,
		depthMode:         renderer.DepthOff,
		depthWrite:        -1,
		currentTextures:   make(map[uint32]uint32),
		objectRingEntries: defaultObjectRingEntries,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("loading OpenGL: %w", err)
	}

	var err error
	if r.uboScene, err = r.createUBO(1, sceneDataSize); err != nil {
		return nil, fmt.Errorf("scene uniform buffer: %w", err)
	}
	if r.uboObject, err = r.createUBO(r.objectRingEntries, objectDataSize); err != nil {
		return nil, fmt.Errorf("object uniform buffer: %w", err)
	}

	if r.profiling {
		r.spans = &timingCollector{dev: dev}
	} else {
		r.spans = &nopCollector{}
	}

	core.LogInfo("renderer initialized: %s", r.IDString())
	return r, nil
}

func (r *OpenGLRenderer) IDString() string {
	return "OpenGL " + r.dev.Version()
}

// setBlend switches the blend mode. Blending is only toggled at the
// none/non-none edges; transitions between enabled modes change the blend
// function alone.
func (r *OpenGLRenderer) setBlend(mode renderer.BlendMode) {
	if mode != renderer.BlendNone && (r.blendMode == renderer.BlendNone || r.blendMode == invalidBlend) {
		r.dev.SetBlendEnabled(true)
	}

	if mode != r.blendMode {
		switch mode {
		case renderer.BlendNone:
			r.dev.SetBlendEnabled(false)
		case renderer.BlendAlpha:
			r.dev.BlendFunc(BlendSrcAlpha, BlendOneMinusSrcAlpha)
		case renderer.BlendAdditive:
			r.dev.BlendFunc(BlendOne, BlendOne)
		default:
			core.Assertf(false, "unknown blend mode %d", mode)
		}
	}

	r.blendMode = mode
}

// setDepthMode switches the depth test. The test is only toggled at the
// off/non-off edges; the comparison function changes independently.
func (r *OpenGLRenderer) setDepthMode(mode renderer.DepthMode) {
	if mode == r.depthMode {
		return
	}
	if r.depthMode == renderer.DepthOff || r.depthMode == invalidDepth {
		if mode != renderer.DepthOff {
			r.dev.SetDepthTest(true)
		}
	}
	switch mode {
	case renderer.DepthOff:
		r.dev.SetDepthTest(false)
	case renderer.DepthLess:
		r.dev.DepthFunc(DepthFuncLess)
	default:
		core.Assertf(false, "unknown depth mode %d", mode)
	}
	r.depthMode = mode
}

func (r *OpenGLRenderer) setDepthWrite(enable bool) {
	v := int8(0)
	if enable {
		v = 1
	}
	if v != r.depthWrite {
		r.dev.DepthMask(enable)
		r.depthWrite = v
	}
}

// useTexture binds a texture to a unit, cached per unit.
func (r *OpenGLRenderer) useTexture(unit, texture uint32) {
	if r.currentTextures[unit] == texture {
		return
	}
	if r.currentUnit != unit {
		r.dev.ActiveTexture(unit)
		r.currentUnit = unit
	}
	r.dev.BindTexture(texture)
	r.currentTextures[unit] = texture
	r.TextureCounter++
}

func (r *OpenGLRenderer) useDrawBuffer(buffer renderer.DrawBuffer) {
	if buffer != r.currentBuffer {
		r.dev.BindVertexArray(buffer.VAO())
		r.currentBuffer = buffer
		r.BufferCounter++
	}
}

func (r *OpenGLRenderer) UseProgram(p renderer.ShaderProgram) {
	prog := p.(*Program)
	if prog != r.currentProgram {
		r.currentProgram = prog
		r.dev.UseProgram(prog.name)
	}
}

// setDrawState applies one DrawParameters against the cache and stages the
// per-object uniforms for the draw that follows.
func (r *OpenGLRenderer) setDrawState(model mgl32.Mat4, buffer renderer.DrawBuffer, p *renderer.DrawParameters) {
	r.useDrawBuffer(buffer)

	r.setBlend(p.BlendMode)
	r.setDepthMode(p.DepthMode)
	r.setDepthWrite(p.DepthWrite)

	for unit, texture := range p.Textures {
		r.useTexture(uint32(unit), texture)
	}

	obj := renderer.ObjectUniformData{
		Model:      model,
		Colour:     colourToVec4(p.Colour),
		Diffuse:    p.Diffuse,
		Ambient:    p.Ambient,
		Visibility: p.Visibility,
	}
	offset := r.uploadUBOEntry(r.uboObject, objectUniformBytes(&obj))
	r.dev.BindUniformBufferRange(ObjectBlockBinding, r.uboObject.name,
		offset, int(r.uboObject.entrySize))
}

func colourToVec4(c renderer.Colour) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

func (r *OpenGLRenderer) Draw(model mgl32.Mat4, buffer renderer.DrawBuffer, p renderer.DrawParameters) {
	r.setDrawState(model, buffer, &p)
	r.dev.DrawElements(buffer.Primitive(), p.Count, p.Start)
	r.DrawCounter++
	r.primitiveCounter += uint(p.Count)
}

func (r *OpenGLRenderer) DrawArrays(model mgl32.Mat4, buffer renderer.DrawBuffer, p renderer.DrawParameters) {
	r.setDrawState(model, buffer, &p)
	r.dev.DrawArrays(buffer.Primitive(), p.Start, p.Count)
	r.DrawCounter++
	r.primitiveCounter += uint(p.Count)
}

// DrawBatched submits the list in the order given; it does not sort. When
// the producer pre-sorted by key so that equal-state draws are adjacent,
// the state cache collapses the cost to one state change per distinct
// state rather than per draw.
func (r *OpenGLRenderer) DrawBatched(list renderer.RenderList) {
	for i := range list {
		ri := &list[i]
		r.setDrawState(ri.Model, ri.Buffer, &ri.DrawInfo)
		r.dev.DrawElements(ri.Buffer.Primitive(), ri.DrawInfo.Count, ri.DrawInfo.Start)
		r.DrawCounter++
		r.primitiveCounter += uint(ri.DrawInfo.Count)
	}
}

func (r *OpenGLRenderer) Clear(colour mgl32.Vec4, clearColour, clearDepth bool) {
	r.dev.ClearColour(colour[0], colour[1], colour[2], colour[3])
	r.dev.Clear(clearColour, clearDepth)
}

func (r *OpenGLRenderer) SetSceneParameters(data renderer.SceneUniformData) {
	offset := r.uploadUBOEntry(r.uboScene, sceneUniformBytes(&data))
	r.dev.BindUniformBufferRange(SceneBlockBinding, r.uboScene.name,
		offset, int(r.uboScene.entrySize))
	r.LastSceneData = data
}

func (r *OpenGLRenderer) SetViewport(width, height int32) {
	r.Base.SetViewport(width, height)
	r.dev.Viewport(0, 0, width, height)
}

// Invalidate forgets every cached binding without touching driver state.
// Every subsequent setter re-applies on next use. This is the only recovery
// from state mutated outside this renderer.
func (r *OpenGLRenderer) Invalidate() {
	r.currentBuffer = nil
	r.currentProgram = nil
	r.blendMode = invalidBlend
	r.depthMode = invalidDepth
	r.depthWrite = -1
	r.currentUBO = 0
	r.currentUnit = ^uint32(0)
	r.currentTextures = make(map[uint32]uint32)
}

func (r *OpenGLRenderer) PushDebugGroup(title string) {
	core.Assertf(r.debugDepth < MaxDebugDepth,
		"debug group %q exceeds maximum nesting depth %d", title, MaxDebugDepth)
	r.spans.begin(r.debugDepth, title, r.counterSnapshot())
	r.debugDepth++
}

func (r *OpenGLRenderer) PopDebugGroup() *renderer.ProfileInfo {
	core.Assertf(r.debugDepth > 0, "popDebugGroup with no open debug group")
	r.debugDepth--
	return r.spans.end(r.debugDepth, r.counterSnapshot())
}

func (r *OpenGLRenderer) counterSnapshot() counterSnapshot {
	return counterSnapshot{
		primitives: r.primitiveCounter,
		draws:      uint(r.DrawCount()),
		textures:   uint(r.TextureCount()),
		buffers:    uint(r.BufferCount()),
		uploads:    r.uploadCounter,
	}
}
