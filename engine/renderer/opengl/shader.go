package opengl

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/renderer"
)

// Program is the concrete shader-program handle. Outside this package it is
// only ever seen as the opaque renderer.ShaderProgram capability.
type Program struct {
	name     uint32
	id       string
	dev      Device
	uniforms map[string]int32
}

func (p *Program) ID() string {
	return p.id
}

func (p *Program) Destroy() {
	p.dev.DeleteProgram(p.name)
	p.name = 0
}

// uniformLocation resolves a uniform by name, cached. A miss resolves to -1
// and every setter treats that as a silent no-op.
func (p *Program) uniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.name, name)
	p.uniforms[name] = loc
	return loc
}

// CompileShader compiles a single shader stage from source text. Diagnostic
// output from the driver is carried in the returned error.
func CompileShader(dev Device, stage ShaderStage, source string) (uint32, error) {
	return dev.CompileShader(stage, source)
}

// CompileProgram compiles a vertex and fragment stage and links them into a
// program object. The intermediate shader objects are released either way.
func CompileProgram(dev Device, vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := CompileShader(dev, VertexStage, vertexSrc)
	if err != nil {
		return 0, err
	}
	frag, err := CompileShader(dev, FragmentStage, fragmentSrc)
	if err != nil {
		dev.DeleteShader(vert)
		return 0, err
	}
	program, err := dev.LinkProgram(vert, frag)
	dev.DeleteShader(vert)
	dev.DeleteShader(frag)
	if err != nil {
		return 0, err
	}
	return program, nil
}

func (r *OpenGLRenderer) CreateShader(vertexSrc, fragmentSrc string) (renderer.ShaderProgram, error) {
	name, err := CompileProgram(r.dev, vertexSrc, fragmentSrc)
	if err != nil {
		core.LogError("shader program creation failed: %s", err)
		return nil, err
	}
	p := &Program{
		name:     name,
		id:       uuid.New().String(),
		dev:      r.dev,
		uniforms: make(map[string]int32),
	}
	core.LogDebug("created shader program %s", p.id)
	return p, nil
}

func (r *OpenGLRenderer) SetProgramBlockBinding(p renderer.ShaderProgram, name string, binding uint32) {
	prog := p.(*Program)
	if index, ok := r.dev.UniformBlockIndex(prog.name, name); ok {
		r.dev.UniformBlockBinding(prog.name, index, binding)
	}
}

func (r *OpenGLRenderer) SetUniformTexture(p renderer.ShaderProgram, name string, unit int32) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformInt(loc, unit)
	}
}

func (r *OpenGLRenderer) SetUniformMat4(p renderer.ShaderProgram, name string, m mgl32.Mat4) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformMat4(loc, m)
	}
}

func (r *OpenGLRenderer) SetUniformVec4(p renderer.ShaderProgram, name string, v mgl32.Vec4) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformVec4(loc, v)
	}
}

func (r *OpenGLRenderer) SetUniformVec3(p renderer.ShaderProgram, name string, v mgl32.Vec3) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformVec3(loc, v)
	}
}

func (r *OpenGLRenderer) SetUniformVec2(p renderer.ShaderProgram, name string, v mgl32.Vec2) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformVec2(loc, v)
	}
}

func (r *OpenGLRenderer) SetUniformFloat(p renderer.ShaderProgram, name string, f float32) {
	r.UseProgram(p)
	if loc := p.(*Program).uniformLocation(name); loc >= 0 {
		r.dev.SetUniformFloat(loc, f)
	}
}
