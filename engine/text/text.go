package text

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/renderer"
	"github.com/pcercuei/openrw/engine/renderer/opengl"
)

// Alignment positions a block of text relative to its screen anchor.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Style describes one piece of text to draw.
type Style struct {
	Text string
	// ScreenPosition is the anchor in pixels, top-left origin.
	ScreenPosition mgl32.Vec2
	// Size is the line height in pixels the text is scaled to.
	Size       float32
	BaseColour mgl32.Vec3
	Align      Alignment
}

// NewStyle returns the default text style: white, left aligned, drawn at
// the font's native line height.
func NewStyle(text string, size float32) Style {
	return Style{
		Text:       text,
		Size:       size,
		BaseColour: mgl32.Vec3{1, 1, 1},
		Align:      AlignLeft,
	}
}

// floatsPerVertex is position (2), texcoord (2) and colour (3).
const floatsPerVertex = 7

const vertexShaderSource = `#version 330 core

layout(location = 0) in vec2 position;
layout(location = 1) in vec2 texcoord;
layout(location = 2) in vec3 colour;

out vec2 TexCoord;
out vec3 Colour;

uniform mat4 proj;
uniform vec2 alignment;

void main()
{
	gl_Position = proj * vec4(alignment + position, 0.0, 1.0);
	TexCoord = texcoord;
	Colour = colour;
}
`

const fragmentShaderSource = `#version 330 core

in vec2 TexCoord;
in vec3 Colour;

uniform sampler2D fontTexture;

out vec4 outColour;

void main()
{
	float a = texture(fontTexture, TexCoord).a;
	outColour = vec4(Colour, a);
}
`

// Renderer draws screen-space text from a bitmap font atlas. Glyph quads
// are laid out on the CPU and submitted as one non-indexed draw per call,
// blended through the normal draw path.
type Renderer struct {
	backend renderer.Renderer
	geo     *opengl.GeometryBuffer
	shader  renderer.ShaderProgram

	font        *Font
	fontTexture uint32
}

// NewRenderer compiles the text shader and allocates the streaming
// geometry buffer. The font atlas texture is set separately.
func NewRenderer(backend renderer.Renderer, dev opengl.Device, font *Font) (*Renderer, error) {
	shader, err := backend.CreateShader(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		backend: backend,
		geo:     opengl.NewGeometryBuffer(dev, renderer.Triangles),
		shader:  shader,
		font:    font,
	}, nil
}

// SetFontTexture points the renderer at the uploaded atlas texture.
func (tr *Renderer) SetFontTexture(texture uint32) {
	tr.fontTexture = texture
}

// Draw lays out and submits one styled string. Empty strings draw nothing.
func (tr *Renderer) Draw(style Style) {
	verts, width := layoutText(tr.font, style)
	if len(verts) == 0 {
		return
	}

	anchor := style.ScreenPosition
	switch style.Align {
	case AlignRight:
		anchor[0] -= width
	case AlignCenter:
		anchor[0] -= width / 2
	}

	tr.backend.PushDebugGroup("Text")
	defer tr.backend.PopDebugGroup()

	tr.backend.SetUniformMat4(tr.shader, "proj", tr.backend.Projection2D())
	tr.backend.SetUniformVec2(tr.shader, "alignment", anchor)
	tr.backend.SetUniformTexture(tr.shader, "fontTexture", 0)

	count := int32(len(verts) / floatsPerVertex)
	tr.geo.UploadVertices(opengl.VertexBytes(verts), count, textAttributes())

	p := renderer.NewDrawParameters()
	p.Count = count
	p.BlendMode = renderer.BlendAlpha
	p.DepthMode = renderer.DepthOff
	p.DepthWrite = false
	p.Textures = renderer.Textures{tr.fontTexture}
	tr.backend.DrawArrays(mgl32.Ident4(), tr.geo, p)
}

// Destroy releases the shader and geometry buffer.
func (tr *Renderer) Destroy() {
	tr.shader.Destroy()
	tr.geo.Destroy()
}

func textAttributes() renderer.AttributeList {
	const stride = floatsPerVertex * 4
	return renderer.AttributeList{
		{Semantic: renderer.PositionAttribute, Size: 2, Stride: stride, Offset: 0},
		{Semantic: renderer.TexCoordAttribute, Size: 2, Stride: stride, Offset: 8},
		{Semantic: renderer.ColourAttribute, Size: 3, Stride: stride, Offset: 16},
	}
}

// layoutText builds glyph quads for the string, positions relative to the
// anchor. It returns the interleaved vertices and the widest line's width
// in pixels, which alignment shifts against.
func layoutText(f *Font, style Style) ([]float32, float32) {
	scale := float32(1)
	if lh := f.LineHeight(); lh > 0 && style.Size > 0 {
		scale = style.Size / lh
	}

	var verts []float32
	var cursor mgl32.Vec2
	var maxWidth float32
	var prev rune

	colour := style.BaseColour
	for _, r := range style.Text {
		if r == '\n' {
			cursor[0] = 0
			cursor[1] += f.LineHeight() * scale
			prev = 0
			continue
		}

		glyph, ok := f.glyph(r)
		if !ok {
			prev = 0
			continue
		}

		cursor[0] += f.kerning(prev, r) * scale
		prev = r

		x0 := cursor[0] + float32(glyph.XOffset)*scale
		y0 := cursor[1] + float32(glyph.YOffset)*scale
		x1 := x0 + float32(glyph.Width)*scale
		y1 := y0 + float32(glyph.Height)*scale
		u0, v0, u1, v1 := f.atlasUV(glyph)

		verts = append(verts,
			x0, y1, u0, v1, colour[0], colour[1], colour[2],
			x1, y1, u1, v1, colour[0], colour[1], colour[2],
			x0, y0, u0, v0, colour[0], colour[1], colour[2],

			x1, y0, u1, v0, colour[0], colour[1], colour[2],
			x0, y0, u0, v0, colour[0], colour[1], colour[2],
			x1, y1, u1, v1, colour[0], colour[1], colour[2],
		)

		cursor[0] += float32(glyph.XAdvance) * scale
		if cursor[0] > maxWidth {
			maxWidth = cursor[0]
		}
	}

	return verts, maxWidth
}
