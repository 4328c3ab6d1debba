/*
Demo application drawing through the renderer. It opens a window, compiles
a minimal shader pair and submits a small scene every frame, with live
shader reload while running.
*/
package main

import (
	"os"
	"path/filepath"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pcercuei/openrw/engine/assets"
	"github.com/pcercuei/openrw/engine/config"
	"github.com/pcercuei/openrw/engine/core"
	"github.com/pcercuei/openrw/engine/platform"
	"github.com/pcercuei/openrw/engine/renderer"
	"github.com/pcercuei/openrw/engine/renderer/opengl"
)

const vertexShaderSource = `#version 330 core

layout(location = 0) in vec3 position;

layout(std140) uniform SceneData {
	mat4 projection;
	mat4 view;
	vec4 ambient;
	vec4 dynamic;
	vec4 fogColour;
	vec4 campos;
	float fogStart;
	float fogEnd;
};

layout(std140) uniform ObjectData {
	mat4 model;
	vec4 colour;
	float diffuse;
	float ambientScale;
	float visibility;
};

out vec4 Colour;

void main()
{
	gl_Position = projection * view * model * vec4(position, 1.0);
	Colour = colour * visibility;
}
`

const fragmentShaderSource = `#version 330 core

in vec4 Colour;
out vec4 outColour;

void main()
{
	outColour = Colour;
}
`

func main() {
	cfg, err := config.Load("openrw.toml")
	if err != nil {
		core.LogFatal("loading config: %s", err)
		os.Exit(1)
	}
	core.SetLogLevel(cfg.LogLevel)

	plat, err := platform.New()
	if err != nil {
		core.LogFatal("platform: %s", err)
		os.Exit(1)
	}
	if err := plat.Startup(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Window.VSync); err != nil {
		os.Exit(1)
	}
	defer plat.Shutdown()

	var opts []opengl.Option
	if cfg.Renderer.Profiling {
		opts = append(opts, opengl.WithProfiling())
	}
	if cfg.Renderer.ObjectRingEntries > 0 {
		opts = append(opts, opengl.WithObjectRingEntries(cfg.Renderer.ObjectRingEntries))
	}

	dev := opengl.NewDevice()
	r, err := opengl.New(dev, opts...)
	if err != nil {
		core.LogFatal("renderer: %s", err)
		os.Exit(1)
	}
	r.SetViewport(plat.FramebufferSize())
	plat.OnResize(r.SetViewport)

	shader, err := r.CreateShader(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		core.LogFatal("compiling demo shader: %s", err)
		os.Exit(1)
	}
	bindShaderBlocks(r, shader)

	triangle := opengl.NewGeometryBuffer(dev, renderer.Triangles)
	defer triangle.Destroy()
	uploadTriangle(triangle)

	var reload <-chan string
	if cfg.ShaderDir != "" {
		w, err := assets.NewWatcher(cfg.ShaderDir)
		if err != nil {
			core.LogWarn("shader watcher: %s", err)
		} else {
			defer w.Close()
			reload = w.Changed()
		}
	}

	metrics := core.NewMetrics()
	scene := renderer.NewSceneUniformData()
	scene.Ambient = mgl32.Vec4{0.2, 0.2, 0.25, 1}

	lastFrame := glfw.GetTime()
	for !plat.ShouldClose() {
		select {
		case path := <-reload:
			core.LogInfo("shader changed: %s", path)
			if next := reloadShader(r, cfg.ShaderDir); next != nil {
				shader.Destroy()
				shader = next
				bindShaderBlocks(r, shader)
			}
		default:
		}

		width, height := plat.FramebufferSize()
		scene.Projection = mgl32.Perspective(mgl32.DegToRad(60),
			float32(width)/float32(height), 0.1, 100)
		scene.View = mgl32.LookAtV(
			mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

		r.Clear(mgl32.Vec4{0.1, 0.1, 0.15, 1}, true, true)
		r.SetSceneParameters(scene)
		r.UseProgram(shader)

		r.PushDebugGroup("Scene")
		r.DrawBatched(buildScene(triangle, float32(glfw.GetTime())))
		info := r.PopDebugGroup()
		core.LogDebug("scene: %d draws, %d primitives, %dns",
			info.Draws, info.Primitives, info.Duration)

		now := glfw.GetTime()
		metrics.Update(now - lastFrame)
		lastFrame = now

		r.Swap()
		plat.SwapBuffers()
	}

	shader.Destroy()
	core.LogInfo("%.0f fps, %.2fms frame time at exit", metrics.FPS(), metrics.FrameTime())
}

func bindShaderBlocks(r renderer.Renderer, shader renderer.ShaderProgram) {
	r.SetProgramBlockBinding(shader, "SceneData", opengl.SceneBlockBinding)
	r.SetProgramBlockBinding(shader, "ObjectData", opengl.ObjectBlockBinding)
}

// reloadShader recompiles the demo program from the shader directory. Both
// stages fall back to the embedded source when the file is absent. A
// compile failure keeps the running program.
func reloadShader(r renderer.Renderer, dir string) renderer.ShaderProgram {
	vert := readShaderSource(filepath.Join(dir, "demo.vert"), vertexShaderSource)
	frag := readShaderSource(filepath.Join(dir, "demo.frag"), fragmentShaderSource)

	shader, err := r.CreateShader(vert, frag)
	if err != nil {
		core.LogError("shader reload failed: %s", err)
		return nil
	}
	return shader
}

func readShaderSource(path, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	return string(data)
}

func uploadTriangle(g *opengl.GeometryBuffer) {
	verts := []float32{
		-0.6, -0.5, 0,
		0.6, -0.5, 0,
		0, 0.6, 0,
	}
	g.UploadVertices(opengl.VertexBytes(verts), 3, renderer.VertexP3{}.Attributes())
	g.UploadIndices([]uint32{0, 1, 2})
}

// buildScene returns a small pre-sorted list: opaque instances first, then
// the blended ones, so the state cache collapses the blend switches.
func buildScene(geo *opengl.GeometryBuffer, angle float32) renderer.RenderList {
	instances := []struct {
		offset mgl32.Vec3
		blend  renderer.BlendMode
		colour renderer.Colour
	}{
		{mgl32.Vec3{-1, 0, 0}, renderer.BlendNone, renderer.Colour{230, 60, 60, 255}},
		{mgl32.Vec3{0, 0, 0}, renderer.BlendNone, renderer.Colour{60, 230, 60, 255}},
		{mgl32.Vec3{1, 0, 0}, renderer.BlendAlpha, renderer.Colour{60, 60, 230, 160}},
	}

	list := make(renderer.RenderList, 0, len(instances))
	for i, inst := range instances {
		dp := renderer.NewDrawParameters()
		dp.Count = geo.IndexCount()
		dp.BlendMode = inst.blend
		dp.Colour = inst.colour
		model := mgl32.Translate3D(inst.offset.X(), inst.offset.Y(), inst.offset.Z()).
			Mul4(mgl32.HomogRotate3DY(angle))
		list = append(list, renderer.RenderInstruction{
			SortKey:  renderer.RenderKey(i),
			Model:    model,
			Buffer:   geo,
			DrawInfo: dp,
		})
	}
	return list
}
