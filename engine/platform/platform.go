package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/pcercuei/openrw/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform owns the window and the OpenGL context attached to it.
type Platform struct {
	Window *glfw.Window

	resizeCallback func(width, height int32)
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

// Startup creates the window with a 3.3 core context and makes the context
// current on the calling thread.
func (p *Platform) Startup(title string, width, height int32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	p.Window = window

	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.Show()

	return nil
}

// OnResize registers the handler for framebuffer size changes.
func (p *Platform) OnResize(fn func(width, height int32)) {
	p.resizeCallback = fn
}

// FramebufferSize returns the drawable size in pixels, which can differ
// from the window size on scaled displays.
func (p *Platform) FramebufferSize() (int32, int32) {
	w, h := p.Window.GetFramebufferSize()
	return int32(w), int32(h)
}

func (p *Platform) ShouldClose() bool {
	return p.Window.ShouldClose()
}

// SwapBuffers presents the frame and pumps the event queue.
func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
	glfw.PollEvents()
}

func (p *Platform) Shutdown() error {
	glfw.Terminate()
	return nil
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.resizeCallback != nil {
		p.resizeCallback(int32(width), int32(height))
	}
}
