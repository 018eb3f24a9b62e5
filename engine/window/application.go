package window

import (
	"fmt"
	"math"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/memmaker/glyphmosaic/engine/glhf"
	"github.com/memmaker/glyphmosaic/engine/util"
)

type GlApplication struct {
	Window             *glfw.Window
	Title              string
	TerminateFunc      func()
	UpdateFunc         func(elapsed float64)
	DrawFunc           func(elapsed float64)
	StatusFunc         func() string
	KeyHandler         func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MousePosHandler    func(xpos float64, ypos float64)
	MouseButtonHandler func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)
	ScrollHandler      func(xoff float64, yoff float64)
	ResizeHandler      func(width, height int)
	WindowWidth        int
	WindowHeight       int
	ticks              uint64
	previousTime       float64
	FramesPerSecond    float64
	FPSRunningAvg      float64
	FPSMin             float64
	FPSMax             float64
}

func (a *GlApplication) KeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.KeyHandler != nil {
		a.KeyHandler(key, scancode, action, mods)
	}
}

func (a *GlApplication) MousePosCallback(w *glfw.Window, xpos float64, ypos float64) {
	if a.MousePosHandler != nil {
		a.MousePosHandler(xpos, ypos)
	}
}

func (a *GlApplication) ScrollCallback(w *glfw.Window, xoff float64, yoff float64) {
	if a.ScrollHandler != nil {
		a.ScrollHandler(xoff, yoff)
	}
}

func (a *GlApplication) MouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if a.MouseButtonHandler != nil {
		a.MouseButtonHandler(button, action, mods)
	}
}

func (a *GlApplication) FramebufferSizeCallback(w *glfw.Window, width int, height int) {
	if width == 0 || height == 0 {
		// minimized
		return
	}
	a.WindowWidth = width
	a.WindowHeight = height
	if a.ResizeHandler != nil {
		a.ResizeHandler(width, height)
	}
}

// RegisterCallbacks wires the GLFW window callbacks to the handler fields.
func (a *GlApplication) RegisterCallbacks() {
	a.Window.SetKeyCallback(a.KeyCallback)
	a.Window.SetCursorPosCallback(a.MousePosCallback)
	a.Window.SetMouseButtonCallback(a.MouseButtonCallback)
	a.Window.SetScrollCallback(a.ScrollCallback)
	a.Window.SetFramebufferSizeCallback(a.FramebufferSizeCallback)
}

// Run drives the render loop. Every frame executes on the main thread through
// mainthread.Call, so finalizers queued with mainthread.CallNonBlock get to run in between.
func (a *GlApplication) Run() {
	defer mainthread.Call(a.TerminateFunc)
	a.previousTime = mainthread.CallVal(func() interface{} { return glfw.GetTime() }).(float64)
	a.FPSMin = math.MaxFloat64
	running := true
	for running {
		mainthread.Call(func() {
			running = !a.Window.ShouldClose()
			if running {
				a.frame()
			}
		})
	}
}

func (a *GlApplication) frame() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	now := glfw.GetTime()
	elapsed := now - a.previousTime
	a.previousTime = now
	a.UpdateFunc(elapsed)

	a.DrawFunc(elapsed)

	if elapsed > 0 {
		a.FramesPerSecond = 1.0 / elapsed
	}
	if a.ticks%60 == 0 {
		status := ""
		if a.StatusFunc != nil {
			status = " | " + a.StatusFunc()
		}
		a.Window.SetTitle(fmt.Sprintf("%s - FPS: %.0f (Avg: %.0f, Min: %.0f, Max: %.0f)%s", a.Title, a.FramesPerSecond, a.FPSRunningAvg, a.FPSMin, a.FPSMax, status))
		a.FPSRunningAvg = a.FramesPerSecond * (1.0 / 60.0)
		a.FPSMin = math.MaxFloat64
		a.FPSMax = 0
	} else {
		a.FPSRunningAvg += a.FramesPerSecond * (1.0 / 60.0)
		if a.FramesPerSecond < a.FPSMin {
			a.FPSMin = a.FramesPerSecond
		}
		if a.FramesPerSecond > a.FPSMax {
			a.FPSMax = a.FramesPerSecond
		}
	}

	a.Window.SwapBuffers()
	glfw.PollEvents()
	a.ticks++
}

func InitOpenGL(title string, width, height int) (*glfw.Window, func()) {
	glErr := glfw.Init()
	if glErr != nil {
		util.LogGlError("glfw: " + glErr.Error())
		panic(glErr)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1) // enable (1) vsync

	glhf.Init()

	version := gl.GoStr(gl.GetString(gl.VERSION))
	util.LogGlInfo(fmt.Sprintf("OpenGL version %s", version))

	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.DEPTH_TEST)

	// imported models come with arbitrary winding, so faces are not culled
	gl.Disable(gl.CULL_FACE)

	return win, func() {
		glfw.Terminate()
	}
}
