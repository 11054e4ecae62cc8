package rtscam

import (
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState wraps the single shared GLFW window. The camera core never
// touches it; only the input module and the render front-end do.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func (ws *WindowState) GlfwWindow() *glfw.Window {
	return ws.windowGlfw
}

// PlatformWindowModule provides a shared WindowState resource. Install is
// idempotent: an existing WindowState resource is reused, preserving the
// single-window invariant.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "rtscam"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	t := reflect.TypeOf((*WindowState)(nil)).Elem()
	if _, ok := app.resources[t]; ok {
		return
	}

	app.addResources(createWindowState(m.Width, m.Height, m.Title))
	app.UseSystem(System(windowCloseSystem).InStage(Finale))
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	// No client API: this module owns the window, not a GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func windowCloseSystem(s *WindowState, exit *AppExit) {
	if s.windowGlfw.ShouldClose() {
		exit.Requested = true
	}
}
