package renderer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/types"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.3
	mouseSensitivityY float32 = 0.3

	// Zoom factor applied per scroll wheel step.
	scrollZoomStep float32 = 1.1

	// Height in pixels for the frame time graph.
	frameGraphHeight uint32 = 40
)

// OpenGLHost draws the scene in a glfw window using the fixed-function
// OpenGL 2.1 pipeline. glfw requires all calls to be made from the thread
// that created the window so NewOpenGL, Run and Close must be invoked from
// the same goroutine.
type OpenGLHost struct {
	*hostBase

	window *glfw.Window
	fbW    int
	fbH    int

	// state
	lastCursorPos types.Vec2
	mousePressed  bool
	closed        bool

	// Display options
	showGraph  bool
	frameGraph *frameGraph
	lastTitle  string
}

// Create a new glfw window and an opengl host that draws into it.
func NewOpenGL(opts Options) (*OpenGLHost, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidWindow, opts.Width, opts.Height)
	}

	runtime.LockOSThread()

	h := &OpenGLHost{
		hostBase: newHostBase("opengl host", opts),
	}
	if err := h.initGL(); err != nil {
		h.Close()
		return nil, err
	}

	return h, nil
}

func (h *OpenGLHost) initGL() error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("%w: failed to initialize glfw: %w", ErrNoDisplay, err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Samples, 4)
	h.window, err = glfw.CreateWindow(h.opts.Width, h.opts.Height, h.opts.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: could not create opengl window: %w", ErrNoDisplay, err)
	}
	h.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err = gl.Init(); err != nil {
		return fmt.Errorf("%w: could not init opengl: %w", ErrNoDisplay, err)
	}
	h.logger.Infof("using opengl %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.LINE_SMOOTH)
	gl.Enable(gl.MULTISAMPLE)
	gl.ShadeModel(gl.SMOOTH)

	h.fbW, h.fbH = h.window.GetFramebufferSize()
	h.onResize(h.window, h.fbW, h.fbH)
	h.frameGraph = makeFrameGraph(h.fbW)

	// Bind event callbacks
	h.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	h.window.SetKeyCallback(h.onKeyEvent)
	h.window.SetCharCallback(h.onCharEvent)
	h.window.SetMouseButtonCallback(h.onMouseEvent)
	h.window.SetCursorPosCallback(h.onCursorPosEvent)
	h.window.SetScrollCallback(h.onScrollEvent)
	h.window.SetFramebufferSizeCallback(h.onResize)

	return nil
}

// Run implements Host.
func (h *OpenGLHost) Run(ctx context.Context) error {
	if h.closed {
		return ErrClosed
	}

	h.logger.Notice("starting frame loop")
	for !h.window.ShouldClose() && !h.frameLimitReached() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		glfw.PollEvents()
		h.runFrame(h.draw)
		h.window.SwapBuffers()
	}
	return nil
}

// Close implements Host.
func (h *OpenGLHost) Close() {
	if h.closed {
		return
	}
	h.closed = true
	if h.window != nil {
		h.window.SetShouldClose(true)
		h.window.Destroy()
		h.window = nil
	}
	glfw.Terminate()
}

func (h *OpenGLHost) draw() {
	bg := h.opts.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	h.camera.Update()
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&h.camera.ProjMat[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&h.camera.ViewMat[0])

	// The light position is specified in world space so it must be set
	// after loading the view matrix.
	lightDir := h.opts.LightPos.Normalize().Vec4(0)
	gl.Lightfv(gl.LIGHT0, gl.POSITION, &lightDir[0])

	h.drawMeshes()
	h.drawPolylines()

	if h.showGraph {
		h.drawGraph()
	}

	if h.overlay != h.lastTitle {
		h.lastTitle = h.overlay
		title := h.opts.Title
		if h.overlay != "" {
			title += " | " + h.overlay
		}
		h.window.SetTitle(title)
	}
}

func (h *OpenGLHost) drawMeshes() {
	ambient := types.XYZW(0.3, 0.3, 0.3, 1)
	diffuse := types.XYZW(0.7, 0.7, 0.7, 1)

	gl.Enable(gl.LIGHTING)
	gl.Enable(gl.LIGHT0)
	gl.Enable(gl.COLOR_MATERIAL)
	gl.Enable(gl.NORMALIZE)
	gl.LightModelfv(gl.LIGHT_MODEL_AMBIENT, &ambient[0])
	gl.Lightfv(gl.LIGHT0, gl.DIFFUSE, &diffuse[0])
	gl.ColorMaterial(gl.FRONT_AND_BACK, gl.AMBIENT_AND_DIFFUSE)

	h.scene.Each(func(r render.Renderable) {
		m, ok := r.(*render.Mesh)
		if !ok {
			return
		}
		gl.PushMatrix()
		gl.MultMatrixf(&m.Transform[0])
		gl.Begin(gl.TRIANGLES)
		for i := range m.Triangles {
			tri := &m.Triangles[i]
			gl.Color3fv(&tri.Color[0])
			gl.Normal3fv(&tri.Normal[0])
			for j := range tri.Vertices {
				gl.Vertex3fv(&tri.Vertices[j][0])
			}
		}
		gl.End()
		gl.PopMatrix()
	})

	gl.Disable(gl.COLOR_MATERIAL)
	gl.Disable(gl.LIGHTING)
}

func (h *OpenGLHost) drawPolylines() {
	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	defer func() {
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}()

	h.scene.Each(func(r render.Renderable) {
		p, ok := r.(*render.Polyline)
		if !ok || p.Released() || p.Len() == 0 {
			return
		}

		if p.Additive {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		} else {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
		gl.LineWidth(p.Width)
		gl.PointSize(p.Width)

		positions, colors := p.Positions(), p.Colors()
		mode := uint32(gl.LINE_STRIP)
		if len(positions) == 1 {
			mode = gl.POINTS
		}

		gl.PushMatrix()
		gl.MultMatrixf(&p.Transform[0])
		gl.Begin(mode)
		for i := range positions {
			gl.Color3fv(&colors[i][0])
			gl.Vertex3fv(&positions[i][0])
		}
		gl.End()
		gl.PopMatrix()
	})
}

// Draw the frame time graph along the bottom of the window.
func (h *OpenGLHost) drawGraph() {
	gl.Disable(gl.DEPTH_TEST)
	gl.MatrixMode(gl.PROJECTION)
	gl.PushMatrix()
	gl.LoadIdentity()
	gl.Ortho(0, float64(h.fbW), float64(h.fbH), 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.PushMatrix()
	gl.LoadIdentity()

	h.frameGraph.Append(float32(h.stats.FrameTime.Microseconds()) / 1000)
	h.frameGraph.Render(uint32(h.fbH)-frameGraphHeight, frameGraphHeight)

	gl.PopMatrix()
	gl.MatrixMode(gl.PROJECTION)
	gl.PopMatrix()
	gl.MatrixMode(gl.MODELVIEW)
	gl.Enable(gl.DEPTH_TEST)
}

func (h *OpenGLHost) onResize(w *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	h.fbW, h.fbH = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	h.camera.SetupProjection(float32(width) / float32(height))
	if h.frameGraph != nil {
		h.frameGraph = makeFrameGraph(width)
	}
}

func (h *OpenGLHost) onCharEvent(w *glfw.Window, char rune) {
	h.dispatchKey(char)
}

func (h *OpenGLHost) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if (mods & glfw.ModShift) == glfw.ModShift {
		speedScaler = 2.0
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyLeft:
		h.camera.Orbit(-orbitStep*speedScaler, 0)
	case glfw.KeyRight:
		h.camera.Orbit(orbitStep*speedScaler, 0)
	case glfw.KeyUp:
		h.camera.Orbit(0, orbitStep*speedScaler)
	case glfw.KeyDown:
		h.camera.Orbit(0, -orbitStep*speedScaler)
	case glfw.KeyPageUp:
		h.camera.Zoom(1 / zoomStep)
	case glfw.KeyPageDown:
		h.camera.Zoom(zoomStep)
	case glfw.KeyTab:
		h.showGraph = !h.showGraph
		if h.showGraph {
			h.frameGraph.Clear()
		}
	}
}

func (h *OpenGLHost) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	h.mousePressed = action == glfw.Press
	if h.mousePressed {
		xPos, yPos := w.GetCursorPos()
		h.lastCursorPos[0], h.lastCursorPos[1] = float32(xPos), float32(yPos)
	}
}

func (h *OpenGLHost) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !h.mousePressed {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := types.XY(float32(xPos), float32(yPos))
	dx := (newPos[0] - h.lastCursorPos[0]) * mouseSensitivityX
	dy := (newPos[1] - h.lastCursorPos[1]) * mouseSensitivityY
	h.lastCursorPos = newPos

	// Dragging rotates the eye around the target
	h.camera.Orbit(dx, dy)
}

func (h *OpenGLHost) onScrollEvent(w *glfw.Window, xOff, yOff float64) {
	switch {
	case yOff > 0:
		h.camera.Zoom(1 / scrollZoomStep)
	case yOff < 0:
		h.camera.Zoom(scrollZoomStep)
	}
}

// A scrolling graph of frame times in milliseconds.
type frameGraph struct {
	samples []float32
	color   types.Vec3
}

func makeFrameGraph(histCount int) *frameGraph {
	return &frameGraph{
		samples: make([]float32, histCount),
		color:   types.XYZ(1.0, 0.6, 0.1),
	}
}

// Clear samples.
func (g *frameGraph) Clear() {
	for i := range g.samples {
		g.samples[i] = 0
	}
}

// Shift samples and append new value at the end.
func (g *frameGraph) Append(val float32) {
	if len(g.samples) == 0 {
		return
	}
	g.samples = append(g.samples[1:], val)
}

func (g *frameGraph) Render(rY, rHeight uint32) {
	var peak float32
	for _, s := range g.samples {
		if s > peak {
			peak = s
		}
	}
	var scale float32 = 1.0
	if peak > 0.0 {
		scale = float32(rHeight) / peak
	}

	gl.LineWidth(1.0)
	gl.Color3fv(&g.color[0])
	gl.Begin(gl.LINES)
	bottom := float32(rY + rHeight)
	for x, s := range g.samples {
		gl.Vertex2f(float32(x), bottom)
		gl.Vertex2f(float32(x), bottom-s*scale)
	}
	gl.End()
}
