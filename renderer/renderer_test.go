package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/scene"
	"github.com/achilleasa/embers/types"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func frontCamera() *scene.Camera {
	return scene.NewCamera(45, 0.1, 100, types.XYZ(0, 0, 10), types.XYZ(0, 0, 0))
}

func TestHeadlessFrameLimit(t *testing.T) {
	h := NewHeadless(Options{MaxFrames: 10})
	defer h.Close()

	var frames []uint64
	h.OnFrame(func(frame uint64) {
		frames = append(frames, frame)
	})

	if err := h.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(frames) != 10 {
		t.Fatalf("expected 10 frames; got %d", len(frames))
	}
	for index, frame := range frames {
		if frame != uint64(index+1) {
			t.Fatalf("[frame %d] expected frame number %d; got %d", index, index+1, frame)
		}
	}
	if stats := h.Stats(); stats.Frames != 10 {
		t.Fatalf("expected stats to report 10 frames; got %d", stats.Frames)
	}
}

func TestHeadlessKeysDeliveredBeforeFrame(t *testing.T) {
	h := NewHeadless(Options{MaxFrames: 2})
	defer h.Close()

	var events []string
	h.OnKey(func(key rune) {
		events = append(events, "key:"+string(key))
	})
	h.OnFrame(func(frame uint64) {
		events = append(events, "frame")
	})

	h.PressKey('1')
	h.PressKey('2')
	if err := h.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	exp := []string{"key:1", "key:2", "frame", "frame"}
	if len(events) != len(exp) {
		t.Fatalf("expected events %v; got %v", exp, events)
	}
	for index := range exp {
		if events[index] != exp[index] {
			t.Fatalf("expected events %v; got %v", exp, events)
		}
	}
}

func TestHeadlessCancelAndClose(t *testing.T) {
	h := NewHeadless(Options{FPS: 1000})

	ctx, cancel := context.WithCancel(context.Background())
	h.OnFrame(func(frame uint64) {
		if frame == 5 {
			cancel()
		}
	})
	if err := h.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := h.Stats().Frames; got != 5 {
		t.Fatalf("expected loop to stop after 5 frames; got %d", got)
	}

	h.Close()
	h.Close()
	if err := h.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed; got %v", err)
	}
}

func TestHostAttachDetach(t *testing.T) {
	h := NewHeadless(Options{})
	seg := render.NewSegment(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(1, 1, 1))

	h.Attach(seg)
	if stats := h.Stats(); stats.Attached != 1 || stats.Vertices != 2 {
		t.Fatalf("expected 1 renderable with 2 vertices; got %d and %d", stats.Attached, stats.Vertices)
	}
	h.Detach(seg)
	if got := h.Scene().Len(); got != 0 {
		t.Fatalf("expected empty scene; got %d renderables", got)
	}

	h.SetOverlay("live: 0")
	if got := h.Overlay(); got != "live: 0" {
		t.Fatalf("expected overlay to be stored; got %q", got)
	}
}

func TestUnknownHost(t *testing.T) {
	_, err := New("vulkan", Options{})
	if !errors.Is(err, ErrUnknownHost) {
		t.Fatalf("expected ErrUnknownHost; got %v", err)
	}

	h, err := New("headless", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.(*HeadlessHost); !ok {
		t.Fatalf("expected a headless host; got %T", h)
	}
}

func TestOpenGLInvalidWindow(t *testing.T) {
	_, err := NewOpenGL(Options{Width: 0, Height: 100})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow; got %v", err)
	}
}

func TestClipUnitSquare(t *testing.T) {
	type spec struct {
		x0, y0, x1, y1 float32
		expVisible     bool
		expT0, expT1   float32
	}
	specs := []spec{
		{-0.5, 0, 0.5, 0, true, 0, 1},
		{-2, 0, 2, 0, true, 0.25, 0.75},
		{2, 2, 3, 3, false, 0, 0},
		{0, 0, 0, 4, true, 0, 0.25},
		{-3, 2, 3, 2, false, 0, 0},
	}

	for index, s := range specs {
		t0, t1, visible := clipUnitSquare(s.x0, s.y0, s.x1, s.y1)
		if visible != s.expVisible {
			t.Errorf("[spec %d] expected visible to be %t", index, s.expVisible)
			continue
		}
		if !visible {
			continue
		}
		if t0 != s.expT0 || t1 != s.expT1 {
			t.Errorf("[spec %d] expected range [%f, %f]; got [%f, %f]", index, s.expT0, s.expT1, t0, t1)
		}
	}
}

func TestCanvasLine(t *testing.T) {
	c := newCanvas(10, 5)
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}

	c.line(0, 0, 9, 0, white, black, '•', false)

	// The line fades out; the last cells are too dark to be drawn.
	first, _ := c.at(0, 0)
	if !first.set || first.ch != '•' {
		t.Fatalf("expected first cell to be drawn; got %+v", first)
	}
	last, _ := c.at(9, 0)
	if last.set {
		t.Fatalf("expected black cell to be skipped")
	}
	mid, _ := c.at(4, 0)
	if mid.color.R <= 0.4 || mid.color.R >= 0.7 {
		t.Fatalf("expected interpolated color at the middle; got %v", mid.color)
	}

	c.line(3, 4, 3, 1, white, white, '█', false)
	for y := 1; y <= 4; y++ {
		if cl, _ := c.at(3, y); !cl.set || cl.ch != '█' {
			t.Fatalf("expected vertical line cell at (3, %d)", y)
		}
	}
}

func TestCanvasAdditivePlot(t *testing.T) {
	c := newCanvas(2, 2)
	c.plot(0, 0, '•', colorful.Color{R: 0.5}, true)
	c.plot(0, 0, '•', colorful.Color{R: 0.75, G: 0.25}, true)

	cl, _ := c.at(0, 0)
	if cl.color.R != 1 || cl.color.G != 0.25 {
		t.Fatalf("expected additive clamped color; got %v", cl.color)
	}

	c.plot(5, 5, '•', colorful.Color{R: 1}, true)
	if _, ok := c.at(5, 5); ok {
		t.Fatal("expected out of bounds lookup to fail")
	}
}

func TestCanvasSegmentBehindCamera(t *testing.T) {
	cam := frontCamera()
	c := newCanvas(20, 10)
	cam.SetupProjection(c.aspect())
	white := colorful.Color{R: 1, G: 1, B: 1}

	// Entirely behind the eye
	c.segment(cam, types.XYZ(-1, 0, 20), types.XYZ(1, 0, 20), white, white, '•', false)
	for _, cl := range c.cells {
		if cl.set {
			t.Fatal("expected segment behind the camera to be culled")
		}
	}

	// Crossing the eye plane; only the part in front is drawn.
	c.segment(cam, types.XYZ(0, 0, 0), types.XYZ(0, 0, 20), white, white, '•', false)
	center, _ := c.at(c.toCell(types.XYZ(0, 0, 0)))
	if !center.set {
		t.Fatal("expected the visible part of the segment to be drawn")
	}
}

func TestTerminalHostDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := newTerminalHost(screen, Options{FPS: 200, Camera: frontCamera()})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	screen.SetSize(40, 21)

	line := render.NewSegment(types.XYZ(-1, 0, 0), types.XYZ(1, 0, 0), types.XYZ(1, 0.5, 0))
	h.Attach(line)
	h.SetOverlay("live: 1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pressed rune
	h.OnFrame(func(frame uint64) {
		if frame == 3 {
			if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); err != nil {
				t.Errorf("post event: %v", err)
			}
		}
	})
	h.OnKey(func(key rune) {
		pressed = key
		cancel()
	})

	if err := h.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if pressed != 'x' {
		t.Fatalf("expected key 'x' to be dispatched; got %q", pressed)
	}

	w, th := screen.Size()
	found := false
	for y := 0; y < th-1 && !found; y++ {
		for x := 0; x < w; x++ {
			if mainc, _, _, _ := screen.GetContent(x, y); mainc == '•' {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("expected the segment to be drawn")
	}

	var status []rune
	for x := 0; x < len("live: 1"); x++ {
		mainc, _, _, _ := screen.GetContent(x, th-1)
		status = append(status, mainc)
	}
	if string(status) != "live: 1" {
		t.Fatalf("expected status line %q; got %q", "live: 1", string(status))
	}
}

func TestTerminalHostQuitKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	h, err := newTerminalHost(screen, Options{FPS: 200})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if err := h.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("expected the escape key to stop the loop before the timeout")
	}
}
