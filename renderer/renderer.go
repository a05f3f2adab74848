// Package renderer provides the render hosts that own the scene root, the
// camera and the frame loop.
package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/scene"
)

// Host is implemented by all render hosts.
type Host interface {
	// Attach a renderable to the scene root.
	Attach(render.Renderable)

	// Detach a renderable from the scene root.
	Detach(render.Renderable)

	// Get the scene root.
	Scene() *render.Scene

	// Get the camera used for drawing.
	Camera() *scene.Camera

	// Register the per-frame callback. It is invoked once per frame, before
	// the scene is drawn, with a monotonically increasing frame number
	// starting at 1.
	OnFrame(func(frame uint64))

	// Register the key press callback. It is invoked on the frame loop
	// thread for every printable key press.
	OnKey(func(key rune))

	// Set the overlay text (window title or status line).
	SetOverlay(text string)

	// Run the frame loop until ctx is cancelled, the user closes the host or
	// the configured frame limit is reached.
	Run(ctx context.Context) error

	// Release host resources.
	Close()

	// Get frame statistics.
	Stats() FrameStats
}

// State shared by all host implementations.
type hostBase struct {
	logger  log.Logger
	scene   *render.Scene
	camera  *scene.Camera
	opts    Options
	onFrame func(uint64)
	onKey   func(rune)
	overlay string

	frame     uint64
	totalTime time.Duration
	stats     FrameStats
	startedAt time.Time
}

func newHostBase(name string, opts Options) *hostBase {
	opts = opts.withDefaults()
	return &hostBase{
		logger: log.New(name),
		scene:  render.NewScene(),
		camera: opts.Camera,
		opts:   opts,
	}
}

func (h *hostBase) Attach(r render.Renderable) {
	h.scene.Attach(r)
}

func (h *hostBase) Detach(r render.Renderable) {
	h.scene.Detach(r)
}

func (h *hostBase) Scene() *render.Scene {
	return h.scene
}

func (h *hostBase) Camera() *scene.Camera {
	return h.camera
}

func (h *hostBase) OnFrame(fn func(uint64)) {
	h.onFrame = fn
}

func (h *hostBase) OnKey(fn func(rune)) {
	h.onKey = fn
}

func (h *hostBase) SetOverlay(text string) {
	h.overlay = text
}

// Get the current overlay text.
func (h *hostBase) Overlay() string {
	return h.overlay
}

func (h *hostBase) dispatchKey(key rune) {
	if h.onKey != nil {
		h.onKey(key)
	}
}

// Returns true once the configured frame limit has been reached.
func (h *hostBase) frameLimitReached() bool {
	return h.opts.MaxFrames > 0 && h.frame >= h.opts.MaxFrames
}

// Run the frame callback followed by draw and record timing stats.
func (h *hostBase) runFrame(draw func()) {
	if h.startedAt.IsZero() {
		h.startedAt = time.Now()
	}
	start := time.Now()

	h.frame++
	if h.onFrame != nil {
		h.onFrame(h.frame)
	}
	if draw != nil {
		draw()
	}

	elapsed := time.Since(start)
	h.totalTime += elapsed
	h.stats.Frames = h.frame
	h.stats.FrameTime = elapsed
	h.stats.AvgFrameTime = h.totalTime / time.Duration(h.frame)
	if elapsed > h.stats.MaxFrameTime {
		h.stats.MaxFrameTime = elapsed
	}
}

func (h *hostBase) Stats() FrameStats {
	s := h.stats
	s.Attached = h.scene.Len()
	s.Vertices = h.scene.VertexCount()
	if !h.startedAt.IsZero() {
		s.Uptime = time.Since(h.startedAt)
	}
	return s
}

// Create a host by name. Supported names are "gl", "term" and "headless".
func New(kind string, opts Options) (Host, error) {
	switch kind {
	case "gl":
		h, err := NewOpenGL(opts)
		if err != nil {
			return nil, err
		}
		return h, nil
	case "term":
		h, err := NewTerminal(opts)
		if err != nil {
			return nil, err
		}
		return h, nil
	case "headless":
		return NewHeadless(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHost, kind)
}
