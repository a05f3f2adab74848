package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	orbitStep = 5
	zoomStep  = 1.1
)

// TerminalHost draws the scene as colored character cells using tcell.
// The bottom row of the terminal is reserved for the overlay text.
type TerminalHost struct {
	*hostBase

	screen    tcell.Screen
	canvas    *canvas
	events    chan tcell.Event
	quit      chan struct{}
	closeOnce sync.Once
}

// Create a terminal host attached to the process tty.
func NewTerminal(opts Options) (*TerminalHost, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}
	return newTerminalHost(screen, opts)
}

func newTerminalHost(screen tcell.Screen, opts Options) (*TerminalHost, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}

	h := &TerminalHost{
		hostBase: newHostBase("terminal host", opts),
		screen:   screen,
		canvas:   newCanvas(0, 0),
		events:   make(chan tcell.Event, 100),
		quit:     make(chan struct{}),
	}
	h.syncSize()

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case h.events <- ev:
			case <-h.quit:
				return
			}
		}
	}()

	return h, nil
}

// Resize the canvas to match the screen, keeping the last row for the
// overlay.
func (h *TerminalHost) syncSize() {
	w, th := h.screen.Size()
	if w == h.canvas.width && th-1 == h.canvas.height {
		return
	}
	h.canvas.resize(w, th-1)
	h.camera.SetupProjection(h.canvas.aspect())
	h.logger.Debugf("resized to %dx%d cells", w, th)
}

// Handle an input event. Returns false if the host should stop.
func (h *TerminalHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			h.camera.Orbit(-orbitStep, 0)
		case tcell.KeyRight:
			h.camera.Orbit(orbitStep, 0)
		case tcell.KeyUp:
			h.camera.Orbit(0, orbitStep)
		case tcell.KeyDown:
			h.camera.Orbit(0, -orbitStep)
		case tcell.KeyPgUp:
			h.camera.Zoom(1 / zoomStep)
		case tcell.KeyPgDn:
			h.camera.Zoom(zoomStep)
		case tcell.KeyRune:
			h.dispatchKey(ev.Rune())
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.syncSize()
	}
	return true
}

func (h *TerminalHost) draw() {
	h.syncSize()
	h.canvas.clear()
	h.camera.Update()
	h.canvas.drawScene(h.camera, h.scene, h.opts.LightPos.Normalize())

	h.screen.Clear()
	h.canvas.flush(h.screen)

	// Overlay
	w, th := h.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range h.overlay {
		if x >= w {
			break
		}
		h.screen.SetContent(x, th-1, r, nil, style)
		x++
	}
	h.screen.Show()
}

// Run implements Host.
func (h *TerminalHost) Run(ctx context.Context) error {
	select {
	case <-h.quit:
		return ErrClosed
	default:
	}

	ticker := time.NewTicker(time.Second / time.Duration(h.opts.interactiveFPS()))
	defer ticker.Stop()

	h.logger.Noticef("starting frame loop at %d fps", h.opts.interactiveFPS())
	for !h.frameLimitReached() {
		select {
		case <-ctx.Done():
			return nil
		case <-h.quit:
			return nil
		case ev := <-h.events:
			if !h.handleEvent(ev) {
				h.logger.Notice("quit requested")
				return nil
			}
		case <-ticker.C:
			h.runFrame(h.draw)
		}
	}
	return nil
}

// Close implements Host.
func (h *TerminalHost) Close() {
	h.closeOnce.Do(func() {
		close(h.quit)
		h.screen.Fini()
	})
}
