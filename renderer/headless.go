package renderer

import (
	"context"
	"sync"
	"time"
)

// HeadlessHost drives the frame loop without drawing anything. It is used
// for simulations and tests.
type HeadlessHost struct {
	*hostBase

	mu        sync.Mutex
	keys      []rune
	closed    chan struct{}
	closeOnce sync.Once
}

// Create a headless host.
func NewHeadless(opts Options) *HeadlessHost {
	return &HeadlessHost{
		hostBase: newHostBase("headless host", opts),
		closed:   make(chan struct{}),
	}
}

// Queue a key press. Queued keys are delivered to the key callback at the
// start of the next frame. Safe to call from any goroutine.
func (h *HeadlessHost) PressKey(key rune) {
	h.mu.Lock()
	h.keys = append(h.keys, key)
	h.mu.Unlock()
}

func (h *HeadlessHost) deliverKeys() {
	h.mu.Lock()
	keys := h.keys
	h.keys = nil
	h.mu.Unlock()

	for _, key := range keys {
		h.dispatchKey(key)
	}
}

// Run implements Host.
func (h *HeadlessHost) Run(ctx context.Context) error {
	select {
	case <-h.closed:
		return ErrClosed
	default:
	}

	var tick <-chan time.Time
	if h.opts.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(h.opts.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	h.logger.Infof("starting frame loop (fps: %d, max frames: %d)", h.opts.FPS, h.opts.MaxFrames)
	for !h.frameLimitReached() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-h.closed:
				return nil
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return nil
			case <-h.closed:
				return nil
			default:
			}
		}

		h.deliverKeys()
		h.runFrame(nil)
	}
	return nil
}

// Close implements Host.
func (h *HeadlessHost) Close() {
	h.closeOnce.Do(func() { close(h.closed) })
}
