// Package effect implements time-bounded animated visual effects and the
// registry that drives them once per frame.
//
// Every effect follows the same lifecycle:
//
//	Uninitialized --Init--> Active --Update*--> Done --Dispose--> Disposed
//
// Update is a no-op once an effect is done and Disposed is terminal.
package effect

import (
	"fmt"

	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/render"
)

var logger = log.New("effect")

// Host is the part of a render host that effects and the registry need:
// attaching and detaching renderables to the scene root.
type Host interface {
	Attach(render.Renderable)
	Detach(render.Renderable)
}

// Effect is a self-contained animated visual behavior.
type Effect interface {
	// Allocate particle state and renderables. Must be called exactly once
	// before the first Update.
	Init() error

	// Advance the effect by one frame.
	Update(host Host)

	// Release the buffers owned by the effect. Safe to call more than once.
	Dispose()

	// Returns true once the effect has finished. Never reverts to false.
	Done() bool

	// Number of Update calls that advanced the effect.
	Frames() int

	// The renderables to attach to the host once, when the effect is spawned.
	Renderables() []render.Renderable

	// The effect variant.
	Kind() Kind
}

type lifecycleState uint8

const (
	stateUninitialized lifecycleState = iota
	stateActive
	stateDone
	stateDisposed
)

func (s lifecycleState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateActive:
		return "active"
	case stateDone:
		return "done"
	case stateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Base tracks the lifecycle shared by all effect variants. Variants embed it
// and bracket their work with beginInit/beginUpdate/beginDispose.
type Base struct {
	state       lifecycleState
	frames      int
	maxFrames   int
	renderables []render.Renderable
}

// Done implements Effect.
func (b *Base) Done() bool {
	return b.state >= stateDone
}

// Frames implements Effect.
func (b *Base) Frames() int {
	return b.frames
}

// Renderables implements Effect.
func (b *Base) Renderables() []render.Renderable {
	return b.renderables
}

// Transition to the active state. The effect becomes done once more than
// maxFrames updates have been applied.
func (b *Base) beginInit(maxFrames int) error {
	if b.state != stateUninitialized {
		return fmt.Errorf("%w (state: %s)", ErrAlreadyInitialized, b.state)
	}
	b.state = stateActive
	b.maxFrames = maxFrames
	return nil
}

func (b *Base) addRenderable(r render.Renderable) {
	b.renderables = append(b.renderables, r)
}

// Returns true if the caller should go ahead with the update.
func (b *Base) beginUpdate() bool {
	switch b.state {
	case stateActive:
		return true
	case stateDone:
		return false
	}
	lifecycleMisuse("update", b.state)
	return false
}

// Count a completed frame and flag the effect as done when it crosses its
// frame threshold.
func (b *Base) advance() {
	b.frames++
	if b.frames > b.maxFrames {
		b.state = stateDone
	}
}

// Returns true if the caller should release its resources.
func (b *Base) beginDispose() bool {
	switch b.state {
	case stateActive, stateDone:
		b.state = stateDisposed
		return true
	case stateDisposed:
		return false
	}
	lifecycleMisuse("dispose", b.state)
	return false
}

func lifecycleMisuse(op string, state lifecycleState) {
	err := fmt.Errorf("%w: %s called in state %s", ErrLifecycle, op, state)
	if strictLifecycle {
		panic(err)
	}
	logger.Debug(err.Error())
}
