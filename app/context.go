// Package app wires the effect registry, input bindings and the background
// model to a render host and drives them from the host's frame callback.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/achilleasa/embers/asset"
	"github.com/achilleasa/embers/config"
	"github.com/achilleasa/embers/effect"
	"github.com/achilleasa/embers/input"
	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/renderer"
)

var ErrUnknownPreset = errors.New("app: unknown effect preset")

// Context owns all state that is mutated by the frame callback. It replaces
// the global scene/effect lists of a typical render loop with an explicit
// value that is handed to the host.
type Context struct {
	logger log.Logger

	cfg        *config.Config
	host       renderer.Host
	registry   *effect.Registry
	dispatcher *input.Dispatcher
	rng        *rand.Rand

	decorations []render.Renderable

	modelCh     <-chan asset.ModelResult
	model       *asset.Model
	modelMeshes []*render.Mesh
	modelErr    error

	// Presets to spawn at the start of a given frame.
	scheduled map[uint64][]string

	spawnErrors uint64
}

// Create a context for the given config and host. The config is expected to
// be validated.
func New(cfg *config.Config, host renderer.Host) (*Context, error) {
	dispatcher, err := input.NewDispatcher(cfg.Bindings)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	c := &Context{
		logger:     log.New("app"),
		cfg:        cfg,
		host:       host,
		registry:   effect.NewRegistry(),
		dispatcher: dispatcher,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		scheduled:  make(map[uint64][]string),
	}
	c.registry.SetSoftLimit(cfg.SoftLimit)
	c.logger.Debugf("using random seed %d", seed)

	host.OnFrame(c.frame)
	host.OnKey(dispatcher.Push)

	c.decorations = Decorations(cfg.Decorations)
	for _, r := range c.decorations {
		host.Attach(r)
	}

	return c, nil
}

// Start loading the background model in the background. The model is
// attached to the host by the first frame callback after the load completes.
func (c *Context) LoadModelAsync(ctx context.Context, path string) {
	c.logger.Noticef("loading model %q", path)
	c.modelCh = asset.LoadModelAsync(ctx, path)
}

// Create an effect from a named preset and hand it to the registry.
func (c *Context) Spawn(preset string) error {
	spec, exists := c.cfg.Effects[preset]
	if !exists {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	e, err := effect.New(spec, c.rng)
	if err != nil {
		return fmt.Errorf("preset %q: %w", preset, err)
	}
	if err = c.registry.Spawn(c.host, e); err != nil {
		return fmt.Errorf("preset %q: %w", preset, err)
	}
	return nil
}

// Spawn a preset at the start of the given frame, before any queued key
// presses are handled. The preset is only checked when the frame is reached.
func (c *Context) Schedule(preset string, frame uint64) {
	c.scheduled[frame] = append(c.scheduled[frame], preset)
}

// Queue a key press as if it was delivered by the host.
func (c *Context) PressKey(key rune) {
	c.dispatcher.Push(key)
}

func (c *Context) frame(frame uint64) {
	if presets, exists := c.scheduled[frame]; exists {
		delete(c.scheduled, frame)
		for _, preset := range presets {
			if err := c.Spawn(preset); err != nil {
				c.spawnErrors++
				c.logger.Errorf("frame %d: %s", frame, err.Error())
			}
		}
	}

	c.dispatcher.Drain(func(key rune, preset string) {
		if err := c.Spawn(preset); err != nil {
			c.spawnErrors++
			c.logger.Errorf("key %q: %s", key, err.Error())
		}
	})

	c.pollModel()
	c.registry.Tick(c.host)
	c.host.SetOverlay(c.overlay())
}

func (c *Context) pollModel() {
	if c.modelCh == nil {
		return
	}

	select {
	case res, ok := <-c.modelCh:
		c.modelCh = nil
		if !ok {
			return
		}
		if res.Err != nil {
			c.modelErr = res.Err
			c.logger.Errorf("could not load model: %s", res.Err.Error())
			return
		}
		c.attachModel(res.Model)
	default:
	}
}

func (c *Context) attachModel(model *asset.Model) {
	m := c.cfg.Model
	c.model = model
	c.modelMeshes = model.RenderMeshes(m.Translation, m.Rotation, m.Scale)
	for _, mesh := range c.modelMeshes {
		c.host.Attach(mesh)
	}
	c.logger.Noticef("attached model %q (%d meshes, %d triangles)", model.Name, len(c.modelMeshes), model.TriangleCount())
}

func (c *Context) overlay() string {
	return fmt.Sprintf("live: %d  %s", c.registry.Len(), c.dispatcher.Help())
}

// Run the host frame loop until ctx is cancelled or the host stops. All
// live effects are evicted before returning.
func (c *Context) Run(ctx context.Context) error {
	err := c.host.Run(ctx)
	c.registry.Clear(c.host)
	return err
}

// Get the effect registry.
func (c *Context) Registry() *effect.Registry {
	return c.registry
}

// Get the loaded background model or nil if it is not available yet.
func (c *Context) Model() *asset.Model {
	return c.model
}

// Get the error that aborted the model load, if any.
func (c *Context) ModelErr() error {
	return c.modelErr
}

// Get the number of key presses and scheduled spawns that failed.
func (c *Context) SpawnErrors() uint64 {
	return c.spawnErrors
}

// Get the number of key presses that were not bound to a preset.
func (c *Context) IgnoredKeys() uint64 {
	return c.dispatcher.Ignored()
}
