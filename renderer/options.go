package renderer

import (
	"github.com/achilleasa/embers/scene"
	"github.com/achilleasa/embers/types"
)

type Options struct {
	// Window dims. Ignored by the terminal host which uses the terminal size.
	Width  int
	Height int
	Title  string

	// Target frame rate. A value <= 0 lets the headless host run unthrottled;
	// the other hosts fall back to 60.
	FPS int

	// Stop the frame loop after this many frames; 0 runs until cancelled.
	MaxFrames uint64

	Camera *scene.Camera

	// Clear color.
	Background types.Vec3

	// Direction towards the directional light used for shading meshes.
	LightPos types.Vec3
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "embers"
	}
	if o.Camera == nil {
		o.Camera = scene.NewCamera(45, 0.1, 100, types.XYZ(0, 10, 20), types.XYZ(0, 0, 0))
	}
	if o.LightPos == (types.Vec3{}) {
		o.LightPos = types.XYZ(0, 10, 10)
	}
	return o
}

// Get the target frame rate for interactive hosts.
func (o Options) interactiveFPS() int {
	if o.FPS <= 0 {
		return 60
	}
	return o.FPS
}
