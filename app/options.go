package app

import (
	"github.com/achilleasa/embers/config"
	"github.com/achilleasa/embers/renderer"
	"github.com/achilleasa/embers/scene"
	"github.com/achilleasa/embers/types"
)

// Build the host options for a config.
func HostOptions(cfg *config.Config) renderer.Options {
	cam := scene.NewCamera(cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far, cfg.Camera.Eye, cfg.Camera.Target)
	cam.MinDistance = cfg.Camera.MinDistance
	if cfg.Camera.MaxDistance > 0 {
		cam.MaxDistance = cfg.Camera.MaxDistance
	}
	cam.Update()

	return renderer.Options{
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		Title:    cfg.Window.Title,
		FPS:      cfg.FPS,
		Camera:   cam,
		LightPos: types.XYZ(0, 10, 10),
	}
}
