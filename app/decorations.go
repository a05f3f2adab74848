package app

import (
	"github.com/achilleasa/embers/config"
	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/types"
)

var (
	axisColorX = types.XYZ(1, 0, 0)
	axisColorY = types.XYZ(0, 1, 0)
	axisColorZ = types.XYZ(0, 0, 1)
	gridColor  = types.XYZ(0, 1, 1)
)

// Build the static debug geometry: an axes helper at the origin and a set
// of grid lines parallel to the X axis receding along -Z.
func Decorations(cfg config.Decorations) []render.Renderable {
	var out []render.Renderable

	if cfg.Axes > 0 {
		origin := types.XYZ(0, 0, 0)
		out = append(out,
			render.NewSegment(origin, types.XYZ(cfg.Axes, 0, 0), axisColorX),
			render.NewSegment(origin, types.XYZ(0, cfg.Axes, 0), axisColorY),
			render.NewSegment(origin, types.XYZ(0, 0, cfg.Axes), axisColorZ),
		)
	}

	for i := 1; i <= cfg.GridLines; i++ {
		z := -float32(i) * cfg.GridSpacing
		out = append(out, render.NewSegment(
			types.XYZ(-cfg.GridHalfX, 0, z),
			types.XYZ(cfg.GridHalfX, 0, z),
			gridColor,
		))
	}

	return out
}
