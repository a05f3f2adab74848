package renderer

import (
	"math"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/scene"
	"github.com/achilleasa/embers/types"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colors whose brightest channel is below this value are not drawn. Trail
// tails fade to black and would otherwise paint black cells over the scene.
const minVisibleIntensity = 0.03

// Character cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

type cell struct {
	ch    rune
	color colorful.Color
	set   bool
}

// canvas rasterizes projected lines into a grid of character cells.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{}
	c.resize(width, height)
	return c
}

func (c *canvas) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width, c.height = width, height
	if cap(c.cells) >= width*height {
		c.cells = c.cells[:width*height]
	} else {
		c.cells = make([]cell, width*height)
	}
	c.clear()
}

func (c *canvas) clear() {
	for i := range c.cells {
		c.cells[i] = cell{}
	}
}

// Get the aspect ratio to use for the camera projection.
func (c *canvas) aspect() float32 {
	if c.height == 0 {
		return 1
	}
	return float32(c.width) / (cellAspect * float32(c.height))
}

func (c *canvas) at(x, y int) (cell, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return cell{}, false
	}
	return c.cells[y*c.width+x], true
}

// Plot a cell. Additive plots accumulate color on top of whatever the cell
// already holds.
func (c *canvas) plot(x, y int, ch rune, col colorful.Color, additive bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	if math.Max(col.R, math.Max(col.G, col.B)) < minVisibleIntensity {
		return
	}

	target := &c.cells[y*c.width+x]
	if additive && target.set {
		col = colorful.Color{
			R: target.color.R + col.R,
			G: target.color.G + col.G,
			B: target.color.B + col.B,
		}.Clamped()
	}
	target.ch = ch
	target.color = col
	target.set = true
}

// Map normalized device coordinates to a cell.
func (c *canvas) toCell(ndc types.Vec3) (int, int) {
	x := (ndc[0] + 1) * 0.5 * float32(c.width-1)
	y := (1 - ndc[1]) * 0.5 * float32(c.height-1)
	return int(math.Round(float64(x))), int(math.Round(float64(y)))
}

// Rasterize a world space segment. The segment is clipped against the
// camera near plane and the viewport before it is rasterized.
func (c *canvas) segment(cam *scene.Camera, a, b types.Vec3, ca, cb colorful.Color, ch rune, additive bool) {
	va := cam.ViewMat.TransformPoint(a)
	vb := cam.ViewMat.TransformPoint(b)

	// View space looks down -Z.
	near := -cam.Near
	if va[2] > near && vb[2] > near {
		return
	}
	if va[2] > near {
		t := (near - va[2]) / (vb[2] - va[2])
		va = va.Lerp(vb, t)
		ca = ca.BlendRgb(cb, float64(t))
	} else if vb[2] > near {
		t := (near - vb[2]) / (va[2] - vb[2])
		vb = vb.Lerp(va, t)
		cb = cb.BlendRgb(ca, float64(t))
	}

	pa := projectView(cam, va)
	pb := projectView(cam, vb)

	t0, t1, visible := clipUnitSquare(pa[0], pa[1], pb[0], pb[1])
	if !visible {
		return
	}
	p0, p1 := pa.Lerp(pb, t0), pa.Lerp(pb, t1)
	c0, c1 := ca.BlendRgb(cb, float64(t0)), ca.BlendRgb(cb, float64(t1))

	x0, y0 := c.toCell(p0)
	x1, y1 := c.toCell(p1)
	c.line(x0, y0, x1, y1, c0, c1, ch, additive)
}

func projectView(cam *scene.Camera, v types.Vec3) types.Vec3 {
	clip := cam.ProjMat.Mul4x1(v.Vec4(1))
	return clip.Vec3().Mul(1.0 / clip[3])
}

// Liang-Barsky clipping of a 2D segment against [-1, 1]^2. Returns the
// parametric range of the visible part.
func clipUnitSquare(x0, y0, x1, y1 float32) (float32, float32, bool) {
	var t0, t1 float32 = 0, 1
	dx, dy := x1-x0, y1-y0
	p := [4]float32{-dx, dx, -dy, dy}
	q := [4]float32{x0 + 1, 1 - x0, y0 + 1, 1 - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0, t1, true
}

// Bresenham line with linear color interpolation.
func (c *canvas) line(x0, y0, x1, y1 int, c0, c1 colorful.Color, ch rune, additive bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	steps := dx
	if -dy > steps {
		steps = -dy
	}

	err := dx + dy
	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		c.plot(x0, y0, ch, c0.BlendRgb(c1, t), additive)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Pick a glyph for a polyline based on its width.
func lineGlyph(width float32) rune {
	switch {
	case width < 1.5:
		return '•'
	case width < 2.5:
		return '●'
	}
	return '█'
}

func toColorful(v types.Vec3) colorful.Color {
	return colorful.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2])}
}

// Draw the valid part of a polyline.
func (c *canvas) drawPolyline(cam *scene.Camera, p *render.Polyline) {
	if p.Released() || p.Len() < 1 {
		return
	}

	positions, colors := p.Positions(), p.Colors()
	ch := lineGlyph(p.Width)
	if len(positions) == 1 {
		v := p.Transform.TransformPoint(positions[0])
		c.segment(cam, v, v, toColorful(colors[0]), toColorful(colors[0]), ch, p.Additive)
		return
	}

	prev := p.Transform.TransformPoint(positions[0])
	for i := 1; i < len(positions); i++ {
		cur := p.Transform.TransformPoint(positions[i])
		c.segment(cam, prev, cur, toColorful(colors[i-1]), toColorful(colors[i]), ch, p.Additive)
		prev = cur
	}
}

// Draw a mesh as a flat shaded wireframe.
func (c *canvas) drawMesh(cam *scene.Camera, m *render.Mesh, lightDir types.Vec3) {
	for i := range m.Triangles {
		tri := &m.Triangles[i]
		normal := m.Transform.TransformDir(tri.Normal).Normalize()
		intensity := 0.3 + 0.7*math.Max(0, float64(normal.Dot(lightDir)))
		col := toColorful(tri.Color.Mul(float32(intensity))).Clamped()

		var v [3]types.Vec3
		for j := range v {
			v[j] = m.Transform.TransformPoint(tri.Vertices[j])
		}
		for j := 0; j < 3; j++ {
			c.segment(cam, v[j], v[(j+1)%3], col, col, '.', false)
		}
	}
}

// Draw the scene root: meshes first, then lines on top of them.
func (c *canvas) drawScene(cam *scene.Camera, sc *render.Scene, lightDir types.Vec3) {
	sc.Each(func(r render.Renderable) {
		if m, ok := r.(*render.Mesh); ok {
			c.drawMesh(cam, m, lightDir)
		}
	})
	sc.Each(func(r render.Renderable) {
		if p, ok := r.(*render.Polyline); ok {
			c.drawPolyline(cam, p)
		}
	})
}

// Copy the canvas to the screen, starting at the top-left corner.
func (c *canvas) flush(screen tcell.Screen) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if !cl.set {
				continue
			}
			r, g, b := cl.color.Clamped().RGB255()
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
			screen.SetContent(x, y, cl.ch, nil, style)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
