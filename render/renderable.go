// Package render defines the renderer-agnostic geometry handles that effects
// and scene decorations hand over to a render host.
package render

import (
	"sync/atomic"

	"github.com/achilleasa/embers/types"
)

var nextID uint64

func allocID() uint64 {
	return atomic.AddUint64(&nextID, 1)
}

// Renderable is an opaque handle to geometry drawn by a render host. Hosts
// type-switch on the concrete handle (*Polyline or *Mesh).
type Renderable interface {
	// A process-wide unique id for this handle.
	ID() uint64
}

// Polyline is a line strip backed by pre-allocated position and color
// buffers. Only the first Len() vertices are drawn; effects rewrite the
// buffers in place every frame and move the valid-length cursor instead of
// reallocating.
type Polyline struct {
	id        uint64
	positions []types.Vec3
	colors    []types.Vec3
	count     int

	// Line width in pixels. Hosts that cannot draw wide lines treat any
	// width > 1 as a "heavy" line.
	Width float32

	// Draw using additive blending.
	Additive bool

	// Model transform applied to every vertex.
	Transform types.Mat4
}

// Create a polyline with room for capacity vertices.
func NewPolyline(capacity int) *Polyline {
	return &Polyline{
		id:        allocID(),
		positions: make([]types.Vec3, capacity),
		colors:    make([]types.Vec3, capacity),
		Width:     1,
		Transform: types.Ident4(),
	}
}

// Create a static colored line segment.
func NewSegment(from, to, color types.Vec3) *Polyline {
	p := NewPolyline(2)
	p.SetVertex(0, from)
	p.SetVertex(1, to)
	p.Fill(color)
	p.SetLen(2)
	return p
}

func (p *Polyline) ID() uint64 {
	return p.id
}

// Get the number of vertices that the buffers can hold.
func (p *Polyline) Cap() int {
	return len(p.positions)
}

// Get the number of valid vertices.
func (p *Polyline) Len() int {
	return p.count
}

// Set the number of valid vertices. The value is clamped to [0, Cap()].
func (p *Polyline) SetLen(n int) {
	switch {
	case n < 0:
		n = 0
	case n > len(p.positions):
		n = len(p.positions)
	}
	p.count = n
}

// Set the position of vertex i.
func (p *Polyline) SetVertex(i int, v types.Vec3) {
	p.positions[i] = v
}

// Set the color of vertex i.
func (p *Polyline) SetColor(i int, c types.Vec3) {
	p.colors[i] = c
}

// Copy a color ramp into the color buffer. Extra entries are ignored.
func (p *Polyline) SetColors(colors []types.Vec3) {
	copy(p.colors, colors)
}

// Set every vertex to the same color.
func (p *Polyline) Fill(c types.Vec3) {
	for i := range p.colors {
		p.colors[i] = c
	}
}

// Get the valid vertex positions. The slice aliases the polyline storage.
func (p *Polyline) Positions() []types.Vec3 {
	return p.positions[:p.count]
}

// Get the colors of the valid vertices. The slice aliases the polyline storage.
func (p *Polyline) Colors() []types.Vec3 {
	return p.colors[:p.count]
}

// Release the vertex buffers. A released polyline draws nothing.
func (p *Polyline) Release() {
	p.positions = nil
	p.colors = nil
	p.count = 0
}

// Returns true if Release has been called.
func (p *Polyline) Released() bool {
	return p.positions == nil
}
