package effect

import (
	"math"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/trail"
	"github.com/achilleasa/embers/types"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// A point that steers from its initial velocity towards a target velocity,
// leaving a trail of its recent positions.
type particle struct {
	position types.Vec3
	velocity types.Vec3
	target   types.Vec3
	speed    float32
	trail    *trail.Buffer
}

// Apply one step of the steering law:
//
//	velocity += (target - velocity) * damping
//	position += speed * velocity
//
// and record the new position.
func (p *particle) step(damping, speedGain float32) {
	p.velocity = p.velocity.Lerp(p.target, damping)
	p.position = p.position.AddScaled(p.velocity, p.speed)
	p.speed += speedGain
	p.trail.Push(p.position)
}

// Copy the particle trail into line, head first.
func (p *particle) writeTrail(line *render.Polyline) {
	samples := p.trail.Snapshot()
	for i, v := range samples {
		line.SetVertex(i, v)
	}
	line.SetLen(len(samples))
}

// Build the head-to-tail color ramp used by trails: full lightness at the
// head falling off with the fourth power of the distance along the trail.
func trailRamp(hue float32, length int) []types.Vec3 {
	ramp := make([]types.Vec3, length)
	for i := range ramp {
		var t float64
		if length > 1 {
			t = float64(i) / float64(length-1)
		}
		c := colorful.Hsl(float64(hue)*360.0, 1.0, math.Pow(1.0-t, 4))
		ramp[i] = types.XYZ(float32(c.R), float32(c.G), float32(c.B))
	}
	return ramp
}
