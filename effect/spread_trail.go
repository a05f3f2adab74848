package effect

import (
	"math/rand/v2"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/trail"
	"github.com/achilleasa/embers/types"
)

// SpreadTrail fires a fan of particles that arc from their initial
// direction towards a target direction, each leaving a fading trail.
type SpreadTrail struct {
	Base

	params    SpreadTrailParams
	rng       *rand.Rand
	particles []particle
	lines     []*render.Polyline
}

// Create a spread trail. Init must be called before the first Update.
func NewSpreadTrail(params SpreadTrailParams, rng *rand.Rand) (*SpreadTrail, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &SpreadTrail{
		params: params,
		rng:    rng,
	}, nil
}

func (e *SpreadTrail) Kind() Kind {
	return KindSpreadTrail
}

// Init implements Effect.
func (e *SpreadTrail) Init() error {
	if err := e.beginInit(e.params.Frames); err != nil {
		return err
	}

	ramp := trailRamp(e.params.Hue, e.params.TrailLength)
	e.particles = make([]particle, e.params.Particles)
	e.lines = make([]*render.Polyline, e.params.Particles)
	for i := range e.particles {
		buf, err := trail.New(e.params.TrailLength)
		if err != nil {
			return err
		}

		e.particles[i] = particle{
			velocity: e.params.InitialVelocity.Sample(e.rng),
			target:   e.params.TargetVelocity.Sample(e.rng),
			speed:    e.params.SpeedMin + e.rng.Float32()*(e.params.SpeedMax-e.params.SpeedMin),
			trail:    buf,
		}

		line := render.NewPolyline(e.params.TrailLength)
		line.SetColors(ramp)
		line.Additive = true
		line.Transform = types.Translate4(e.params.Origin)
		e.lines[i] = line
		e.addRenderable(line)
	}
	return nil
}

// Update implements Effect.
func (e *SpreadTrail) Update(_ Host) {
	if !e.beginUpdate() {
		return
	}

	for i := range e.particles {
		p := &e.particles[i]
		p.step(e.params.Damping, e.params.SpeedGain)
		p.writeTrail(e.lines[i])
	}

	e.advance()
}

// Dispose implements Effect.
func (e *SpreadTrail) Dispose() {
	if !e.beginDispose() {
		return
	}
	for i := range e.particles {
		e.particles[i].trail = nil
		e.lines[i].Release()
	}
}

// Get the current head position of each particle, relative to the origin.
func (e *SpreadTrail) Positions() []types.Vec3 {
	out := make([]types.Vec3, len(e.particles))
	for i, p := range e.particles {
		out[i] = p.position
	}
	return out
}

// GL rejects a zero line width.
const minLineWidth = 0.5

// ThickSpreadTrail behaves like SpreadTrail but draws each trail as a wide
// line with a random per-particle width.
type ThickSpreadTrail struct {
	SpreadTrail
}

// Create a thick spread trail. Init must be called before the first Update.
func NewThickSpreadTrail(params SpreadTrailParams, rng *rand.Rand) (*ThickSpreadTrail, error) {
	inner, err := NewSpreadTrail(params, rng)
	if err != nil {
		return nil, err
	}
	return &ThickSpreadTrail{SpreadTrail: *inner}, nil
}

func (e *ThickSpreadTrail) Kind() Kind {
	return KindThickSpreadTrail
}

// Init implements Effect.
func (e *ThickSpreadTrail) Init() error {
	if err := e.SpreadTrail.Init(); err != nil {
		return err
	}
	for _, line := range e.lines {
		line.Width = max(e.rng.Float32()*e.params.MaxWidth, minLineWidth)
	}
	return nil
}
