package effect

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/types"
)

// RingBurst draws concentric rings that expand away from a fixed center
// while the whole group tumbles about the X and Y axes.
type RingBurst struct {
	Base

	params      RingBurstParams
	rng         *rand.Rand
	rings       []*render.Polyline
	orientation types.Quat
}

// Create a ring burst. Init must be called before the first Update.
func NewRingBurst(params RingBurstParams, rng *rand.Rand) (*RingBurst, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &RingBurst{
		params: params,
		rng:    rng,
	}, nil
}

func (e *RingBurst) Kind() Kind {
	return KindRingBurst
}

// Init implements Effect.
func (e *RingBurst) Init() error {
	if err := e.beginInit(e.params.Frames); err != nil {
		return err
	}

	e.orientation = types.QuatIdent()
	e.rings = make([]*render.Polyline, e.params.Rings)
	for i := range e.rings {
		line := render.NewPolyline(e.params.Segments + 1)
		line.Fill(e.params.Color)
		line.Additive = true
		line.Transform = types.Translate4(e.params.Origin)
		e.rings[i] = line
		e.addRenderable(line)
	}
	return nil
}

// Radius of a ring at a particular frame, excluding jitter.
func (e *RingBurst) Radius(ring, frame int) float32 {
	return e.params.BaseRadius*float32(ring) + e.params.GrowthRate*float32(frame)
}

// Update implements Effect.
func (e *RingBurst) Update(_ Host) {
	if !e.beginUpdate() {
		return
	}

	step := 2.0 * math.Pi / float64(e.params.Segments)
	for ringIndex, line := range e.rings {
		base := e.Radius(ringIndex, e.frames)
		jitter := e.params.Jitter * float32(ringIndex)
		for j := 0; j <= e.params.Segments; j++ {
			radius := base
			if jitter > 0 {
				radius += e.rng.Float32() * jitter
			}
			sin, cos := math.Sincos(step * float64(j))
			line.SetVertex(j, types.XYZ(radius*float32(sin), 0, radius*float32(cos)))
		}
		line.SetLen(e.params.Segments + 1)
	}

	e.advance()

	spin := e.params.Spin * float32(e.frames)
	e.orientation = e.orientation.Mul(types.QuatRotateX(spin)).Mul(types.QuatRotateY(spin)).Normalize()
	transform := types.Translate4(e.params.Origin).Mul4(e.orientation.Mat4())
	for _, line := range e.rings {
		line.Transform = transform
	}
}

// Dispose implements Effect.
func (e *RingBurst) Dispose() {
	if !e.beginDispose() {
		return
	}
	for _, line := range e.rings {
		line.Release()
	}
}
