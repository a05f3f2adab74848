package effect

import (
	"fmt"
	"math/rand/v2"

	"github.com/achilleasa/embers/types"
)

// VecRange describes a box from which vectors are sampled uniformly.
type VecRange struct {
	Min types.Vec3 `yaml:"min"`
	Max types.Vec3 `yaml:"max"`
}

// Sample a vector with each component drawn from [Min, Max).
func (r VecRange) Sample(rng *rand.Rand) types.Vec3 {
	var out types.Vec3
	for i := 0; i < 3; i++ {
		out[i] = r.Min[i] + rng.Float32()*(r.Max[i]-r.Min[i])
	}
	return out
}

// RingBurstParams configures a RingBurst.
type RingBurstParams struct {
	// Number of concentric rings and angular subdivisions per ring.
	Rings    int `yaml:"rings"`
	Segments int `yaml:"segments"`

	// Ring r starts at BaseRadius*r and grows by GrowthRate every frame.
	BaseRadius float32 `yaml:"baseRadius"`
	GrowthRate float32 `yaml:"growthRate"`

	// Per-vertex radial noise; ring r is jittered by up to Jitter*r.
	Jitter float32 `yaml:"jitter"`

	// Rotation increment in degrees; the group rotates about X and Y by
	// Spin*frame degrees every frame.
	Spin float32 `yaml:"spin"`

	// The effect is done after Frames+1 updates.
	Frames int `yaml:"frames"`

	Color  types.Vec3 `yaml:"color"`
	Origin types.Vec3 `yaml:"origin"`
}

// Get the ring burst defaults.
func DefaultRingBurstParams() RingBurstParams {
	return RingBurstParams{
		Rings:      4,
		Segments:   120,
		BaseRadius: 0.05,
		GrowthRate: 0.05,
		Jitter:     0.15,
		Spin:       0.5,
		Frames:     100,
		Color:      types.XYZ(0.2, 0.7, 0.8),
	}
}

// Check the params for values that cannot produce a valid effect.
func (p RingBurstParams) Validate() error {
	switch {
	case p.Rings <= 0:
		return fmt.Errorf("%w: rings must be positive; got %d", ErrInvalidParams, p.Rings)
	case p.Segments <= 0:
		return fmt.Errorf("%w: segments must be positive; got %d", ErrInvalidParams, p.Segments)
	case p.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative; got %d", ErrInvalidParams, p.Frames)
	case p.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative; got %f", ErrInvalidParams, p.Jitter)
	}
	return nil
}

// SpreadTrailParams configures the spread trail variants.
type SpreadTrailParams struct {
	// Number of particles and the number of positions each trail retains.
	Particles   int `yaml:"particles"`
	TrailLength int `yaml:"trailLength"`

	// Fraction of the gap between velocity and target velocity closed
	// every frame. Must be in [0, 1).
	Damping float32 `yaml:"damping"`

	// Per-particle speed is drawn from [SpeedMin, SpeedMax) and grows by
	// SpeedGain every frame.
	SpeedMin  float32 `yaml:"speedMin"`
	SpeedMax  float32 `yaml:"speedMax"`
	SpeedGain float32 `yaml:"speedGain"`

	InitialVelocity VecRange `yaml:"initialVelocity"`
	TargetVelocity  VecRange `yaml:"targetVelocity"`

	// Trail hue in [0, 1].
	Hue float32 `yaml:"hue"`

	// Upper bound for the random per-particle line width. Only used by the
	// thick variant.
	MaxWidth float32 `yaml:"maxWidth"`

	// The effect is done after Frames+1 updates.
	Frames int `yaml:"frames"`

	Origin types.Vec3 `yaml:"origin"`
}

// Get the spread trail defaults.
func DefaultSpreadTrailParams() SpreadTrailParams {
	return SpreadTrailParams{
		Particles:   10,
		TrailLength: 150,
		Damping:     0.02,
		SpeedMin:    0.05,
		SpeedMax:    0.10,
		InitialVelocity: VecRange{
			Min: types.XYZ(-0.5, 0, 1.5),
			Max: types.XYZ(0.5, 0, 1.5),
		},
		TargetVelocity: VecRange{
			Min: types.XYZ(-0.25, 0, -1),
			Max: types.XYZ(0.25, 0, -1),
		},
		Hue:      0.6,
		MaxWidth: 1,
		Frames:   500,
	}
}

// Get the thick spread trail defaults.
func DefaultThickSpreadTrailParams() SpreadTrailParams {
	p := DefaultSpreadTrailParams()
	p.TrailLength = 200
	p.SpeedMax = 0.13
	p.InitialVelocity.Min[0] = -1
	p.InitialVelocity.Max[0] = 1
	p.MaxWidth = 3
	return p
}

// Check the params for values that cannot produce a valid effect.
func (p SpreadTrailParams) Validate() error {
	switch {
	case p.Particles <= 0:
		return fmt.Errorf("%w: particles must be positive; got %d", ErrInvalidParams, p.Particles)
	case p.TrailLength <= 0:
		return fmt.Errorf("%w: trailLength must be positive; got %d", ErrInvalidParams, p.TrailLength)
	case p.Damping < 0 || p.Damping >= 1:
		return fmt.Errorf("%w: damping must be in [0, 1); got %f", ErrInvalidParams, p.Damping)
	case p.SpeedMax < p.SpeedMin:
		return fmt.Errorf("%w: speedMax (%f) is less than speedMin (%f)", ErrInvalidParams, p.SpeedMax, p.SpeedMin)
	case p.MaxWidth < 0:
		return fmt.Errorf("%w: maxWidth must not be negative; got %f", ErrInvalidParams, p.MaxWidth)
	case p.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative; got %d", ErrInvalidParams, p.Frames)
	}
	return nil
}
