package effect

import (
	"fmt"
	"math/rand/v2"
)

// Kind identifies an effect variant.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRingBurst
	KindSpreadTrail
	KindThickSpreadTrail
)

var kindNames = map[Kind]string{
	KindRingBurst:        "ring-burst",
	KindSpreadTrail:      "spread-trail",
	KindThickSpreadTrail: "thick-spread-trail",
}

// Get the list of known kinds.
func Kinds() []Kind {
	return []Kind{KindRingBurst, KindSpreadTrail, KindThickSpreadTrail}
}

func (k Kind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, exists := kindNames[k]; !exists {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, string(text))
}

// Spec describes an effect to be created by New. Only the params block that
// matches Kind is used; a missing block falls back to the kind defaults.
type Spec struct {
	Kind  Kind               `yaml:"kind"`
	Ring  *RingBurstParams   `yaml:"ring,omitempty"`
	Trail *SpreadTrailParams `yaml:"trail,omitempty"`
}

// Get a spec populated with the defaults for kind.
func DefaultSpec(kind Kind) Spec {
	spec := Spec{Kind: kind}
	switch kind {
	case KindRingBurst:
		p := DefaultRingBurstParams()
		spec.Ring = &p
	case KindSpreadTrail:
		p := DefaultSpreadTrailParams()
		spec.Trail = &p
	case KindThickSpreadTrail:
		p := DefaultThickSpreadTrailParams()
		spec.Trail = &p
	}
	return spec
}

// Validate the params block selected by the spec kind.
func (s Spec) Validate() error {
	s = s.withDefaults()
	switch s.Kind {
	case KindRingBurst:
		return s.Ring.Validate()
	case KindSpreadTrail, KindThickSpreadTrail:
		return s.Trail.Validate()
	}
	return fmt.Errorf("%w: %d", ErrUnknownKind, s.Kind)
}

func (s Spec) withDefaults() Spec {
	def := DefaultSpec(s.Kind)
	if s.Ring == nil {
		s.Ring = def.Ring
	}
	if s.Trail == nil {
		s.Trail = def.Trail
	}
	return s
}

// Create a new effect from a spec. The returned effect is not initialized.
func New(spec Spec, rng *rand.Rand) (Effect, error) {
	spec = spec.withDefaults()
	switch spec.Kind {
	case KindRingBurst:
		e, err := NewRingBurst(*spec.Ring, rng)
		if err != nil {
			return nil, err
		}
		return e, nil
	case KindSpreadTrail:
		e, err := NewSpreadTrail(*spec.Trail, rng)
		if err != nil {
			return nil, err
		}
		return e, nil
	case KindThickSpreadTrail:
		e, err := NewThickSpreadTrail(*spec.Trail, rng)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, spec.Kind)
}
