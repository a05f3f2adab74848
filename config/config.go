// Package config loads the viewer configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/achilleasa/embers/effect"
	"github.com/achilleasa/embers/log"
	"github.com/achilleasa/embers/types"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Supported render hosts.
const (
	HostOpenGL   = "gl"
	HostTerminal = "term"
	HostHeadless = "headless"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Camera struct {
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Eye         types.Vec3 `yaml:"eye"`
	Target      types.Vec3 `yaml:"target"`
	MinDistance float32    `yaml:"minDistance"`
	MaxDistance float32    `yaml:"maxDistance"`
}

// Model describes the background model. An empty path disables it.
type Model struct {
	Path        string     `yaml:"path"`
	Scale       float32    `yaml:"scale"`
	Rotation    types.Vec3 `yaml:"rotation"`
	Translation types.Vec3 `yaml:"translation"`
}

type Decorations struct {
	// Length of the axes helper; 0 disables it.
	Axes float32 `yaml:"axes"`

	// Number of grid lines; 0 disables the grid.
	GridLines   int     `yaml:"gridLines"`
	GridSpacing float32 `yaml:"gridSpacing"`
	GridHalfX   float32 `yaml:"gridHalfWidth"`
}

// Presets maps preset names to effect specs. Each entry starts from the
// defaults of its kind so a file only needs to list the overridden params.
type Presets map[string]effect.Spec

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Presets) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of preset names to effect specs", node.Line)
	}
	if *p == nil {
		*p = make(Presets)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		specNode := node.Content[i+1]

		var header struct {
			Kind effect.Kind `yaml:"kind"`
		}
		if err := specNode.Decode(&header); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}

		spec := effect.DefaultSpec(header.Kind)
		if err := specNode.Decode(&spec); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
		(*p)[name] = spec
	}
	return nil
}

// Config holds all viewer settings.
type Config struct {
	// Seed for the random source shared by all effects. 0 selects a seed
	// based on the current time.
	Seed uint64 `yaml:"seed"`

	FPS      int    `yaml:"fps"`
	LogLevel string `yaml:"logLevel"`
	Host     string `yaml:"host"`

	Window      Window      `yaml:"window"`
	Camera      Camera      `yaml:"camera"`
	Model       Model       `yaml:"model"`
	Decorations Decorations `yaml:"decorations"`

	// Maps single character keys to preset names.
	Bindings map[string]string `yaml:"bindings"`

	// Warn when more than this many effects are live; 0 disables the check.
	SoftLimit int `yaml:"softLimit"`

	Effects Presets `yaml:"effects"`
}

// Get the default configuration.
func Default() *Config {
	return &Config{
		FPS:      60,
		LogLevel: "notice",
		Host:     HostOpenGL,
		Window: Window{
			Width:  1024,
			Height: 768,
			Title:  "embers",
		},
		Camera: Camera{
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Eye:         types.XYZ(0, 10, 20),
			MinDistance: 1,
			MaxDistance: 40,
		},
		Model: Model{
			Scale:    0.02,
			Rotation: types.XYZ(0, -90, 0),
		},
		Decorations: Decorations{
			Axes:        50,
			GridLines:   19,
			GridSpacing: 10,
			GridHalfX:   100,
		},
		Bindings: map[string]string{
			"1": "nova",
			"2": "spread",
			"3": "spread-thick",
		},
		SoftLimit: 64,
		Effects: Presets{
			"nova":         effect.DefaultSpec(effect.KindRingBurst),
			"spread":       effect.DefaultSpec(effect.KindSpreadTrail),
			"spread-thick": effect.DefaultSpec(effect.KindThickSpreadTrail),
		},
	}
}

// Load a config file on top of the defaults. Bindings and presets present
// in the file are merged with the default ones.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values that cannot be used.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive; got %d", ErrInvalidConfig, c.FPS)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Host {
	case HostOpenGL, HostTerminal, HostHeadless:
	default:
		return fmt.Errorf("%w: unknown host %q", ErrInvalidConfig, c.Host)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window dimensions must be positive; got %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}

	cam := c.Camera
	switch {
	case cam.FOV <= 0 || cam.FOV >= 180:
		return fmt.Errorf("%w: camera fov must be in (0, 180); got %f", ErrInvalidConfig, cam.FOV)
	case cam.Near <= 0 || cam.Far <= cam.Near:
		return fmt.Errorf("%w: camera clip planes must satisfy 0 < near < far; got %f, %f", ErrInvalidConfig, cam.Near, cam.Far)
	case cam.MinDistance < 0 || cam.MaxDistance < cam.MinDistance:
		return fmt.Errorf("%w: camera distance range [%f, %f] is invalid", ErrInvalidConfig, cam.MinDistance, cam.MaxDistance)
	}

	if c.Model.Path != "" && c.Model.Scale <= 0 {
		return fmt.Errorf("%w: model scale must be positive; got %f", ErrInvalidConfig, c.Model.Scale)
	}
	if c.SoftLimit < 0 {
		return fmt.Errorf("%w: softLimit must not be negative; got %d", ErrInvalidConfig, c.SoftLimit)
	}

	for _, name := range c.PresetNames() {
		if err := c.Effects[name].Validate(); err != nil {
			return fmt.Errorf("%w: preset %q: %w", ErrInvalidConfig, name, err)
		}
	}

	for key, preset := range c.Bindings {
		if utf8.RuneCountInString(key) != 1 {
			return fmt.Errorf("%w: binding key %q must be a single character", ErrInvalidConfig, key)
		}
		if _, exists := c.Effects[preset]; !exists {
			return fmt.Errorf("%w: key %q is bound to unknown preset %q", ErrInvalidConfig, key, preset)
		}
	}
	return nil
}

// Get the sorted list of preset names.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Effects))
	for name := range c.Effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
