package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
	"github.com/san-kum/blobsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNodeCount      = 20
	DefaultAnimationSpeed = 10.0
	DefaultTicks          = 5000
	DefaultWidth          = 400.0
	DefaultHeight         = 400.0
	DefaultOriginX        = 100.0
	DefaultOriginY        = 100.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Body BodyConfig `yaml:"body"`
	Sim  SimConfig  `yaml:"sim"`
}

type BodyConfig struct {
	NodeCount int `yaml:"node_count"`
	// Radius defaults to NodeCount when zero.
	Radius         float64 `yaml:"radius"`
	OriginX        float64 `yaml:"origin_x"`
	OriginY        float64 `yaml:"origin_y"`
	Gravity        bool    `yaml:"gravity"`
	SpringConstant float64 `yaml:"spring_constant"`
	SpringDamping  float64 `yaml:"spring_damping"`
	Pressure       float64 `yaml:"pressure"`
	Restitution    float64 `yaml:"restitution"`
	Mass           float64 `yaml:"mass"`

	SkipFirstSpring bool `yaml:"skip_first_spring_volume"`
}

type SimConfig struct {
	AnimationSpeed float64 `yaml:"animation_speed"`
	Ticks          int     `yaml:"ticks"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	SampleEvery    int     `yaml:"sample_every"`
	Seed           int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Body: BodyConfig{
			NodeCount:      DefaultNodeCount,
			OriginX:        DefaultOriginX,
			OriginY:        DefaultOriginY,
			Gravity:        true,
			SpringConstant: physics.DefaultStiffness,
			SpringDamping:  physics.DefaultDamping,
			Pressure:       physics.DefaultPressure,
			Restitution:    physics.DefaultRestitution,
			Mass:           physics.DefaultMass,
		},
		Sim: SimConfig{
			AnimationSpeed: DefaultAnimationSpeed,
			Ticks:          DefaultTicks,
			Width:          DefaultWidth,
			Height:         DefaultHeight,
			SampleEvery:    1,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver overlays the file onto a copy of base. Keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Body.NodeCount < physics.MinNodes:
		return fmt.Errorf("%w: node_count must be at least %d, got %d", ErrInvalid, physics.MinNodes, c.Body.NodeCount)
	case c.Body.Radius < 0:
		return fmt.Errorf("%w: radius must not be negative, got %f", ErrInvalid, c.Body.Radius)
	case c.Body.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %f", ErrInvalid, c.Body.Mass)
	case c.Sim.AnimationSpeed <= 0:
		return fmt.Errorf("%w: animation_speed must be positive, got %f", ErrInvalid, c.Sim.AnimationSpeed)
	case c.Sim.Width <= 0 || c.Sim.Height <= 0:
		return fmt.Errorf("%w: bounds must be positive, got %fx%f", ErrInvalid, c.Sim.Width, c.Sim.Height)
	case c.Sim.Ticks < 0:
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalid, c.Sim.Ticks)
	}
	return nil
}

// EffectiveRadius is the circle radius the ring is built on. The node
// count doubles as the radius unless one is given explicitly.
func (c *Config) EffectiveRadius() float64 {
	if c.Body.Radius > 0 {
		return c.Body.Radius
	}
	return float64(c.Body.NodeCount)
}

func (c *Config) Origin() r2.Point {
	return r2.Point{X: c.Body.OriginX, Y: c.Body.OriginY}
}

func (c *Config) PhysicsConfig() physics.BodyConfig {
	return physics.BodyConfig{
		Gravity:               c.Body.Gravity,
		SpringConstant:        c.Body.SpringConstant,
		SpringDamping:         c.Body.SpringDamping,
		Pressure:              c.Body.Pressure,
		Restitution:           c.Body.Restitution,
		Mass:                  c.Body.Mass,
		SkipFirstSpringVolume: c.Body.SkipFirstSpring,
	}
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		AnimationSpeed: c.Sim.AnimationSpeed,
		Ticks:          c.Sim.Ticks,
		SampleEvery:    c.Sim.SampleEvery,
		ValidateState:  true,
	}
}

func (c *Config) Bounds() dynamo.Bounds {
	return dynamo.Bounds{Width: c.Sim.Width, Height: c.Sim.Height}
}

// NewBody builds the ring this configuration describes.
func (c *Config) NewBody() (*physics.SoftBody, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return physics.NewRing(c.Origin(), c.EffectiveRadius(), c.Body.NodeCount, c.PhysicsConfig())
}
