package planetwalk

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// ControllerConfig tunes the controller. Angles are in degrees.
type ControllerConfig struct {
	FlySpeed     float32 `yaml:"fly_speed"`
	WalkSpeed    float32 `yaml:"walk_speed"`
	FlyFriction  float32 `yaml:"fly_friction"`
	WalkFriction float32 `yaml:"walk_friction"`

	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	MinPitch         float32 `yaml:"min_pitch"`
	MaxPitch         float32 `yaml:"max_pitch"`
	JumpVelocity     float32 `yaml:"jump_velocity"`
	AlignmentSpeed   float32 `yaml:"alignment_speed"`
	FloorMaxAngle    float32 `yaml:"floor_max_angle"`

	StartMode Mode `yaml:"start_mode"`
}

type PhysicsConfig struct {
	TickRate   float32 `yaml:"tick_rate"` // Hz
	MaxTicks   int     `yaml:"max_ticks_per_frame"`
	BodyRadius float32 `yaml:"body_radius"`
}

type LoggingConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Logging    LoggingConfig    `yaml:"logging"`
	Planets    []*Planet        `yaml:"planets"`
	Platforms  []*Platform      `yaml:"platforms"`
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		FlySpeed:         100,
		WalkSpeed:        20,
		FlyFriction:      0.02,
		WalkFriction:     0.03,
		MouseSensitivity: 0.003,
		MinPitch:         -89,
		MaxPitch:         89,
		JumpVelocity:     5,
		AlignmentSpeed:   2,
		FloorMaxAngle:    45,
		StartMode:        ModeFly,
	}
}

func DefaultConfig() Config {
	return Config{
		Controller: DefaultControllerConfig(),
		Physics: PhysicsConfig{
			TickRate:   60,
			MaxTicks:   8,
			BodyRadius: 0.5,
		},
		Logging: LoggingConfig{Prefix: "planetwalk"},
	}
}

// LoadConfig reads a YAML file over the defaults, so a file only needs the
// keys it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if err := c.Controller.Validate(); err != nil {
		return err
	}
	if c.Physics.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.Physics.TickRate)
	}
	if c.Physics.BodyRadius < 0 {
		return fmt.Errorf("%w: body_radius must not be negative", ErrInvalidConfig)
	}
	for i, p := range c.Planets {
		if p == nil {
			return fmt.Errorf("%w: planet %d is empty", ErrInvalidConfig, i)
		}
		if p.Radius <= 0 {
			return fmt.Errorf("%w: planet %q needs a positive radius", ErrInvalidConfig, p.Name)
		}
	}
	for i, p := range c.Platforms {
		if p == nil {
			return fmt.Errorf("%w: platform %d is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (c ControllerConfig) Validate() error {
	switch {
	case c.FlySpeed < 0 || c.WalkSpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.FlyFriction < 0 || c.FlyFriction > 1 || c.WalkFriction < 0 || c.WalkFriction > 1:
		return fmt.Errorf("%w: friction must be within [0, 1]", ErrInvalidConfig)
	case c.MinPitch > c.MaxPitch:
		return fmt.Errorf("%w: min_pitch %v above max_pitch %v", ErrInvalidConfig, c.MinPitch, c.MaxPitch)
	case c.MinPitch < -90 || c.MaxPitch > 90:
		return fmt.Errorf("%w: pitch limits must stay within [-90, 90]", ErrInvalidConfig)
	case c.AlignmentSpeed < 0:
		return fmt.Errorf("%w: alignment_speed must not be negative", ErrInvalidConfig)
	case c.FloorMaxAngle < 0 || c.FloorMaxAngle > 180:
		return fmt.Errorf("%w: floor_max_angle must be within [0, 180]", ErrInvalidConfig)
	}
	return nil
}

func (c ControllerConfig) integrator() Integrator {
	return Integrator{
		WalkSpeed:    c.WalkSpeed,
		FlySpeed:     c.FlySpeed,
		WalkFriction: c.WalkFriction,
		FlyFriction:  c.FlyFriction,
		JumpVelocity: c.JumpVelocity,
	}
}

func (c ControllerConfig) lookLimits() lookLimits {
	lo, hi := pitchLimits(c.MinPitch, c.MaxPitch)
	return lookLimits{sensitivity: c.MouseSensitivity, minPitch: lo, maxPitch: hi}
}
