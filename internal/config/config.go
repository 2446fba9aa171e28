package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/integrators"
	"github.com/san-kum/armsim/internal/physics"
	"github.com/san-kum/armsim/internal/sim"
)

const (
	DefaultMaxDt      = 0.1
	DefaultMaxSubstep = 1.0 / 60
	DefaultWidth      = 960
	DefaultHeight     = 640
	DefaultEndpoint   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel      = "gemini-2.0-flash"
	DefaultAPIKeyEnv  = "GEMINI_API_KEY"
	DefaultTimeout    = 20 * time.Second
	DefaultRate       = 0.5
	DefaultIntegrator = "semi-implicit"
)

var (
	ErrUnknownIntegrator = errors.New("config: unknown integrator")
	ErrUnknownPreset     = errors.New("config: unknown pose preset")
	ErrInvalid           = errors.New("config: invalid value")
)

type Config struct {
	Links     [3]arm.Link    `yaml:"links"`
	Material  arm.Material   `yaml:"material"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Camera    sim.Camera     `yaml:"camera"`
	Render    RenderConfig   `yaml:"render"`
	Analysis  AnalysisConfig `yaml:"analysis"`
	PayloadKg float64        `yaml:"payload_kg"`
	Pose      PoseConfig     `yaml:"pose"`
}

type PhysicsConfig struct {
	Stiffness     float64            `yaml:"stiffness"`
	Damping       float64            `yaml:"damping"`
	Inertia       map[string]float64 `yaml:"inertia"`
	MaxDt         float64            `yaml:"max_dt"`
	// MaxSubstep bounds one integration step inside a tick; 0 integrates
	// each tick in a single step.
	MaxSubstep    float64            `yaml:"max_substep"`
	Integrator    string             `yaml:"integrator"`
	ClampToLimits bool               `yaml:"clamp_to_limits"`
}

type RenderConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	ShowAxes     bool `yaml:"show_axes"`
	StressColors bool `yaml:"stress_colors"`
	Silhouette   bool `yaml:"silhouette"`
}

type AnalysisConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
	Rate      float64       `yaml:"rate"`
}

// PoseConfig selects a starting preset and optional per-joint overrides.
type PoseConfig struct {
	Preset string          `yaml:"preset"`
	Joints map[int]float64 `yaml:"joints"`
}

func DefaultConfig() *Config {
	return &Config{
		Links:    arm.DefaultLinks(),
		Material: arm.Aluminium6061,
		Physics: PhysicsConfig{
			Stiffness: physics.DefaultStiffness,
			Damping:   physics.DefaultDamping,
			Inertia: map[string]float64{
				"shoulder": physics.DefaultInertia[arm.Shoulder],
				"elbow":    physics.DefaultInertia[arm.Elbow],
				"wrist":    physics.DefaultInertia[arm.Wrist],
				"gripper":  physics.DefaultInertia[arm.Gripper],
			},
			MaxDt:      DefaultMaxDt,
			MaxSubstep: DefaultMaxSubstep,
			Integrator: DefaultIntegrator,
		},
		Camera: sim.DefaultCamera(),
		Render: RenderConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			ShowAxes:     true,
			StressColors: true,
			Silhouette:   true,
		},
		Analysis: AnalysisConfig{
			Endpoint:  DefaultEndpoint,
			Model:     DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
			Timeout:   DefaultTimeout,
			Rate:      DefaultRate,
		},
		Pose: PoseConfig{Preset: "reset"},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads KEY=VALUE pairs from .env files into the environment.
// Missing files are ignored; variables already set win.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// APIKey returns the analysis credential from the configured variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Analysis.APIKeyEnv)
}

func (c *Config) Validate() error {
	for _, l := range c.Links {
		if l.Length <= 0 || l.Mass < 0 || l.OuterDiameter <= 0 || l.WallThickness <= 0 {
			return fmt.Errorf("link %q: %w", l.Name, ErrInvalid)
		}
		if l.CogRatio < 0 || l.CogRatio > 1 {
			return fmt.Errorf("link %q cog_ratio %g: %w", l.Name, l.CogRatio, ErrInvalid)
		}
	}
	if c.Material.YieldStrengthMPa <= 0 {
		return fmt.Errorf("material yield strength: %w", ErrInvalid)
	}
	if c.Physics.Stiffness <= 0 || c.Physics.Damping <= 0 || c.Physics.MaxDt <= 0 {
		return fmt.Errorf("physics gains and max_dt must be positive: %w", ErrInvalid)
	}
	if c.Physics.MaxSubstep < 0 || math.IsNaN(c.Physics.MaxSubstep) {
		return fmt.Errorf("physics max_substep %g: %w", c.Physics.MaxSubstep, ErrInvalid)
	}
	if integrators.ByName(c.Physics.Integrator) == nil {
		return fmt.Errorf("%q: %w", c.Physics.Integrator, ErrUnknownIntegrator)
	}
	if c.PayloadKg < 0 {
		return fmt.Errorf("payload_kg %g: %w", c.PayloadKg, ErrInvalid)
	}
	if _, err := c.StartPose(); err != nil {
		return err
	}
	return nil
}

// Params builds the simulation parameters for a joint table.
func (c *Config) Params(joints []arm.Joint) (sim.Params, error) {
	integ := integrators.ByName(c.Physics.Integrator)
	if integ == nil {
		return sim.Params{}, fmt.Errorf("%q: %w", c.Physics.Integrator, ErrUnknownIntegrator)
	}

	inertia := make(map[arm.Group]float64, len(c.Physics.Inertia))
	for _, g := range []arm.Group{arm.Shoulder, arm.Elbow, arm.Wrist, arm.Gripper} {
		if v, ok := c.Physics.Inertia[groupKey(g)]; ok {
			inertia[g] = v
		} else {
			inertia[g] = physics.DefaultInertia[g]
		}
	}

	return sim.Params{
		Links:         c.Links,
		Material:      c.Material,
		System:        physics.NewJointServoWith(joints, c.Physics.Stiffness, c.Physics.Damping, inertia),
		Integrator:    integ,
		Step:          dynamo.Config{MaxDt: c.Physics.MaxDt, MaxSubstep: c.Physics.MaxSubstep, ValidateState: true},
		ClampToLimits: c.Physics.ClampToLimits,
	}, nil
}

// StartPose is the configured preset with overrides applied.
func (c *Config) StartPose() (arm.Pose, error) {
	name := c.Pose.Preset
	if name == "" {
		name = "reset"
	}
	base := GetPreset(name)
	if base == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	p := make(arm.Pose, len(base)+len(c.Pose.Joints))
	for id, v := range base {
		p[id] = v
	}
	for id, v := range c.Pose.Joints {
		p[id] = v
	}
	return p, nil
}

func groupKey(g arm.Group) string {
	switch g {
	case arm.Shoulder:
		return "shoulder"
	case arm.Elbow:
		return "elbow"
	case arm.Wrist:
		return "wrist"
	}
	return "gripper"
}
