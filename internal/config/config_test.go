package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/integrators"
	"github.com/san-kum/armsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics.Stiffness != 120 || cfg.Physics.Damping != 15 {
		t.Errorf("gains = %v/%v", cfg.Physics.Stiffness, cfg.Physics.Damping)
	}
	if cfg.Physics.MaxDt != 0.1 {
		t.Errorf("max dt = %v", cfg.Physics.MaxDt)
	}
	p, err := cfg.Params(arm.DefaultJoints())
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Step.MaxDt != DefaultMaxDt || p.Step.MaxSubstep != DefaultMaxSubstep {
		t.Errorf("step config = %+v", p.Step)
	}
	if cfg.Material.YieldStrengthMPa != 276 {
		t.Errorf("yield = %v", cfg.Material.YieldStrengthMPa)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("fold")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	p[2] = 1234
	if Presets["fold"][2] == 1234 {
		t.Error("GetPreset must return a copy")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsWithinLimits(t *testing.T) {
	joints := arm.DefaultJoints()
	for _, name := range ListPresets() {
		for id, v := range Presets[name] {
			i := arm.Find(joints, id)
			if i < 0 {
				t.Errorf("%s: unknown joint %d", name, id)
				continue
			}
			if v < joints[i].Min || v > joints[i].Max {
				t.Errorf("%s: joint %d = %v outside [%v, %v]", name, id, v, joints[i].Min, joints[i].Max)
			}
		}
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("got %d names", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.yaml")
	cfg := DefaultConfig()
	cfg.PayloadKg = 2.5
	cfg.Physics.Integrator = "euler"
	cfg.Physics.Inertia["wrist"] = 0.8
	cfg.Analysis.Timeout = 5 * time.Second
	cfg.Pose = PoseConfig{Preset: "reach", Joints: map[int]float64{1: 45}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PayloadKg != 2.5 || got.Physics.Integrator != "euler" || got.Analysis.Timeout != 5*time.Second {
		t.Errorf("round trip lost fields: %+v", got)
	}

	pose, err := got.StartPose()
	if err != nil {
		t.Fatal(err)
	}
	if pose[1] != 45 || pose[arm.GripperID] != 100 {
		t.Errorf("start pose = %v", pose)
	}

	p, err := got.Params(arm.DefaultJoints())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Integrator.(*integrators.Euler); !ok {
		t.Errorf("integrator = %T", p.Integrator)
	}
	servo := p.System.(*physics.JointServo)
	if servo.Inertia[6] != 0.8 || servo.Inertia[0] != 2.5 {
		t.Errorf("inertia = %v", servo.Inertia)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.yaml")
	if err := os.WriteFile(path, []byte("payload_kg: 1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PayloadKg != 1.5 || cfg.Links[0].Length != 0.35 {
		t.Errorf("partial load = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"integrator", func(c *Config) { c.Physics.Integrator = "rk4" }, ErrUnknownIntegrator},
		{"preset", func(c *Config) { c.Pose.Preset = "moonwalk" }, ErrUnknownPreset},
		{"payload", func(c *Config) { c.PayloadKg = -1 }, ErrInvalid},
		{"cog", func(c *Config) { c.Links[1].CogRatio = 1.5 }, ErrInvalid},
		{"damping", func(c *Config) { c.Physics.Damping = 0 }, ErrInvalid},
		{"substep", func(c *Config) { c.Physics.MaxSubstep = -0.01 }, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ARMSIM_TEST_KEY=from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARMSIM_TEST_KEY", "")
	os.Unsetenv("ARMSIM_TEST_KEY")

	if err := LoadEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Analysis.APIKeyEnv = "ARMSIM_TEST_KEY"
	if cfg.APIKey() != "from-file" {
		t.Errorf("APIKey() = %q", cfg.APIKey())
	}
}
