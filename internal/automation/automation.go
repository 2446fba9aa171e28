// Package automation runs scripted arm sequences from YAML.
package automation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/edaniels/golog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/store"
)

// DefaultDt is the tick used by steps that leave dt unset.
const DefaultDt = 1.0 / 60

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a named sequence of steps run on one arm. State carries over
// from step to step.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep changes the arm, then lets the servo run for Duration
// seconds. Unset fields leave the arm as the previous step left it.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Targets  map[int]float64    `yaml:"targets"`
	Payload  *float64           `yaml:"payload_kg"`
	Animate  *bool              `yaml:"animate"`
	Reset    bool               `yaml:"reset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult is the arm after a step plus the standard metrics over it.
type StepResult struct {
	Name    string
	Final   sim.SimulationState
	Metrics map[string]float64
	Ticks   int
	Saved   string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(bytes.NewReader(data))
}

func ParseScenario(r io.Reader) (*Scenario, error) {
	var scenario Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// RunScenario executes every step on engine in order. It stops at the first
// failing step and returns the results so far.
func RunScenario(ctx context.Context, scenario *Scenario, engine *sim.Engine, logger golog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = golog.Global()
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		logger.Infow("running step", "scenario", scenario.Name, "step", name, "index", i+1, "of", len(scenario.Steps))

		if err := apply(engine, step); err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		res, err := runStep(ctx, engine, step)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}
		res.Name = name

		if step.SaveAs != "" {
			if err := save(step.SaveAs, res.Final); err != nil {
				return results, fmt.Errorf("%s: %w", name, err)
			}
			res.Saved = step.SaveAs
			logger.Debugw("step saved", "step", name, "path", step.SaveAs)
		}
		results = append(results, res)
	}
	return results, nil
}

func apply(engine *sim.Engine, step ScenarioStep) error {
	if step.Reset {
		engine.Reset()
	}
	if step.Preset != "" {
		pose := config.GetPreset(step.Preset)
		if pose == nil {
			return fmt.Errorf("%q: %w", step.Preset, config.ErrUnknownPreset)
		}
		if err := engine.ApplyPose(pose); err != nil {
			return err
		}
	}
	for id, v := range step.Targets {
		if err := engine.SetTarget(id, v); err != nil {
			return err
		}
	}
	if step.Payload != nil {
		if err := engine.SetPayload(*step.Payload); err != nil {
			return err
		}
	}
	if step.Animate != nil {
		engine.SetAnimate(*step.Animate)
	}
	for k, v := range step.Params {
		if err := engine.SetParam(k, v); err != nil {
			return err
		}
	}
	return nil
}

func runStep(ctx context.Context, engine *sim.Engine, step ScenarioStep) (StepResult, error) {
	dt := step.Dt
	if dt <= 0 {
		dt = DefaultDt
	}
	dt = engine.Params().Step.ClampDt(dt)
	if step.Duration < 0 || math.IsNaN(step.Duration) {
		return StepResult{}, fmt.Errorf("duration %g: %w", step.Duration, sim.ErrInvalidConfig)
	}

	ms := metrics.Standard()
	for _, m := range ms {
		m.Reset()
	}

	n := int(math.Round(step.Duration / dt))
	s := engine.Snapshot()
	for i := 0; i < n; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return StepResult{}, err
			}
		}
		s = engine.Tick(dt)
		for _, m := range ms {
			m.Observe(s, float64(i+1)*dt)
		}
	}

	out := StepResult{Final: s, Metrics: make(map[string]float64, len(ms)), Ticks: n}
	for _, m := range ms {
		out.Metrics[m.Name()] = m.Value()
	}
	return out, nil
}

func save(path string, s sim.SimulationState) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Encode(f, store.BuildExport(s, timeNow())); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// NewEngine builds an engine for a scenario from config defaults.
func NewEngine(cfg *config.Config, logger golog.Logger) (*sim.Engine, error) {
	joints := arm.DefaultJoints()
	params, err := cfg.Params(joints)
	if err != nil {
		return nil, err
	}
	pose, err := cfg.StartPose()
	if err != nil {
		return nil, err
	}
	return sim.NewEngine(arm.ApplyPose(joints, pose), cfg.PayloadKg, params, logger), nil
}
