package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/dynamo"
)

// Metric accumulates a scalar over a headless run.
type Metric interface {
	Name() string
	Observe(s SimulationState, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every tick of a headless run.
type Observer interface {
	OnTick(s SimulationState, t float64)
}

// Config describes a headless run: fixed ticks of Dt for Duration seconds.
type Config struct {
	Dt       float64
	Duration float64
	// Every records a sample on every n-th tick; 0 or 1 records all.
	Every int
}

type Sample struct {
	Time      float64
	State     SimulationState
	MinSafety float64
	PeakMPa   float64
}

type Result struct {
	Final   SimulationState
	Samples []Sample
	Metrics map[string]float64
	Ticks   int
	// Elapsed is simulated seconds, the sum of the clamped ticks.
	Elapsed float64
}

// Simulator replays Advance at a fixed rate without a viewport.
type Simulator struct {
	params    Params
	metrics   []Metric
	observers []Observer
}

func New(p Params) *Simulator {
	return &Simulator{
		params:    p,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, s0 SimulationState, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if n := s.params.System.ControlDim(); len(s0.Joints) != n {
		return nil, fmt.Errorf("%d joints for a %d-joint model: %w", len(s0.Joints), n, dynamo.ErrDimensionMismatch)
	}

	// Advance never steps further than MaxDt, so time and tick count
	// follow the clamped delta.
	dt := s.params.Step.ClampDt(cfg.Dt)
	steps := int(math.Round(cfg.Duration / dt))
	every := cfg.Every
	if every < 1 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	state := Derive(s0.Clone(), s.params)
	t := 0.0
	result.Samples = append(result.Samples, sample(state, t))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Final, result.Elapsed = state, t
			return result, ctx.Err()
		default:
		}

		next := Advance(state, dt, s.params)
		if s.params.Step.ValidateState && !jointState(next).IsValid() {
			result.Final, result.Elapsed = state, t
			return result, fmt.Errorf("headless run: %w", &dynamo.SimError{Tick: i, Time: t, Wrapped: dynamo.ErrInvalidState})
		}
		state = next
		t += dt
		result.Ticks++

		for _, m := range s.metrics {
			m.Observe(state, t)
		}
		for _, obs := range s.observers {
			obs.OnTick(state, t)
		}
		if (i+1)%every == 0 {
			result.Samples = append(result.Samples, sample(state, t))
		}
	}

	result.Final, result.Elapsed = state, t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func sample(s SimulationState, t float64) Sample {
	w := s.Worst()
	return Sample{Time: t, State: s, MinSafety: float64(w.SafetyFactor), PeakMPa: w.StressMPa}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, ErrInvalidConfig)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, ErrInvalidConfig)
	}
	return nil
}
