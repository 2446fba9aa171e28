package dynamo

import "math"

// State holds n positions followed by n velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Split returns the position and velocity halves. They alias s.
func (s State) Split() (pos, vel []float64) {
	half := len(s) / 2
	return s[:half], s[half:]
}

// Join builds a state from positions and velocities.
func Join(pos, vel []float64) State {
	s := make(State, 0, len(pos)+len(vel))
	s = append(s, pos...)
	return append(s, vel...)
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config bounds a single step. A delta is first clamped to MaxDt, then
// integrated in equal substeps no longer than MaxSubstep.
type Config struct {
	MaxDt         float64
	MaxSubstep    float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxDt:         0.1,
		MaxSubstep:    1.0 / 60,
		ValidateState: true,
	}
}

// ClampDt limits a wall-clock delta to [0, MaxDt]. NaN and negative deltas
// become zero.
func (c Config) ClampDt(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if c.MaxDt > 0 && dt > c.MaxDt {
		return c.MaxDt
	}
	return dt
}

// Substeps splits an already clamped delta into n equal steps of h. A
// non-positive MaxSubstep integrates in one step.
func (c Config) Substeps(dt float64) (n int, h float64) {
	if dt <= 0 {
		return 0, 0
	}
	n = 1
	if c.MaxSubstep > 0 {
		// tolerance keeps dt == k*MaxSubstep from rounding up to k+1
		n = max(1, int(math.Ceil(dt/c.MaxSubstep-1e-9)))
	}
	return n, dt / float64(n)
}
