package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/edaniels/golog"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
)

// Engine owns a SimulationState and serializes every command and tick
// behind one mutex. Readers get snapshots; nothing outside the engine
// writes joint angles or velocities.
type Engine struct {
	mu     sync.Mutex
	state  SimulationState
	params Params
	home   []arm.Joint
	logger golog.Logger
}

// NewEngine starts from joints. Reset returns to the same table with the
// reset pose applied.
func NewEngine(joints []arm.Joint, payloadKg float64, p Params, logger golog.Logger) *Engine {
	if logger == nil {
		logger = golog.Global()
	}
	return &Engine{
		state:  NewState(joints, payloadKg, p),
		params: p,
		home:   append([]arm.Joint(nil), joints...),
		logger: logger,
	}
}

// Tick advances by a wall-clock delta in seconds and returns the new state.
// A tick that leaves any joint non-finite is dropped and the previous state
// kept; Reset is the way out if the model keeps diverging.
func (e *Engine) Tick(dt float64) SimulationState {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := Advance(e.state, dt, e.params)
	if e.params.Step.ValidateState && !jointState(next).IsValid() {
		e.logger.Warnw("discarding non-finite tick",
			"error", &dynamo.SimError{Tick: next.Ticks, Time: next.SimTime, Wrapped: dynamo.ErrInvalidState})
		return e.state.Clone()
	}
	e.state = next
	return e.state.Clone()
}

// SetTarget commands a joint. The value is clamped to the joint range.
func (e *Engine) SetTarget(id int, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := arm.Find(e.state.Joints, id)
	if i < 0 {
		return fmt.Errorf("joint %d: %w", id, ErrUnknownJoint)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("joint %d target NaN: %w", id, dynamo.ErrParameterBounds)
	}
	j := &e.state.Joints[i]
	j.TargetAngle = j.Clamp(value)
	return nil
}

// NudgeTarget moves a joint target by delta, clamped like SetTarget.
func (e *Engine) NudgeTarget(id int, delta float64) error {
	e.mu.Lock()
	i := arm.Find(e.state.Joints, id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("joint %d: %w", id, ErrUnknownJoint)
	}
	v := e.state.Joints[i].TargetAngle + delta
	e.mu.Unlock()
	return e.SetTarget(id, v)
}

func (e *Engine) SetPayload(kg float64) error {
	if kg < 0 || math.IsNaN(kg) {
		return fmt.Errorf("%g kg: %w", kg, ErrNegativePayload)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PayloadKg = kg
	e.state = Derive(e.state, e.params)
	return nil
}

// SetAnimate switches animate mode. The animation clock keeps its value, so
// resuming continues the motion where it paused.
func (e *Engine) SetAnimate(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Animate = on
}

func (e *Engine) ToggleAnimate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Animate = !e.state.Animate
	return e.state.Animate
}

// Reset applies the reset pose with zero velocity, stops animate mode and
// clears the trail and animation clock. Camera and payload are kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Joints = arm.ApplyPose(e.home, arm.ResetPose())
	e.state.Trajectory = nil
	e.state.SimTime = 0
	e.state.Animate = false
	e.state = Derive(e.state, e.params)
	e.logger.Debug("arm reset")
}

// ApplyPose snaps joints to a pose. Values are clamped to joint ranges and
// velocities zeroed.
func (e *Engine) ApplyPose(p arm.Pose) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	clamped := make(arm.Pose, len(p))
	for id, v := range p {
		i := arm.Find(e.state.Joints, id)
		if i < 0 {
			return fmt.Errorf("pose joint %d: %w", id, ErrUnknownJoint)
		}
		clamped[id] = e.state.Joints[i].Clamp(v)
	}
	e.state.Joints = arm.ApplyPose(e.state.Joints, clamped)
	e.state = Derive(e.state, e.params)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() SimulationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Orbit(dAzimuth, dElevation float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Camera = e.state.Camera.Orbit(dAzimuth, dElevation)
}

func (e *Engine) Zoom(factor float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Camera = e.state.Camera.Zoom(factor)
}

func (e *Engine) Pan(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Camera = e.state.Camera.Pan(dx, dy)
}

func (e *Engine) SetCamera(c Camera) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Camera = c
}

// SetParam tunes the joint model when it is configurable.
func (e *Engine) SetParam(name string, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.params.System.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownParameter)
	}
	return c.SetParam(name, value)
}

// Params returns the model configuration.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}
