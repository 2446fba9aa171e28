package sim

import (
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/integrators"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/physics"
	"github.com/san-kum/armsim/internal/stress"
)

// SimulationState is everything the viewport and exporters read. Frames
// and Stress are derived from Joints, Links and PayloadKg after every
// change.
type SimulationState struct {
	Joints     []arm.Joint
	Camera     Camera
	Trajectory Trajectory
	SimTime    float64
	Animate    bool
	PayloadKg  float64
	Ticks      int

	Frames []kinematics.Frame
	Stress [3]stress.Result
}

// Clone returns a deep copy.
func (s SimulationState) Clone() SimulationState {
	c := s
	c.Joints = append([]arm.Joint(nil), s.Joints...)
	c.Trajectory = append(Trajectory(nil), s.Trajectory...)
	c.Frames = append([]kinematics.Frame(nil), s.Frames...)
	return c
}

// Worst is the pivot with the lowest safety factor.
func (s SimulationState) Worst() stress.Result {
	return stress.Worst(s.Stress)
}

// Params is the read-only model configuration that Advance runs against.
type Params struct {
	Links    [3]arm.Link
	Material arm.Material

	System     dynamo.System
	Integrator dynamo.Integrator
	Step       dynamo.Config

	// ClampToLimits holds integrated angles inside the joint range. Off by
	// default: the servo may overshoot a limit and the overshoot is
	// reported as is.
	ClampToLimits bool
}

func DefaultParams(joints []arm.Joint) Params {
	return Params{
		Links:      arm.DefaultLinks(),
		Material:   arm.Aluminium6061,
		System:     physics.NewJointServo(joints),
		Integrator: integrators.NewSemiImplicitEuler(),
		Step:       dynamo.DefaultConfig(),
	}
}

// NewState builds the initial state for a joint table and recomputes the
// derived frames and stress.
func NewState(joints []arm.Joint, payloadKg float64, p Params) SimulationState {
	s := SimulationState{
		Joints:    append([]arm.Joint(nil), joints...),
		Camera:    DefaultCamera(),
		PayloadKg: payloadKg,
	}
	return Derive(s, p)
}
