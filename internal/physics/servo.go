package physics

import (
	"fmt"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
)

const (
	DefaultStiffness = 120.0
	DefaultDamping   = 15.0
)

// DefaultInertia is the effective rotational inertia per joint group.
var DefaultInertia = map[arm.Group]float64{
	arm.Shoulder: 2.5,
	arm.Elbow:    1.5,
	arm.Wrist:    0.5,
	arm.Gripper:  1.0,
}

// InertiaFor falls back to 1.0 for groups missing from the table.
func InertiaFor(table map[arm.Group]float64, g arm.Group) float64 {
	if v, ok := table[g]; ok && v > 0 {
		return v
	}
	return 1.0
}

// JointServo drives every joint toward its target with a spring-damper:
//
//	accel = (Stiffness*(target - angle) - Damping*velocity) / inertia
//
// State is [angles..., velocities...] in degrees and degrees per second;
// control is one target per joint.
type JointServo struct {
	Stiffness float64
	Damping   float64
	Inertia   []float64
}

func NewJointServo(joints []arm.Joint) *JointServo {
	return NewJointServoWith(joints, DefaultStiffness, DefaultDamping, DefaultInertia)
}

func NewJointServoWith(joints []arm.Joint, stiffness, damping float64, inertia map[arm.Group]float64) *JointServo {
	in := make([]float64, len(joints))
	for i, j := range joints {
		in[i] = InertiaFor(inertia, j.Group)
	}
	return &JointServo{Stiffness: stiffness, Damping: damping, Inertia: in}
}

func (s *JointServo) StateDim() int   { return 2 * len(s.Inertia) }
func (s *JointServo) ControlDim() int { return len(s.Inertia) }

func (s *JointServo) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	n := len(s.Inertia)
	dx := make(dynamo.State, 2*n)
	pos, vel := x.Split()

	for i := 0; i < n; i++ {
		dx[i] = vel[i]
		target := pos[i]
		if i < len(u) {
			target = u[i]
		}
		dx[n+i] = (s.Stiffness*(target-pos[i]) - s.Damping*vel[i]) / s.Inertia[i]
	}

	return dx
}

// Energy is the spring potential plus kinetic energy, in model units. It is
// used to check that a settled arm has stopped moving.
func (s *JointServo) Energy(x dynamo.State, u dynamo.Control) float64 {
	pos, vel := x.Split()
	e := 0.0
	for i := range s.Inertia {
		target := pos[i]
		if i < len(u) {
			target = u[i]
		}
		d := target - pos[i]
		e += 0.5*s.Stiffness*d*d + 0.5*s.Inertia[i]*vel[i]*vel[i]
	}
	return e
}

func (s *JointServo) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
	}
}

func (s *JointServo) SetParam(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%s=%g: %w", name, value, dynamo.ErrParameterBounds)
	}
	switch name {
	case "stiffness":
		s.Stiffness = value
	case "damping":
		s.Damping = value
	default:
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownParameter)
	}
	return nil
}
