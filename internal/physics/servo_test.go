package physics

import (
	"errors"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
)

func TestServoInertiaByGroup(t *testing.T) {
	s := NewJointServo(arm.DefaultJoints())
	want := []float64{2.5, 2.5, 2.5, 1.5, 1.5, 1.5, 0.5, 0.5, 0.5, 1.0}
	if len(s.Inertia) != len(want) {
		t.Fatalf("inertia table has %d entries", len(s.Inertia))
	}
	for i, w := range want {
		if s.Inertia[i] != w {
			t.Errorf("joint %d inertia = %v, want %v", i, s.Inertia[i], w)
		}
	}
	if InertiaFor(map[arm.Group]float64{}, arm.Wrist) != 1.0 {
		t.Error("missing group should fall back to 1.0")
	}
}

func TestServoDerive(t *testing.T) {
	s := &JointServo{Stiffness: 120, Damping: 15, Inertia: []float64{2.5}}
	dx := s.Derive(dynamo.State{10, 4}, dynamo.Control{30}, 0)

	if dx[0] != 4 {
		t.Errorf("d(angle) = %v, want 4", dx[0])
	}
	want := (120*(30-10) - 15*4) / 2.5
	if dx[1] != want {
		t.Errorf("d(velocity) = %v, want %v", dx[1], want)
	}
}

func TestServoAtRestHasNoEnergy(t *testing.T) {
	s := NewJointServo(arm.DefaultJoints()[:2])
	if e := s.Energy(dynamo.State{5, 5, 0, 0}, dynamo.Control{5, 5}); e != 0 {
		t.Errorf("energy at target = %v", e)
	}
}

func TestServoParams(t *testing.T) {
	s := NewJointServo(arm.DefaultJoints())
	if err := s.SetParam("damping", 20); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if s.GetParams()["damping"] != 20 {
		t.Errorf("damping = %v", s.Damping)
	}
	if err := s.SetParam("stiffness", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("negative stiffness error = %v", err)
	}
	if err := s.SetParam("mass", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("unknown parameter error = %v", err)
	}
}
