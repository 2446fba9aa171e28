package sim

import (
	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/stress"
)

// Advance steps the simulation by a wall-clock delta and returns the next
// state. The input state is not modified.
//
// Order: clamp dt, advance the animation clock when animating, compute
// targets, integrate every joint in substeps of at most Step.MaxSubstep
// with the targets held, then recompute frames and stress and append the
// end-effector to the trajectory.
func Advance(s SimulationState, dt float64, p Params) SimulationState {
	next := s.Clone()
	dt = p.Step.ClampDt(dt)
	if next.Animate {
		next.SimTime += dt
	}

	u := Controller(next).Compute(jointState(next), next.SimTime)
	n, h := p.Step.Substeps(dt)
	for k := 0; k < n; k++ {
		x := p.Integrator.Step(p.System, jointState(next), u, next.SimTime, h)
		pos, vel := x.Split()
		for i := range next.Joints {
			j := &next.Joints[i]
			j.Angle, j.Velocity = pos[i], vel[i]
			if p.ClampToLimits && !j.InRange() {
				j.Angle = j.Clamp(j.Angle)
				j.Velocity = 0
			}
		}
	}

	next.Ticks++
	next = Derive(next, p)
	next.Trajectory = next.Trajectory.Append(kinematics.EndEffector(next.Frames))
	return next
}

// Controller returns the target source for the state: user targets, or the
// animate oscillator layered over them.
func Controller(s SimulationState) dynamo.Controller {
	manual := control.NewManual(s.Joints)
	if !s.Animate {
		return manual
	}
	return control.NewOscillator(s.Joints, manual)
}

// Derive recomputes Frames and Stress from joints, links and payload.
func Derive(s SimulationState, p Params) SimulationState {
	s.Frames = kinematics.SolveArm(s.Joints, p.Links)
	s.Stress = stress.Estimate(s.Frames, p.Links, p.Material, s.PayloadKg)
	return s
}

func jointState(s SimulationState) dynamo.State {
	pos := make([]float64, len(s.Joints))
	vel := make([]float64, len(s.Joints))
	for i, j := range s.Joints {
		pos[i] = j.Angle
		vel[i] = j.Velocity
	}
	return dynamo.Join(pos, vel)
}
