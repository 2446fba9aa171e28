// Package dynamo provides the simulation contracts shared by the joint
// physics packages.
//
// The package defines the fundamental interfaces and types for stepping the
// arm's joint model:
//
//   - [State]: joint angles followed by joint velocities
//   - [System]: the spring-damper law (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper
//   - [Controller]: source of joint targets (manual or animated)
//
// # Example
//
//	servo := physics.NewJointServo(joints)
//	step := integrators.NewSemiImplicitEuler()
//	x = step.Step(servo, x, targets.Compute(x, t), t, dt)
//
// # Thread Safety
//
// None of the types here lock. The sim package's Engine owns the only
// mutable copy of the state and serializes access to it.
package dynamo
