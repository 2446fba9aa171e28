// Package physics provides the joint model stepped by the simulation.
//
// [JointServo] implements [dynamo.System]: a per-joint spring-damper that
// pulls each joint angle toward its commanded target. Stiffness and damping
// are shared by all joints; inertia depends on the joint group, so the
// shoulder lags the wrist.
//
// The servo also implements [dynamo.Configurable] for live tuning:
//
//	servo := physics.NewJointServo(arm.DefaultJoints())
//	_ = servo.SetParam("damping", 20)
package physics
