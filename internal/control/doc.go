// Package control produces joint targets for the servo.
//
// Both controllers implement [dynamo.Controller]. The control vector has
// one entry per joint, in the same order as the joint table:
//
//   - [Manual]: targets set by the user, clamped to joint limits
//   - [Oscillator]: animate mode, a phase-shifted sinusoid around each
//     joint's center; the gripper keeps its manual target
//
// The t argument to Compute is the animation clock, not wall time.
package control
