// Package arm describes the manipulator: its joints, link geometry and
// structural material.
package arm

import "fmt"

type Group string

const (
	Shoulder Group = "Shoulder"
	Elbow    Group = "Elbow"
	Wrist    Group = "Wrist"
	Gripper  Group = "Gripper"
)

// Joint angles are in degrees. For the gripper, Angle is the opening in
// percent (0 closed, 100 fully open).
type Joint struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Angle       float64 `json:"angle" yaml:"angle"`
	TargetAngle float64 `json:"targetAngle" yaml:"target_angle"`
	Velocity    float64 `json:"velocity" yaml:"velocity"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Axis        string  `json:"axis" yaml:"axis"`
	Group       Group   `json:"group" yaml:"group"`
}

// Range is the width of the joint's declared travel.
func (j Joint) Range() float64 { return j.Max - j.Min }

// Center is the midpoint of the declared travel.
func (j Joint) Center() float64 { return (j.Min + j.Max) / 2 }

// Clamp limits v to [Min, Max].
func (j Joint) Clamp(v float64) float64 {
	if v < j.Min {
		return j.Min
	}
	if v > j.Max {
		return j.Max
	}
	return v
}

// InRange reports whether the current angle lies inside the declared travel.
func (j Joint) InRange() bool { return j.Angle >= j.Min && j.Angle <= j.Max }

func (j Joint) String() string {
	return fmt.Sprintf("J%d %s (%s) %.1f°", j.ID, j.Name, j.Axis, j.Angle)
}

// RotationalCount is the number of joints that contribute to the kinematic
// chain. The gripper follows them.
const RotationalCount = 9

// GripperID is the ID of the linear gripper joint.
const GripperID = 10

// DefaultJoints returns the joint table in chain order: Shoulder (z, y, x),
// Elbow (z, y, x), Wrist (x, y, z), Gripper.
func DefaultJoints() []Joint {
	joints := []Joint{
		{ID: 1, Name: "Shoulder Yaw", Axis: "z", Group: Shoulder, Min: -180, Max: 180},
		{ID: 2, Name: "Shoulder Pitch", Axis: "y", Group: Shoulder, Min: -90, Max: 90},
		{ID: 3, Name: "Shoulder Roll", Axis: "x", Group: Shoulder, Min: -180, Max: 180},
		{ID: 4, Name: "Elbow Yaw", Axis: "z", Group: Elbow, Min: -180, Max: 180},
		{ID: 5, Name: "Elbow Pitch", Axis: "y", Group: Elbow, Min: -180, Max: 45},
		{ID: 6, Name: "Elbow Roll", Axis: "x", Group: Elbow, Min: -180, Max: 180},
		{ID: 7, Name: "Wrist Roll", Axis: "x", Group: Wrist, Min: -180, Max: 180},
		{ID: 8, Name: "Wrist Pitch", Axis: "y", Group: Wrist, Min: -90, Max: 90},
		{ID: 9, Name: "Wrist Yaw", Axis: "z", Group: Wrist, Min: -90, Max: 90},
		{ID: GripperID, Name: "Gripper", Axis: "x", Group: Gripper, Min: 0, Max: 100},
	}
	return ApplyPose(joints, ResetPose())
}

// Pose maps joint IDs to angles. Joints missing from the map are left alone.
type Pose map[int]float64

// ResetPose is the documented rest position: forearm folded back, gripper
// half open.
func ResetPose() Pose {
	return Pose{
		1: 0, 2: 0, 3: 0,
		4: -180, 5: -180, 6: 0,
		7: 0, 8: 0, 9: 0,
		GripperID: 50,
	}
}

// ApplyPose returns a copy of joints with angle and target set from the pose
// and velocity zeroed for every posed joint.
func ApplyPose(joints []Joint, p Pose) []Joint {
	out := make([]Joint, len(joints))
	copy(out, joints)
	for i := range out {
		if v, ok := p[out[i].ID]; ok {
			out[i].Angle = v
			out[i].TargetAngle = v
			out[i].Velocity = 0
		}
	}
	return out
}

// Angles returns the rotational joint angles in chain order, in degrees.
func Angles(joints []Joint) [RotationalCount]float64 {
	var a [RotationalCount]float64
	for i := 0; i < RotationalCount && i < len(joints); i++ {
		a[i] = joints[i].Angle
	}
	return a
}

// Find returns the index of the joint with the given ID, or -1.
func Find(joints []Joint, id int) int {
	for i := range joints {
		if joints[i].ID == id {
			return i
		}
	}
	return -1
}

// Opening returns the gripper opening percent, or 0 when there is no gripper.
func Opening(joints []Joint) float64 {
	if i := Find(joints, GripperID); i >= 0 {
		return joints[i].Angle
	}
	return 0
}
