// Package kinematics walks the joint chain and produces one frame per
// rotational joint plus the end-effector.
package kinematics

import (
	"fmt"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/spatial"
)

// ChainAxes is the rotation order of the chain. Shoulder and Elbow apply
// Z, Y, X (yaw, pitch, roll); the Wrist applies X, Y, Z. Changing it moves
// the end-effector for any non-zero pose.
var ChainAxes = [arm.RotationalCount]string{"z", "y", "x", "z", "y", "x", "x", "y", "z"}

// Frame indices within a Solve result.
const (
	BaseFrame          = 0
	ShoulderPitchFrame = 1
	ElbowFrame         = 3
	ElbowPitchFrame    = 4
	WristFrame         = 6
	WristPitchFrame    = 7
	EndEffectorFrame   = 9

	FrameCount = arm.RotationalCount + 1
)

type Frame struct {
	ID       int         `json:"id"`
	Label    string      `json:"label"`
	Position spatial.Vec `json:"position"`
	XAxis    spatial.Vec `json:"xAxis"`
	YAxis    spatial.Vec `json:"yAxis"`
	ZAxis    spatial.Vec `json:"zAxis"`
}

func newFrame(id int, label string, m spatial.Mat4) Frame {
	f := spatial.ExtractFrame(m)
	return Frame{ID: id, Label: label, Position: f.Position, XAxis: f.XAxis, YAxis: f.YAxis, ZAxis: f.ZAxis}
}

func label(i int) string {
	if i == BaseFrame {
		return "Base"
	}
	return fmt.Sprintf("J%d", i+1)
}

// Solve computes the frames for the given joint angles (degrees) and link
// lengths (meters). The first frame of each segment after the first sits at
// the end of the previous segment. It accepts any finite angle; range
// limiting belongs to the caller.
func Solve(angles [arm.RotationalCount]float64, lengths [3]float64) []Frame {
	frames := make([]Frame, 0, FrameCount)
	m := spatial.Identity()

	for seg := 0; seg < 3; seg++ {
		for k := 0; k < 3; k++ {
			i := seg*3 + k
			m = spatial.Mul(m, spatial.Rotate(ChainAxes[i], spatial.Deg2Rad(angles[i])))
			frames = append(frames, newFrame(i, label(i), m))
		}
		m = spatial.Mul(m, spatial.Translate(lengths[seg], 0, 0))
	}

	return append(frames, newFrame(EndEffectorFrame, "EndEffector", m))
}

// SolveArm is Solve fed from the joint and link tables.
func SolveArm(joints []arm.Joint, links [3]arm.Link) []Frame {
	return Solve(arm.Angles(joints), Lengths(links))
}

func Lengths(links [3]arm.Link) [3]float64 {
	return [3]float64{links[0].Length, links[1].Length, links[2].Length}
}

// EndEffector returns the tool position, or the zero vector for an empty
// frame list.
func EndEffector(frames []Frame) spatial.Vec {
	if len(frames) == 0 {
		return spatial.Vec{}
	}
	return frames[len(frames)-1].Position
}

// Reach is the straight-line distance from the base to the end-effector.
func Reach(frames []Frame) float64 {
	if len(frames) == 0 {
		return 0
	}
	return spatial.Magnitude(spatial.Sub(EndEffector(frames), frames[BaseFrame].Position))
}

// Segment bounds for each link: proximal and distal frame indices.
var Segments = [3][2]int{
	{BaseFrame, ElbowFrame},
	{ElbowFrame, WristFrame},
	{WristFrame, EndEffectorFrame},
}
