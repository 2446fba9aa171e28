package kinematics

import (
	"math"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/spatial"
)

func vecNear(a, b spatial.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

var lengths = [3]float64{0.35, 0.30, 0.12}

func TestZeroPoseStretchesAlongX(t *testing.T) {
	frames := Solve([arm.RotationalCount]float64{}, lengths)
	if len(frames) != FrameCount {
		t.Fatalf("expected %d frames, got %d", FrameCount, len(frames))
	}

	want := spatial.Vec{X: 0.77}
	if got := EndEffector(frames); !vecNear(got, want, 1e-12) {
		t.Errorf("end effector = %v, want %v", got, want)
	}
	if got := frames[ElbowFrame].Position; !vecNear(got, spatial.Vec{X: 0.35}, 1e-12) {
		t.Errorf("elbow = %v", got)
	}
	if got := frames[WristFrame].Position; !vecNear(got, spatial.Vec{X: 0.65}, 1e-12) {
		t.Errorf("wrist = %v", got)
	}
	if r := Reach(frames); math.Abs(r-0.77) > 1e-12 {
		t.Errorf("reach = %v", r)
	}
}

func TestFrameLabels(t *testing.T) {
	frames := Solve([arm.RotationalCount]float64{}, lengths)
	want := []string{"Base", "J2", "J3", "J4", "J5", "J6", "J7", "J8", "J9", "EndEffector"}
	for i, f := range frames {
		if f.Label != want[i] || f.ID != i {
			t.Errorf("frame %d = %d/%s, want %s", i, f.ID, f.Label, want[i])
		}
	}
}

func TestRotationOrderMatters(t *testing.T) {
	a, b := spatial.Deg2Rad(90), spatial.Deg2Rad(90)

	zyx := spatial.Mul(spatial.Mul(spatial.RotateZ(a), spatial.RotateY(b)), spatial.RotateX(0))
	yzx := spatial.Mul(spatial.Mul(spatial.RotateY(b), spatial.RotateZ(a)), spatial.RotateX(0))
	if zyx == yzx {
		t.Fatal("Z-Y-X and Y-Z-X produced the same rotation")
	}

	tip := spatial.Vec{X: 1}
	if vecNear(zyx.Apply(tip), yzx.Apply(tip), 1e-6) {
		t.Errorf("swapped order moved the tip to the same place: %v", zyx.Apply(tip))
	}

	var angles [arm.RotationalCount]float64
	angles[0], angles[1] = 90, 90
	got := EndEffector(Solve(angles, lengths))
	want := zyx.Apply(spatial.Vec{X: 0.77})
	if !vecNear(got, want, 1e-9) {
		t.Errorf("chain end effector = %v, want %v", got, want)
	}
}

func TestShoulderYawSwingsWholeArm(t *testing.T) {
	var angles [arm.RotationalCount]float64
	angles[0] = 90

	got := EndEffector(Solve(angles, lengths))
	if !vecNear(got, spatial.Vec{Y: 0.77}, 1e-9) {
		t.Errorf("end effector = %v, want (0, 0.77, 0)", got)
	}
}

func TestResetPoseIsDeterministic(t *testing.T) {
	joints := arm.DefaultJoints()
	links := arm.DefaultLinks()

	first := SolveArm(joints, links)
	for i := 0; i < 5; i++ {
		again := SolveArm(joints, links)
		for k := range first {
			if first[k] != again[k] {
				t.Fatalf("frame %d changed between evaluations", k)
			}
		}
	}

	// Elbow yaw -180 followed by pitch -180 is a half turn about the local X
	// axis: the forearm stays in line and the tool frame is flipped upside down.
	ee := first[EndEffectorFrame]
	if !vecNear(ee.Position, spatial.Vec{X: 0.77}, 1e-9) {
		t.Errorf("reset end effector = %v, want (0.77, 0, 0)", ee.Position)
	}
	if !vecNear(ee.ZAxis, spatial.Vec{Z: -1}, 1e-9) {
		t.Errorf("reset tool z axis = %v, want (0, 0, -1)", ee.ZAxis)
	}
}

func TestOutOfRangeAnglesStillSolve(t *testing.T) {
	var angles [arm.RotationalCount]float64
	for i := range angles {
		angles[i] = 720 + float64(i)*33
	}
	for _, f := range Solve(angles, lengths) {
		p := f.Position
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			t.Fatalf("frame %s is NaN", f.Label)
		}
	}
}
