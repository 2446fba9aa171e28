package spatial

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func vecNear(a, b Vec) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func TestIdentityIsNeutral(t *testing.T) {
	m := Mul(RotateZ(0.3), Translate(1, 2, 3))
	if got := Mul(Identity(), m); got != m {
		t.Errorf("I*M = %v, want %v", got, m)
	}
	if got := Mul(m, Identity()); got != m {
		t.Errorf("M*I = %v, want %v", got, m)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec
		want Vec
	}{
		{"z quarter turn", RotateZ(math.Pi / 2), Vec{X: 1}, Vec{Y: 1}},
		{"y quarter turn", RotateY(math.Pi / 2), Vec{X: 1}, Vec{Z: -1}},
		{"x quarter turn", RotateX(math.Pi / 2), Vec{Y: 1}, Vec{Z: 1}},
		{"dispatch x", Rotate("x", math.Pi/2), Vec{Y: 1}, Vec{Z: 1}},
		{"unknown axis", Rotate("w", 1), Vec{X: 1}, Vec{X: 1}},
		{"translate", Translate(1, 2, 3), Vec{}, Vec{X: 1, Y: 2, Z: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.in); !vecNear(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMulIsNotCommutative(t *testing.T) {
	a := Mul(RotateZ(math.Pi/2), Translate(1, 0, 0))
	b := Mul(Translate(1, 0, 0), RotateZ(math.Pi/2))

	pa := ExtractFrame(a).Position
	pb := ExtractFrame(b).Position
	if !vecNear(pa, Vec{Y: 1}) {
		t.Errorf("rotate-then-translate origin = %v, want (0,1,0)", pa)
	}
	if !vecNear(pb, Vec{X: 1}) {
		t.Errorf("translate-then-rotate origin = %v, want (1,0,0)", pb)
	}
}

func TestExtractFrame(t *testing.T) {
	f := ExtractFrame(Mul(Translate(0.5, 0, 0), RotateZ(math.Pi/2)))

	if !vecNear(f.Position, Vec{X: 0.5}) {
		t.Errorf("position = %v", f.Position)
	}
	if !vecNear(f.XAxis, Vec{Y: 1}) {
		t.Errorf("x axis = %v", f.XAxis)
	}
	if !vecNear(f.YAxis, Vec{X: -1}) {
		t.Errorf("y axis = %v", f.YAxis)
	}
	if !vecNear(f.ZAxis, Vec{Z: 1}) {
		t.Errorf("z axis = %v", f.ZAxis)
	}
}

func TestVectorHelpers(t *testing.T) {
	if got := Cross(Vec{X: 1}, Vec{Y: 1}); !vecNear(got, Vec{Z: 1}) {
		t.Errorf("x cross y = %v", got)
	}
	if got := Magnitude(Vec{X: 3, Y: 4}); !near(got, 5) {
		t.Errorf("|(3,4,0)| = %v", got)
	}
	if got := Lerp(Vec{}, Vec{X: 2, Y: -2, Z: 4}, 0.25); !vecNear(got, Vec{X: 0.5, Y: -0.5, Z: 1}) {
		t.Errorf("lerp = %v", got)
	}
	if got := Rad2Deg(Deg2Rad(37)); !near(got, 37) {
		t.Errorf("deg round trip = %v", got)
	}
}
