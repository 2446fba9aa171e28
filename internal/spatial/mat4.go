// Package spatial provides the homogeneous-transform and vector primitives
// used by the kinematics and stress packages.
//
// Matrices are 4x4, row-major. Composition is a plain matrix product, so
// Mul(A, B) applies B in the frame produced by A (post-multiplication).
package spatial

import "math"

// Mat4 is a row-major 4x4 homogeneous transform.
type Mat4 [16]float64

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func RotateX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

func RotateY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func RotateZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate dispatches on an axis name ("x", "y" or "z"). Unknown axes yield
// the identity.
func Rotate(axis string, a float64) Mat4 {
	switch axis {
	case "x":
		return RotateX(a)
	case "y":
		return RotateY(a)
	case "z":
		return RotateZ(a)
	}
	return Identity()
}

func Translate(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Mul returns the product a*b. Order matters.
func Mul(a, b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a[i*4+k] * b[k*4+j]
			}
			r[i*4+j] = sum
		}
	}
	return r
}

// At returns the element at row i, column j.
func (m Mat4) At(i, j int) float64 { return m[i*4+j] }

// Column returns the first three components of column j.
func (m Mat4) Column(j int) Vec {
	return Vec{X: m[j], Y: m[4+j], Z: m[8+j]}
}

// Apply transforms a point (w = 1).
func (m Mat4) Apply(p Vec) Vec {
	return Vec{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// Frame is an origin plus three axes expressed in world coordinates.
type Frame struct {
	Position Vec
	XAxis    Vec
	YAxis    Vec
	ZAxis    Vec
}

// ExtractFrame reads the translation column as the position and the three
// rotation columns as the axes.
func ExtractFrame(m Mat4) Frame {
	return Frame{
		Position: m.Column(3),
		XAxis:    m.Column(0),
		YAxis:    m.Column(1),
		ZAxis:    m.Column(2),
	}
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }
