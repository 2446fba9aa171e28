package spatial

import "gonum.org/v1/gonum/spatial/r3"

// Vec is a point or direction in world space, in meters.
type Vec = r3.Vec

func Cross(a, b Vec) Vec      { return r3.Cross(a, b) }
func Magnitude(v Vec) float64 { return r3.Norm(v) }
func Add(a, b Vec) Vec        { return r3.Add(a, b) }
func Sub(a, b Vec) Vec        { return r3.Sub(a, b) }
func Scale(f float64, v Vec) Vec {
	return r3.Scale(f, v)
}

// Lerp interpolates from a (t = 0) to b (t = 1). t is not clamped.
func Lerp(a, b Vec, t float64) Vec {
	return Vec{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}
