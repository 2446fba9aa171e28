package sim

import "math"

// Camera is the orbit camera of the viewport. Angles are in degrees, Scale
// in pixels per meter, pan in pixels.
type Camera struct {
	Azimuth   float64 `json:"azimuth" yaml:"azimuth"`
	Elevation float64 `json:"elevation" yaml:"elevation"`
	Scale     float64 `json:"scale" yaml:"scale"`
	PanX      float64 `json:"panX" yaml:"pan_x"`
	PanY      float64 `json:"panY" yaml:"pan_y"`
}

const (
	MinElevation = -89.0
	MaxElevation = 89.0
	MinScale     = 20.0
	MaxScale     = 5000.0
)

func DefaultCamera() Camera {
	return Camera{Azimuth: 45, Elevation: 25, Scale: 300}
}

// Orbit rotates the camera. Azimuth wraps to [0, 360); elevation is held
// short of the poles.
func (c Camera) Orbit(dAzimuth, dElevation float64) Camera {
	c.Azimuth = math.Mod(c.Azimuth+dAzimuth, 360)
	if c.Azimuth < 0 {
		c.Azimuth += 360
	}
	c.Elevation = math.Max(MinElevation, math.Min(MaxElevation, c.Elevation+dElevation))
	return c
}

// Zoom multiplies the scale by factor. Non-positive factors are ignored.
func (c Camera) Zoom(factor float64) Camera {
	if factor <= 0 || math.IsNaN(factor) {
		return c
	}
	c.Scale = math.Max(MinScale, math.Min(MaxScale, c.Scale*factor))
	return c
}

func (c Camera) Pan(dx, dy float64) Camera {
	c.PanX += dx
	c.PanY += dy
	return c
}
