package viz

import (
	"math"

	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/spatial"
)

// Point is a screen position in pixels with y pointing down.
type Point struct {
	X, Y float64
}

// Projector maps world points through an orbit camera onto a screen of
// Width x Height pixels. World Z is up.
type Projector struct {
	Camera        sim.Camera
	Width, Height int

	cosAz, sinAz float64
	cosEl, sinEl float64
}

func NewProjector(cam sim.Camera, w, h int) Projector {
	az := spatial.Deg2Rad(cam.Azimuth)
	el := spatial.Deg2Rad(cam.Elevation)
	return Projector{
		Camera: cam,
		Width:  w,
		Height: h,
		cosAz:  math.Cos(az),
		sinAz:  math.Sin(az),
		cosEl:  math.Cos(el),
		sinEl:  math.Sin(el),
	}
}

// Project rotates p by the azimuth about Z, then by the elevation about the
// screen-horizontal axis, and scales and offsets the result. Depth grows
// away from the viewer.
func (p Projector) Project(v spatial.Vec) (Point, float64) {
	x1 := v.X*p.cosAz - v.Y*p.sinAz
	y1 := v.X*p.sinAz + v.Y*p.cosAz

	depth := y1*p.cosEl - v.Z*p.sinEl
	z2 := y1*p.sinEl + v.Z*p.cosEl

	return Point{
		X: float64(p.Width)/2 + p.Camera.PanX + x1*p.Camera.Scale,
		Y: float64(p.Height)/2 + p.Camera.PanY - z2*p.Camera.Scale,
	}, depth
}
