package arm

import "math"

// Link is a hollow circular tube between two joint groups. Dimensions in
// meters, mass in kilograms.
type Link struct {
	Name          string  `json:"name" yaml:"name"`
	Length        float64 `json:"length" yaml:"length"`
	Mass          float64 `json:"mass" yaml:"mass"`
	OuterDiameter float64 `json:"outerDiameter" yaml:"outer_diameter"`
	WallThickness float64 `json:"wallThickness" yaml:"wall_thickness"`
	CogRatio      float64 `json:"cogRatio" yaml:"cog_ratio"`
}

// InnerDiameter is never negative; a wall thicker than the radius makes the
// section solid.
func (l Link) InnerDiameter() float64 {
	return math.Max(0, l.OuterDiameter-2*l.WallThickness)
}

type Material struct {
	Name             string  `json:"name" yaml:"name"`
	YieldStrengthMPa float64 `json:"yieldStrengthMPa" yaml:"yield_strength_mpa"`
}

// Aluminium6061 is the reference structural alloy.
var Aluminium6061 = Material{Name: "Aluminium 6061-T6", YieldStrengthMPa: 276}

const (
	UpperArm = 0
	Forearm  = 1
	Hand     = 2
)

// DefaultLinks returns the Upper Arm, Forearm and Hand segments in chain order.
func DefaultLinks() [3]Link {
	return [3]Link{
		{Name: "Upper Arm", Length: 0.35, Mass: 2.2, OuterDiameter: 0.050, WallThickness: 0.003, CogRatio: 0.45},
		{Name: "Forearm", Length: 0.30, Mass: 1.6, OuterDiameter: 0.040, WallThickness: 0.0025, CogRatio: 0.45},
		{Name: "Hand", Length: 0.12, Mass: 0.5, OuterDiameter: 0.030, WallThickness: 0.002, CogRatio: 0.5},
	}
}

// TotalLength is the fully stretched reach.
func TotalLength(links [3]Link) float64 {
	return links[0].Length + links[1].Length + links[2].Length
}
