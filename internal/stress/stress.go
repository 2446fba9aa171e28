// Package stress estimates quasi-static gravity moments at the shoulder,
// elbow and wrist pivots and converts them to bending stress in the
// hollow tube of the corresponding segment.
package stress

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/spatial"
)

const (
	Gravity = 9.81

	// Safety factors below WarnSafety are flagged; below FailSafety the
	// member yields.
	WarnSafety = 1.5
	FailSafety = 1.0
)

// SafetyFactor is yield strength over stress. An unloaded member has an
// unbounded factor, represented by +Inf and encoded as "inf" in JSON.
type SafetyFactor float64

// Unbounded is the safety factor of a member carrying no stress.
var Unbounded = SafetyFactor(math.Inf(1))

func (s SafetyFactor) Infinite() bool { return math.IsInf(float64(s), 1) }

func (s SafetyFactor) String() string {
	if s.Infinite() {
		return "∞"
	}
	return fmt.Sprintf("%.2f", float64(s))
}

func (s SafetyFactor) MarshalJSON() ([]byte, error) {
	if s.Infinite() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(s))
}

func (s *SafetyFactor) UnmarshalJSON(b []byte) error {
	if string(b) == `"inf"` {
		*s = Unbounded
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("safety factor: %w", err)
	}
	*s = SafetyFactor(f)
	return nil
}

type Status string

const (
	Safe    Status = "safe"
	Warning Status = "warning"
	Failure Status = "failure"
)

// Classify maps a safety factor to a status. Unbounded factors are safe.
func Classify(sf SafetyFactor) Status {
	switch {
	case sf.Infinite():
		return Safe
	case float64(sf) < FailSafety:
		return Failure
	case float64(sf) < WarnSafety:
		return Warning
	}
	return Safe
}

// Color hints per status, as hex RGB.
var statusColors = map[Status]string{
	Safe:    "#00ff88",
	Warning: "#ffaa00",
	Failure: "#ff4444",
}

// NeutralColor is used when stress coloring is turned off.
const NeutralColor = "#8888aa"

func ColorFor(s Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return NeutralColor
}

type Result struct {
	Location     string       `json:"location"`
	TorqueStatic float64      `json:"torqueStatic"`
	StressMPa    float64      `json:"stressMPa"`
	SafetyFactor SafetyFactor `json:"safetyFactor"`
	Status       Status       `json:"status"`
	ColorHint    string       `json:"colorHint"`
}

// Pivot names, in estimate order.
var Locations = [3]string{"Shoulder", "Elbow", "Wrist"}

var pivotFrames = [3]int{
	kinematics.ShoulderPitchFrame,
	kinematics.ElbowPitchFrame,
	kinematics.WristPitchFrame,
}

// Load is a point mass at a world position.
type Load struct {
	Name     string
	Mass     float64
	Position spatial.Vec
}

func (l Load) Force() spatial.Vec { return spatial.Vec{Z: -l.Mass * Gravity} }

// CenterOfGravity places a link's mass between its proximal and distal
// frame origins.
func CenterOfGravity(frames []kinematics.Frame, links [3]arm.Link, seg int) spatial.Vec {
	s := kinematics.Segments[seg]
	return spatial.Lerp(frames[s[0]].Position, frames[s[1]].Position, links[seg].CogRatio)
}

// Loads lists the point loads acting on the arm: each link at its center of
// gravity, then the payload at the end-effector.
func Loads(frames []kinematics.Frame, links [3]arm.Link, payload float64) []Load {
	loads := make([]Load, 0, 4)
	for seg := range links {
		loads = append(loads, Load{
			Name:     links[seg].Name,
			Mass:     links[seg].Mass,
			Position: CenterOfGravity(frames, links, seg),
		})
	}
	return append(loads, Load{
		Name:     "Payload",
		Mass:     payload,
		Position: kinematics.EndEffector(frames),
	})
}

// Moment sums r x F over loads, r measured from the pivot. Components may
// cancel; the caller reports the magnitude of the sum.
func Moment(pivot spatial.Vec, loads []Load) spatial.Vec {
	var m spatial.Vec
	for _, l := range loads {
		r := spatial.Sub(l.Position, pivot)
		m = spatial.Add(m, spatial.Cross(r, l.Force()))
	}
	return m
}

// SectionInertia is the second moment of area of a hollow circular tube.
func SectionInertia(l arm.Link) float64 {
	od, id := l.OuterDiameter, l.InnerDiameter()
	return math.Pi * (math.Pow(od, 4) - math.Pow(id, 4)) / 64
}

// BendingStressMPa is the peak fiber stress for a torque (N*m) applied to the
// link's tube.
func BendingStressMPa(torque float64, l arm.Link) float64 {
	i := SectionInertia(l)
	if i <= 0 {
		return 0
	}
	return torque * (l.OuterDiameter / 2) / i / 1e6
}

// Safety returns yield/stress, or Unbounded for zero stress.
func Safety(stressMPa float64, m arm.Material) SafetyFactor {
	if stressMPa == 0 {
		return Unbounded
	}
	return SafetyFactor(m.YieldStrengthMPa / stressMPa)
}

// Estimate returns one result per pivot in Locations order. Loads on the
// upper arm and beyond count at the shoulder, forearm and beyond at the
// elbow, and hand plus payload at the wrist.
func Estimate(frames []kinematics.Frame, links [3]arm.Link, mat arm.Material, payload float64) [3]Result {
	var out [3]Result
	if len(frames) < kinematics.FrameCount {
		for i := range out {
			out[i] = newResult(Locations[i], 0, 0, mat)
		}
		return out
	}

	loads := Loads(frames, links, payload)
	for i, fi := range pivotFrames {
		torque := spatial.Magnitude(Moment(frames[fi].Position, loads[i:]))
		out[i] = newResult(Locations[i], torque, BendingStressMPa(torque, links[i]), mat)
	}
	return out
}

func newResult(loc string, torque, stressMPa float64, mat arm.Material) Result {
	sf := Safety(stressMPa, mat)
	status := Classify(sf)
	return Result{
		Location:     loc,
		TorqueStatic: torque,
		StressMPa:    stressMPa,
		SafetyFactor: sf,
		Status:       status,
		ColorHint:    ColorFor(status),
	}
}

// Worst returns the result with the lowest safety factor.
func Worst(results [3]Result) Result {
	w := results[0]
	for _, r := range results[1:] {
		if r.SafetyFactor < w.SafetyFactor {
			w = r
		}
	}
	return w
}
