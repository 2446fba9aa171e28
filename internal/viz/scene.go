package viz

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/spatial"
	"github.com/san-kum/armsim/internal/stress"
)

// Layer orders primitives back to front.
type Layer int

const (
	LayerSilhouette Layer = iota
	LayerTrail
	LayerLinks
	LayerJoints
	LayerGripper
	LayerLabels
)

type Kind int

const (
	KindLine Kind = iota
	KindPolyline
	KindDot
	KindText
)

// Primitive is one drawable element in screen space.
type Primitive struct {
	Layer  Layer
	Kind   Kind
	Points []Point
	Color  string
	Width  float64
	Radius float64
	Text   string
}

type Scene struct {
	Width, Height int
	Background    string
	Items         []Primitive
}

// Options control what BuildScene draws.
type Options struct {
	Width, Height int
	ShowAxes      bool
	StressColors  bool
	Silhouette    bool
	Labels        bool
}

func DefaultOptions() Options {
	return Options{Width: 960, Height: 640, ShowAxes: true, StressColors: true, Silhouette: true, Labels: true}
}

const (
	Background    = "#0a0a14"
	TrailColor    = "#00ccff"
	JointColor    = "#e0e0ff"
	GripperColor  = "#c0c0d0"
	FigureColor   = "#333348"
	LabelColor    = "#888899"
	AxisLength    = 0.05
	FingerLength  = 0.06
	MaxHalfSpread = 0.04
	FigureHeight  = 1.75
	LinkWidth     = 6.0
)

// AxisColors are the tri-axis glyph colors for X, Y and Z.
var AxisColors = [3]string{"#ff4444", "#44ff44", "#4488ff"}

// FloorZ is where the reference figure stands; the arm base is mounted on a
// pedestal above it.
const FloorZ = -0.9

// BuildScene turns a simulation state into screen primitives. The result
// depends only on its inputs.
func BuildScene(s sim.SimulationState, opts Options) Scene {
	proj := NewProjector(s.Camera, opts.Width, opts.Height)
	sc := Scene{Width: opts.Width, Height: opts.Height, Background: Background}

	if opts.Silhouette {
		sc.Items = append(sc.Items, silhouette(proj)...)
	}
	if len(s.Trajectory) >= 2 {
		pts := make([]Point, len(s.Trajectory))
		for i, v := range s.Trajectory {
			pts[i], _ = proj.Project(v)
		}
		sc.Items = append(sc.Items, Primitive{Layer: LayerTrail, Kind: KindPolyline, Points: pts, Color: TrailColor, Width: 1.5})
	}
	if len(s.Frames) < kinematics.FrameCount {
		return sc
	}

	sc.Items = append(sc.Items, links(proj, s, opts)...)
	sc.Items = append(sc.Items, joints(proj, s.Frames, opts.ShowAxes)...)
	sc.Items = append(sc.Items, gripper(proj, s.Frames[kinematics.EndEffectorFrame], arm.Opening(s.Joints))...)
	if opts.Labels {
		sc.Items = append(sc.Items, labels(s)...)
	}
	return sc
}

type depthItem struct {
	p     Primitive
	depth float64
}

// links draws the three segments far to near.
func links(proj Projector, s sim.SimulationState, opts Options) []Primitive {
	items := make([]depthItem, 0, len(kinematics.Segments))
	for i, seg := range kinematics.Segments {
		a, da := proj.Project(s.Frames[seg[0]].Position)
		b, db := proj.Project(s.Frames[seg[1]].Position)
		color := stress.NeutralColor
		if opts.StressColors {
			color = s.Stress[i].ColorHint
		}
		items = append(items, depthItem{
			p:     Primitive{Layer: LayerLinks, Kind: KindLine, Points: []Point{a, b}, Color: color, Width: LinkWidth},
			depth: (da + db) / 2,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	out := make([]Primitive, len(items))
	for i, it := range items {
		out[i] = it.p
	}
	return out
}

func joints(proj Projector, frames []kinematics.Frame, axes bool) []Primitive {
	out := make([]Primitive, 0, len(frames)*4)
	for _, f := range frames {
		c, _ := proj.Project(f.Position)
		out = append(out, Primitive{Layer: LayerJoints, Kind: KindDot, Points: []Point{c}, Color: JointColor, Radius: 3})
		if !axes {
			continue
		}
		for k, axis := range [3]spatial.Vec{f.XAxis, f.YAxis, f.ZAxis} {
			tip, _ := proj.Project(spatial.Add(f.Position, spatial.Scale(AxisLength, axis)))
			out = append(out, Primitive{Layer: LayerJoints, Kind: KindLine, Points: []Point{c, tip}, Color: AxisColors[k], Width: 1})
		}
	}
	return out
}

// GripperFingers returns the two finger segments in world space. The
// spread is along the tool Y axis and the fingers point along tool X.
func GripperFingers(tool kinematics.Frame, opening float64) [2][2]spatial.Vec {
	half := math.Max(0, math.Min(100, opening)) / 100 * MaxHalfSpread
	var out [2][2]spatial.Vec
	for i, sign := range [2]float64{1, -1} {
		base := spatial.Add(tool.Position, spatial.Scale(sign*half, tool.YAxis))
		out[i] = [2]spatial.Vec{base, spatial.Add(base, spatial.Scale(FingerLength, tool.XAxis))}
	}
	return out
}

func gripper(proj Projector, tool kinematics.Frame, opening float64) []Primitive {
	fingers := GripperFingers(tool, opening)
	out := make([]Primitive, 0, 3)
	var bases [2]Point
	for i, f := range fingers {
		a, _ := proj.Project(f[0])
		b, _ := proj.Project(f[1])
		bases[i] = a
		out = append(out, Primitive{Layer: LayerGripper, Kind: KindLine, Points: []Point{a, b}, Color: GripperColor, Width: 3})
	}
	return append(out, Primitive{Layer: LayerGripper, Kind: KindLine, Points: bases[:], Color: GripperColor, Width: 3})
}

// silhouette is a 1.75 m stick figure standing beside the base.
func silhouette(proj Projector) []Primitive {
	const y = -0.6
	z := func(h float64) float64 { return FloorZ + h }
	strokes := [][]spatial.Vec{
		{{Y: y - 0.12, Z: z(0)}, {Y: y, Z: z(0.9)}, {Y: y + 0.12, Z: z(0)}},
		{{Y: y, Z: z(0.9)}, {Y: y, Z: z(1.48)}},
		{{Y: y - 0.22, Z: z(0.85)}, {Y: y - 0.18, Z: z(1.42)}, {Y: y + 0.18, Z: z(1.42)}, {Y: y + 0.22, Z: z(0.85)}},
	}

	const r, segs = 0.11, 16
	head := make([]spatial.Vec, 0, segs+1)
	for i := 0; i <= segs; i++ {
		a := 2 * math.Pi * float64(i) / segs
		head = append(head, spatial.Vec{Y: y + r*math.Cos(a), Z: z(FigureHeight-r) + r*math.Sin(a)})
	}
	strokes = append(strokes, head)

	out := make([]Primitive, 0, len(strokes))
	for _, st := range strokes {
		pts := make([]Point, len(st))
		for i, v := range st {
			pts[i], _ = proj.Project(v)
		}
		out = append(out, Primitive{Layer: LayerSilhouette, Kind: KindPolyline, Points: pts, Color: FigureColor, Width: 2})
	}
	return out
}

func labels(s sim.SimulationState) []Primitive {
	ee := kinematics.EndEffector(s.Frames)
	w := s.Worst()
	lines := []string{
		fmt.Sprintf("EE  %.1f %.1f %.1f mm", ee.X*1000, ee.Y*1000, ee.Z*1000),
		fmt.Sprintf("reach %.3fm  payload %.2fkg", kinematics.Reach(s.Frames), s.PayloadKg),
		fmt.Sprintf("min SF %s @ %s", w.SafetyFactor, w.Location),
	}
	out := make([]Primitive, len(lines))
	for i, l := range lines {
		out[i] = Primitive{Layer: LayerLabels, Kind: KindText, Points: []Point{{X: 10, Y: 18 + float64(i)*16}}, Color: LabelColor, Text: l}
	}
	return out
}

// Bounds returns the smallest box holding every primitive point.
func (sc Scene) Bounds() (min, max Point) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, it := range sc.Items {
		for _, p := range it.Points {
			min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
			max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
		}
	}
	return min, max
}
