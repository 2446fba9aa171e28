package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/spatial"
)

// TrackingError is the RMS distance between rotational joint angles and
// their targets, in degrees, averaged over the run.
type TrackingError struct {
	name    string
	sum     float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{name: "tracking_error_deg"}
}

func (e *TrackingError) Name() string { return e.name }

func (e *TrackingError) Observe(s sim.SimulationState, t float64) {
	n := 0
	sq := 0.0
	for _, j := range s.Joints {
		if j.Group == arm.Gripper {
			continue
		}
		d := j.TargetAngle - j.Angle
		sq += d * d
		n++
	}
	if n == 0 {
		return
	}
	e.sum += math.Sqrt(sq / float64(n))
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *TrackingError) Reset() {
	e.sum = 0
	e.samples = 0
}

// PathLength accumulates end-effector travel in meters.
type PathLength struct {
	name  string
	total float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length_m"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(s sim.SimulationState, t float64) {
	n := len(s.Trajectory)
	if n >= 2 {
		p.total += spatial.Magnitude(spatial.Sub(s.Trajectory[n-1], s.Trajectory[n-2]))
	}
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() { p.total = 0 }

// Standard returns the metrics reported by a headless run.
func Standard() []sim.Metric {
	return []sim.Metric{NewPeakStress(), NewMinSafety(), NewTrackingError(), NewPathLength()}
}
