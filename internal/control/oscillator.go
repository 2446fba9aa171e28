package control

import (
	"math"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
)

const (
	// AnimateRate is the angular rate of the animate sinusoid, rad/s.
	AnimateRate = 1.5
	// AnimatePhase is the phase offset between consecutive joints, rad.
	AnimatePhase = 0.5
	// AnimateAmplitude is the swing as a fraction of each joint's range.
	AnimateAmplitude = 0.15
)

// Oscillator drives the rotational joints through
//
//	center + sin(t*AnimateRate + i*AnimatePhase) * AnimateAmplitude * range
//
// and passes the gripper target through from Base.
type Oscillator struct {
	Base    dynamo.Controller
	centers []float64
	ranges  []float64
	groups  []arm.Group
}

func NewOscillator(joints []arm.Joint, base dynamo.Controller) *Oscillator {
	o := &Oscillator{
		Base:    base,
		centers: make([]float64, len(joints)),
		ranges:  make([]float64, len(joints)),
		groups:  make([]arm.Group, len(joints)),
	}
	for i, j := range joints {
		o.centers[i] = j.Center()
		o.ranges[i] = j.Range()
		o.groups[i] = j.Group
	}
	return o
}

// Target is the animate target of joint index i at animation time t.
func (o *Oscillator) Target(i int, t float64) float64 {
	return AnimateTarget(o.centers[i], o.ranges[i], i, t)
}

func (o *Oscillator) Compute(x dynamo.State, t float64) dynamo.Control {
	var u dynamo.Control
	if o.Base != nil {
		u = o.Base.Compute(x, t)
	}
	if len(u) < len(o.centers) {
		grown := make(dynamo.Control, len(o.centers))
		copy(grown, u)
		u = grown
	}
	for i := range o.centers {
		if o.groups[i] == arm.Gripper {
			continue
		}
		u[i] = o.Target(i, t)
	}
	return u
}

// AnimateTarget evaluates the animate sinusoid for one joint.
func AnimateTarget(center, span float64, index int, t float64) float64 {
	return center + math.Sin(t*AnimateRate+float64(index)*AnimatePhase)*AnimateAmplitude*span
}
