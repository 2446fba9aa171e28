package control

import (
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/dynamo"
)

// Manual holds the user's commanded target for each joint.
type Manual struct {
	Targets []float64
}

func NewManual(joints []arm.Joint) *Manual {
	m := &Manual{Targets: make([]float64, len(joints))}
	for i, j := range joints {
		m.Targets[i] = j.TargetAngle
	}
	return m
}

// Set stores a target for joint index i. Out-of-range indices are ignored.
func (m *Manual) Set(i int, v float64) {
	if i < 0 || i >= len(m.Targets) {
		return
	}
	m.Targets[i] = v
}

// Compute returns a copy of the stored targets.
func (m *Manual) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(m.Targets))
	copy(u, m.Targets)
	return u
}
