package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/stress"
)

// PeakStress tracks the highest bending stress seen at any pivot, in MPa.
type PeakStress struct {
	name  string
	peak  float64
	where string
}

func NewPeakStress() *PeakStress {
	return &PeakStress{name: "peak_stress_mpa"}
}

func (p *PeakStress) Name() string { return p.name }

func (p *PeakStress) Observe(s sim.SimulationState, t float64) {
	for _, r := range s.Stress {
		if r.StressMPa > p.peak {
			p.peak = r.StressMPa
			p.where = r.Location
		}
	}
}

func (p *PeakStress) Value() float64 { return p.peak }

// Location is the pivot where the peak occurred.
func (p *PeakStress) Location() string { return p.where }

func (p *PeakStress) Reset() {
	p.peak = 0
	p.where = ""
}

// MinSafety tracks the lowest safety factor seen. It reports +Inf until a
// loaded state is observed.
type MinSafety struct {
	name     string
	min      float64
	warnings int
	failures int
}

func NewMinSafety() *MinSafety {
	return &MinSafety{name: "min_safety", min: math.Inf(1)}
}

func (m *MinSafety) Name() string { return m.name }

func (m *MinSafety) Observe(s sim.SimulationState, t float64) {
	w := s.Worst()
	m.min = math.Min(m.min, float64(w.SafetyFactor))
	switch w.Status {
	case stress.Warning:
		m.warnings++
	case stress.Failure:
		m.failures++
	}
}

func (m *MinSafety) Value() float64 { return m.min }

// Counts returns how many observed ticks were in warning and failure.
func (m *MinSafety) Counts() (warnings, failures int) { return m.warnings, m.failures }

func (m *MinSafety) Reset() {
	m.min = math.Inf(1)
	m.warnings = 0
	m.failures = 0
}
