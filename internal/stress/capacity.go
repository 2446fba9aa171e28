package stress

import (
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
)

const maxSearchPayload = 1000.0

// MaxPayload finds, by bisection, the largest payload (kg) for which every
// pivot keeps a safety factor of at least target. It returns 0 when the arm
// fails the target unloaded and maxSearchPayload when it never does.
func MaxPayload(frames []kinematics.Frame, links [3]arm.Link, mat arm.Material, target float64) float64 {
	ok := func(p float64) bool {
		return float64(Worst(Estimate(frames, links, mat, p)).SafetyFactor) >= target
	}
	if !ok(0) {
		return 0
	}

	lo, hi := 0.0, 1.0
	for ok(hi) {
		lo = hi
		hi *= 2
		if hi > maxSearchPayload {
			return maxSearchPayload
		}
	}
	for i := 0; i < 60 && hi-lo > 1e-6; i++ {
		mid := (lo + hi) / 2
		if ok(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
