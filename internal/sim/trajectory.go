package sim

import "github.com/san-kum/armsim/internal/spatial"

// TrajectoryCap is the number of end-effector positions kept for the trail.
const TrajectoryCap = 150

// Trajectory is the recent end-effector path, oldest first.
type Trajectory []spatial.Vec

// Append returns a new trajectory with p added, evicting the oldest point
// once the cap is reached. The receiver is not modified.
func (t Trajectory) Append(p spatial.Vec) Trajectory {
	start := 0
	if len(t) >= TrajectoryCap {
		start = len(t) - TrajectoryCap + 1
	}
	out := make(Trajectory, 0, TrajectoryCap)
	out = append(out, t[start:]...)
	return append(out, p)
}

// Length is the path length of the trail in meters.
func (t Trajectory) Length() float64 {
	total := 0.0
	for i := 1; i < len(t); i++ {
		total += spatial.Magnitude(spatial.Sub(t[i], t[i-1]))
	}
	return total
}
