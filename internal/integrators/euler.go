package integrators

import "github.com/san-kum/armsim/internal/dynamo"

// Euler is the explicit first-order step: positions advance with the old
// velocities.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// SemiImplicitEuler updates velocities first and advances positions with
// the new velocities:
//
//	v += a(x, v) * dt
//	x += v * dt
//
// The state must be laid out as positions followed by velocities.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, u, t)

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		v := x[half+i] + dx[half+i]*dt
		result[half+i] = v
		result[i] = x[i] + v*dt
	}
	return result
}

// ByName returns the integrator registered under name, or nil.
func ByName(name string) dynamo.Integrator {
	switch name {
	case "euler":
		return NewEuler()
	case "semi-implicit", "symplectic", "":
		return NewSemiImplicitEuler()
	}
	return nil
}
