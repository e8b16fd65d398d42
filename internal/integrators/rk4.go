package integrators

import "github.com/san-kum/tanklab/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. It is not part
// of the linearization comparison contract (that is Euler with dt=1) but
// serves as the higher-accuracy reference in `compare-integrators`.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)

	k1 := dyn.Derive(x, u, t)
	k2 := dyn.Derive(shift(x, k1, dt*0.5), u, t+dt*0.5)
	k3 := dyn.Derive(shift(x, k2, dt*0.5), u, t+dt*0.5)
	k4 := dyn.Derive(shift(x, k3, dt), u, t+dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}

func shift(x, dx dynamo.State, h float64) dynamo.State {
	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + h*dx[i]
	}
	return out
}
