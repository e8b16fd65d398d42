// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepping scheme
//   - [FlowSchedule]: open-loop control input over discrete steps
//
// # Example
//
//	dyn := tank.New()
//	integ := integrators.NewEuler()
//	s := sim.New(dyn, integ, flows.Scenario())
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe, but independent runs share no
// state and may execute concurrently.
package dynamo
