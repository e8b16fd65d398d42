// Package linearize derives the first-order Taylor (Jacobian) model of
// the mixing tank around an operating point and exposes it as a system
// in delta coordinates.
package linearize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/tank"
)

// Linearization holds the local linear model x' = A*dx + B*du around
// (Height, Temp). All fields are fixed once derived; the derivation is a
// pure function of the operating point and the tank constants.
type Linearization struct {
	Height float64
	Temp   float64

	// Equilibrium inlet rates solved from the steady-state balances.
	ColdEq float64
	HotEq  float64

	A *mat.Dense // state Jacobian d f / d (h, T)
	B *mat.Dense // input Jacobian d f / d (qC, qH)
}

// About linearizes the tank dynamics at (he, te). The Jacobians are
// evaluated at the equilibrium controls, not at an arbitrary input.
func About(tk *tank.Tank, he, te float64) *Linearization {
	qCe, qHe := tk.EquilibriumFlows(he, te)

	at := tk.Area
	a := mat.NewDense(2, 2, []float64{
		-tk.Gravity * tk.Discharge * tk.Orifice / (at * math.Sqrt(2*tk.Gravity*he)), 0,
		-(qCe*(tk.ColdTemp-te) + qHe*(tk.HotTemp-te)) / (he * he * at), -(qCe + qHe) / (he * at),
	})
	b := mat.NewDense(2, 2, []float64{
		1 / at, 1 / at,
		(tk.ColdTemp - te) / (he * at), (tk.HotTemp - te) / (he * at),
	})

	return &Linearization{
		Height: he,
		Temp:   te,
		ColdEq: qCe,
		HotEq:  qHe,
		A:      a,
		B:      b,
	}
}

// Eigenvalues returns the eigenvalues of the state Jacobian.
func (l *Linearization) Eigenvalues() []complex128 {
	var eig mat.Eigen
	if !eig.Factorize(l.A, mat.EigenNone) {
		return nil
	}
	return eig.Values(nil)
}

// Stable reports whether the operating point is locally asymptotically
// stable (all eigenvalues in the open left half plane).
func (l *Linearization) Stable() bool {
	for _, v := range l.Eigenvalues() {
		if real(v) >= 0 {
			return false
		}
	}
	return true
}

// Model is the linearized system in delta coordinates: its state is the
// deviation (h-he, T-te) and its Derive subtracts the equilibrium
// controls from the absolute inputs it receives.
type Model struct {
	lin *Linearization
}

func NewModel(lin *Linearization) *Model {
	return &Model{lin: lin}
}

func (m *Model) StateDim() int {
	return 2
}

func (m *Model) ControlDim() int {
	return 2
}

func (m *Model) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := mat.NewVecDense(2, []float64{x[0], x[1]})
	du := mat.NewVecDense(2, []float64{u[0] - m.lin.ColdEq, u[1] - m.lin.HotEq})

	var ax, bu mat.VecDense
	ax.MulVec(m.lin.A, dx)
	bu.MulVec(m.lin.B, du)
	ax.AddVec(&ax, &bu)

	return dynamo.State{ax.AtVec(0), ax.AtVec(1)}
}

// Shift converts an absolute tank state to delta coordinates.
func (m *Model) Shift(x dynamo.State) dynamo.State {
	return dynamo.State{x[0] - m.lin.Height, x[1] - m.lin.Temp}
}

// Unshift converts a delta state back to absolute coordinates.
func (m *Model) Unshift(dx dynamo.State) dynamo.State {
	return dynamo.State{m.lin.Height + dx[0], m.lin.Temp + dx[1]}
}
