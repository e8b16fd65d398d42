package tank

import (
	"fmt"
	"math"

	"github.com/san-kum/tanklab/internal/dynamo"
)

// Tank models a water mixing tank fed by independent cold and hot inlets
// and drained through an orifice at the bottom:
//
//	dh/dt = (qC + qH - Cd*Ao*sqrt(2*g*h)) / At
//	dT/dt = (qC*(Tc - T) + qH*(Th - T)) / (h * At)
//
// State is (height, temperature); control is (cold flow, hot flow).
type Tank struct {
	ColdTemp  float64 // inlet temperature of the cold source
	HotTemp   float64 // inlet temperature of the hot source
	Orifice   float64 // outlet orifice area
	Area      float64 // tank cross-section area
	Discharge float64 // orifice discharge coefficient
	Gravity   float64
}

func New() *Tank {
	return &Tank{
		ColdTemp:  10.0,
		HotTemp:   90.0,
		Orifice:   0.05,
		Area:      3.0,
		Discharge: 0.7,
		Gravity:   9.8,
	}
}

func (tk *Tank) StateDim() int {
	return 2
}

func (tk *Tank) ControlDim() int {
	return 2
}

func (tk *Tank) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	h := x[0]
	temp := x[1]
	qC := u[0]
	qH := u[1]

	// Both components use the pre-update height; dh does not depend on
	// temperature, so a simultaneous Euler update matches the reference
	// sequential update (temperature first) exactly.
	dh := (qC + qH - tk.Outflow(h)) / tk.Area
	dT := (qC*(tk.ColdTemp-temp) + qH*(tk.HotTemp-temp)) / (h * tk.Area)

	return dynamo.State{dh, dT}
}

// Outflow returns the orifice discharge rate at height h. For h < 0 the
// square root argument is negative and the result is NaN; the model does
// not guard this (see dynamo.Config.ValidateState).
func (tk *Tank) Outflow(h float64) float64 {
	return tk.Discharge * tk.Orifice * math.Sqrt(2*tk.Gravity*h)
}

// EquilibriumFlows solves the steady-state mass and energy balances at
// (he, te): inflow matches outflow and the mixed inlet temperature
// matches te.
func (tk *Tank) EquilibriumFlows(he, te float64) (qC, qH float64) {
	out := tk.Outflow(he)
	span := tk.HotTemp - tk.ColdTemp
	qC = out * (tk.HotTemp - te) / span
	qH = out * (te - tk.ColdTemp) / span
	return qC, qH
}

func (tk *Tank) GetParams() map[string]float64 {
	return map[string]float64{
		"cold_temp": tk.ColdTemp,
		"hot_temp":  tk.HotTemp,
		"orifice":   tk.Orifice,
		"area":      tk.Area,
		"discharge": tk.Discharge,
		"gravity":   tk.Gravity,
	}
}

func (tk *Tank) SetParam(name string, value float64) error {
	switch name {
	case "cold_temp":
		tk.ColdTemp = value
	case "hot_temp":
		tk.HotTemp = value
	case "orifice":
		tk.Orifice = value
	case "area":
		tk.Area = value
	case "discharge":
		tk.Discharge = value
	case "gravity":
		tk.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
