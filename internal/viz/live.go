// Package viz provides the live terminal view: both simulators stepped
// side by side with rolling overlay graphs.
package viz

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tanklab/internal/dynamo"
	"github.com/san-kum/tanklab/internal/flows"
	"github.com/san-kum/tanklab/internal/integrators"
	"github.com/san-kum/tanklab/internal/linearize"
	"github.com/san-kum/tanklab/internal/tank"
)

const graphWidth = 90

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the nonlinear tank and its linearization in lockstep and
// renders their height/temperature histories as overlay graphs.
type Model struct {
	tk       *tank.Tank
	linModel *linearize.Model
	integ    dynamo.Integrator
	schedule flows.Pair
	cfg      dynamo.Config

	step    int
	actual  dynamo.State
	delta   dynamo.State
	initial dynamo.State

	actualH, linearH []float64
	actualT, linearT []float64

	running bool
	fps     int
}

func NewModel(tk *tank.Tank, lin *linearize.Linearization, schedule flows.Pair, h0, t0 float64, cfg dynamo.Config, fps int) Model {
	linModel := linearize.NewModel(lin)
	initial := dynamo.State{h0, t0}
	return Model{
		tk:       tk,
		linModel: linModel,
		integ:    integrators.NewEuler(),
		schedule: schedule,
		cfg:      cfg,
		actual:   initial.Clone(),
		delta:    linModel.Shift(initial),
		initial:  initial,
		actualH:  make([]float64, 0, cfg.Steps),
		linearH:  make([]float64, 0, cfg.Steps),
		actualT:  make([]float64, 0, cfg.Steps),
		linearT:  make([]float64, 0, cfg.Steps),
		running:  true,
		fps:      fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.step < m.cfg.Steps {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	t := float64(m.step) * m.cfg.Dt
	u := m.schedule.Compute(m.actual, m.step)

	m.actual = m.integ.Step(m.tk, m.actual, u, t, m.cfg.Dt)
	m.delta = m.integ.Step(m.linModel, m.delta, u, t, m.cfg.Dt)
	m.step++

	approx := m.linModel.Unshift(m.delta)
	m.actualH = append(m.actualH, m.actual[0])
	m.actualT = append(m.actualT, m.actual[1])
	m.linearH = append(m.linearH, approx[0])
	m.linearT = append(m.linearT, approx[1])
}

func (m *Model) reset() {
	m.step = 0
	m.actual = m.initial.Clone()
	m.delta = m.linModel.Shift(m.initial)
	m.actualH = m.actualH[:0]
	m.linearH = m.linearH[:0]
	m.actualT = m.actualT[:0]
	m.linearT = m.linearT[:0]
	m.running = true
}

func (m Model) View() string {
	var b []byte
	b = append(b, headerStyle.Render("tanklab live: actual vs linearization")...)
	b = append(b, '\n')

	if len(m.actualH) >= 2 {
		heightGraph := asciigraph.PlotMany(
			[][]float64{m.actualH, m.linearH},
			asciigraph.Height(8),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("water height (m)"),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
		)
		b = append(b, graphStyle.Render(heightGraph)...)
		b = append(b, '\n')

		tempGraph := asciigraph.PlotMany(
			[][]float64{m.actualT, m.linearT},
			asciigraph.Height(8),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("water temp (deg)"),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Orange),
		)
		b = append(b, graphStyle.Render(tempGraph)...)
		b = append(b, '\n')
	}

	b = append(b, m.statsView()...)
	b = append(b, helpStyle.Render("space pause · r reset · q quit")...)
	b = append(b, '\n')
	return string(b)
}

func (m Model) statsView() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	out := row("step", fmt.Sprintf("%d / %d", m.step, m.cfg.Steps))
	out += row("actual", fmt.Sprintf("h=%.4f  T=%.3f", m.actual[0], m.actual[1]))
	if n := len(m.linearH); n > 0 {
		out += row("linear", fmt.Sprintf("h=%.4f  T=%.3f", m.linearH[n-1], m.linearT[n-1]))
		out += row("gap", fmt.Sprintf("h=%.5f  T=%.4f",
			math.Abs(m.actual[0]-m.linearH[n-1]), math.Abs(m.actual[1]-m.linearT[n-1])))
	}
	return out
}

// Run starts the live view and blocks until the user quits.
func Run(tk *tank.Tank, lin *linearize.Linearization, schedule flows.Pair, h0, t0 float64, cfg dynamo.Config, fps int) error {
	p := tea.NewProgram(NewModel(tk, lin, schedule, h0, t0, cfg, fps))
	_, err := p.Run()
	return err
}
