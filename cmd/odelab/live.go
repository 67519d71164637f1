package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odelab/internal/diffeq"
	"github.com/san-kum/odelab/internal/initcond"
	"github.com/san-kum/odelab/internal/integrators"
	"github.com/san-kum/odelab/internal/nlsolve"
	"github.com/san-kum/odelab/internal/sim"
)

const liveWindow = 240

type tickMsg time.Time

// liveModel replays a completed solve at interactive speed: the whole
// trajectory is computed up front so delay history and discontinuity
// scheduling behave exactly as in a batch run.
type liveModel struct {
	name     string
	prob     *diffeq.Problem
	result   *sim.Result
	playHead int
	running  bool
	col      int
}

func newLiveModel(name string, prob *diffeq.Problem, step integrators.Stepper, dt float64, col int) (liveModel, error) {
	cfg := sim.DefaultConfig()
	cfg.Dt = dt
	cfg.InitAlgorithm = nlsolve.NewNewton()
	if prob.Init != nil {
		cfg.Strategy = initcond.Override
	}

	result, err := sim.New(prob, step).Run(context.Background(), cfg)
	if err != nil {
		return liveModel{}, err
	}
	if col < 0 || col >= prob.Dim() {
		col = 0
	}
	return liveModel{name: name, prob: prob, result: result, running: true, col: col}, nil
}

func (m liveModel) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.playHead = 0
		case "tab":
			m.col = (m.col + 1) % m.prob.Dim()
		}
	case tickMsg:
		if m.running && m.playHead < len(m.result.Times)-1 {
			m.playHead++
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m liveModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  (%s)", m.name, m.prob.Kind())))
	b.WriteString("\n")

	lo := 0
	if m.playHead > liveWindow {
		lo = m.playHead - liveWindow
	}
	series := make([]float64, 0, m.playHead-lo+1)
	for i := lo; i <= m.playHead; i++ {
		series = append(series, m.result.States[i][m.col])
	}
	if len(series) > 1 {
		b.WriteString(asciigraph.Plot(series, asciigraph.Height(14), asciigraph.Width(72)))
		b.WriteString("\n")
	}

	t := m.result.Times[m.playHead]
	u := m.result.States[m.playHead]
	b.WriteString(labelStyle.Render("t"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.4f", t)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("u[%d]", m.col)))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.6f", u[m.col])))
	b.WriteString("\n")

	status := "paused"
	if m.running {
		status = "playing"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("[space] %s  [tab] component  [r] restart  [q] quit", status)))
	return b.String()
}
