package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/force"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	graphHeight     = 6
	historyCapacity = 400
)

type TickMsg time.Time

// Model runs the simulator inside a bubbletea program, projecting the
// particle cloud onto a braille canvas with an energy sparkline below.
type Model struct {
	simulator *sim.Simulator
	kernel    string
	canvas    *Canvas
	extent    float64
	stepsPer  int
	frameRate int
	energy    []float64
	running   bool
	err       error
}

func NewModel(s *sim.Simulator, kernel string, extent float64, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Model{
		simulator: s,
		kernel:    kernel,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		extent:    extent,
		stepsPer:  1,
		frameRate: frameRate,
		energy:    make([]float64, 0, historyCapacity),
		running:   true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			if m.stepsPer < 64 {
				m.stepsPer *= 2
			}
		case "-":
			if m.stepsPer > 1 {
				m.stepsPer /= 2
			}
		case "z":
			m.extent *= 1.25
		case "x":
			m.extent /= 1.25
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPer; i++ {
				if err := m.simulator.Step(); err != nil {
					m.err = err
					break
				}
			}
			p := m.simulator.Params()
			e := force.TotalEnergy(m.simulator.Particles(), p.G, p.E)
			m.energy = append(m.energy, e)
			if len(m.energy) > historyCapacity {
				m.energy = m.energy[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	m.canvas.Clear()
	for _, p := range m.simulator.Particles() {
		m.canvas.Project(float64(p.Pos.X), float64(p.Pos.Y), m.extent)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("gravsim"))
	b.WriteByte('\n')
	b.WriteString(canvasStyle.Render(strings.TrimRight(m.canvas.String(), "\n")))
	b.WriteByte('\n')

	stats := []struct{ label, value string }{
		{"kernel", m.kernel},
		{"bodies", fmt.Sprintf("%d", len(m.simulator.Particles()))},
		{"t", fmt.Sprintf("%.3f", m.simulator.Time())},
		{"steps/frame", fmt.Sprintf("%d", m.stepsPer)},
		{"extent", fmt.Sprintf("%.2f", m.extent)},
	}
	for _, s := range stats {
		b.WriteString(labelStyle.Render(s.label))
		b.WriteString(valueStyle.Render(s.value))
		b.WriteByte('\n')
	}

	if len(m.energy) >= 2 {
		graph := asciigraph.Plot(m.energy,
			asciigraph.Height(graphHeight),
			asciigraph.Caption("total energy"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteByte('\n')
	}

	if m.err != nil {
		b.WriteString(pausedStyle.Render("error: " + m.err.Error()))
		b.WriteByte('\n')
	} else if !m.running {
		b.WriteString(pausedStyle.Render("paused"))
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("space pause · +/- speed · z/x zoom · q quit"))
	return b.String()
}

// Run starts the live view and blocks until it exits.
func Run(s *sim.Simulator, kernel string, extent float64, frameRate int) error {
	p := tea.NewProgram(NewModel(s, kernel, extent, frameRate))
	_, err := p.Run()
	return err
}
