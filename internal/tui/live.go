// Package tui is a live terminal viewer: it steps a run interactively
// and plots a conserved-moment profile while the lattice evolves.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/lbmkit/lbmkit/internal/config"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/registry"
	"github.com/lbmkit/lbmkit/internal/runner"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type Model struct {
	cfg *config.Config
	run *runner.Runner

	f       *lattice.Field
	next    *lattice.Field
	initial *lattice.Field

	step    int
	paused  bool
	speed   int
	moment  int
	failed  error

	width  int
	height int
}

// New builds a viewer for a config: the run starts paused at the
// initial condition.
func New(cfg *config.Config) (*Model, error) {
	run, f, err := registry.NewRegistry().Build(cfg)
	if err != nil {
		return nil, err
	}
	return &Model{
		cfg:     cfg,
		run:     run,
		f:       f,
		next:    f.Clone(),
		initial: f.Clone(),
		paused:  true,
		speed:   1,
		width:   80,
		height:  24,
	}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused && m.failed == nil {
			for i := 0; i < m.speed; i++ {
				if err := m.advance(); err != nil {
					m.failed = err
					m.paused = true
					break
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case " ", "p":
		if m.failed == nil {
			m.paused = !m.paused
		}
	case "r":
		m.f = m.initial.Clone()
		m.next = m.initial.Clone()
		m.step = 0
		m.failed = nil
		m.paused = true
	case "s":
		if m.paused && m.failed == nil {
			if err := m.advance(); err != nil {
				m.failed = err
			}
		}
	case "m":
		nc := m.run.Stepper().Scheme().NumConserved()
		m.moment = (m.moment + 1) % nc
	case "+", "=":
		if m.speed < 64 {
			m.speed *= 2
		}
	case "-", "_":
		if m.speed > 1 {
			m.speed /= 2
		}
	}
	return m, nil
}

func (m *Model) advance() error {
	if err := m.run.Stepper().Step(m.f, m.next, m.run.Boundary()); err != nil {
		return err
	}
	m.f.Swap(m.next)
	m.step++
	return nil
}

// profile extracts the plotted moment: the whole line in 1D, the
// centerline along x in higher dimensions.
func (m *Model) profile() []float64 {
	cons := m.run.Stepper().ConservedField(m.f)[m.moment]
	if m.cfg.Dim == 1 {
		return cons
	}
	nx := m.cfg.Points[0]
	row := m.cfg.Points[1] / 2
	line := make([]float64, nx)
	copy(line, cons[row*nx:(row+1)*nx])
	return line
}

func (m *Model) totalMass() float64 {
	sum := 0.0
	for _, v := range m.run.Stepper().ConservedField(m.f)[m.moment] {
		sum += v
	}
	return sum
}

func (m *Model) View() string {
	var b strings.Builder

	t := float64(m.step) * m.cfg.Dt
	b.WriteString("\n")
	b.WriteString("  " + cyan.Render(m.cfg.Name) +
		dim.Render(fmt.Sprintf("  step %d  t=%.4f", m.step, t)) + "\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", 40)) + "\n\n")

	pw := m.width - 12
	if pw < 40 {
		pw = 40
	}
	ph := m.height - 12
	if ph < 8 {
		ph = 8
	}
	graph := asciigraph.Plot(m.profile(),
		asciigraph.Height(ph),
		asciigraph.Width(pw),
		asciigraph.Caption(fmt.Sprintf("conserved moment %d", m.moment)),
	)
	b.WriteString(graph + "\n\n")

	b.WriteString("  " + white.Render("mass ") + magenta.Render(fmt.Sprintf("%.6g", m.totalMass())) +
		dim.Render(fmt.Sprintf("   speed %dx", m.speed)))
	if m.paused && m.failed == nil {
		b.WriteString("   " + yellow.Render("paused"))
	}
	if m.failed != nil {
		b.WriteString("\n  " + red.Render("failed: "+m.failed.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render("  space run/pause   s step   r reset   m moment   +/- speed   q quit") + "\n")

	return b.String()
}
