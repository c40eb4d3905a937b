package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbsim/internal/orbit"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	trailCapacity   = 400
	historyCapacity = 120
	ticksPerOrbit   = 200
	secondsPerDay   = 86400.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// LiveOptions configures the live view.
type LiveOptions struct {
	Width, Height int
	Theme         string
	// Focus shows the moons of one planet around it instead of the planets
	// around the central body.
	Focus string
	Side  bool
}

// Model animates an initialized system on a shared clock. Every tick
// advances the clock by one step and propagates each shown body to it.
type Model struct {
	sys       *orbit.System
	bodies    []*orbit.Body
	trails    [][]orbit.Vec3
	radius    []float64
	t, dt     float64
	speed     float64
	running   bool
	selected  int
	scene     *Scene
	err       error
	showHelp  bool
	focus     string
	baseSpeed float64
}

// NewModel builds a live view over sys. sys must already be initialized.
func NewModel(sys *orbit.System, opts LiveOptions) (Model, error) {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	var bodies []*orbit.Body
	if opts.Focus != "" {
		planet, ok := sys.Body(opts.Focus)
		if !ok {
			return Model{}, fmt.Errorf("%w: %s", orbit.ErrUnknownBody, opts.Focus)
		}
		bodies = planet.Moons()
		if len(bodies) == 0 {
			return Model{}, fmt.Errorf("viz: %s has no moons", opts.Focus)
		}
	} else {
		for _, name := range sys.Names() {
			b, _ := sys.Body(name)
			bodies = append(bodies, b)
		}
	}
	if len(bodies) == 0 {
		return Model{}, fmt.Errorf("viz: nothing to show")
	}

	shortest := math.Inf(1)
	tracks := make([][]orbit.Vec3, len(bodies))
	for i, b := range bodies {
		if !b.Initialized() {
			return Model{}, &orbit.BodyError{Body: b.Path(), Wrapped: orbit.ErrNotInitialized}
		}
		d := b.Derived()
		shortest = math.Min(shortest, d.Period)
		tracks[i] = []orbit.Vec3{{d.Apoapsis, 0, 0}}
	}

	scene := NewScene(opts.Width, opts.Height, GetTheme(opts.Theme))
	scene.Camera.Extent = FitExtent(tracks...)
	if opts.Side {
		scene.Camera.SideView()
	}

	m := Model{
		sys:       sys,
		bodies:    bodies,
		trails:    make([][]orbit.Vec3, len(bodies)),
		radius:    make([]float64, 0, historyCapacity),
		dt:        shortest / ticksPerOrbit,
		speed:     1,
		running:   true,
		scene:     scene,
		focus:     opts.Focus,
		baseSpeed: 1,
	}
	m.seedTrails()
	return m, nil
}

func (m *Model) seedTrails() {
	for i, b := range m.bodies {
		m.trails[i] = append(m.trails[i][:0], b.Positions[len(b.Positions)-1])
	}
	m.radius = m.radius[:0]
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the clock.
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
		case "tab":
			m.selected = (m.selected + 1) % len(m.bodies)
			m.radius = m.radius[:0]
		case "f":
			m.speed = math.Min(m.speed*2, 1024)
		case "s":
			m.speed = math.Max(m.speed/2, 1.0/64)
		case "+", "=":
			m.scene.Camera.ZoomIn()
		case "-", "_":
			m.scene.Camera.ZoomOut()
		case "x":
			m.scene.Camera.TiltBy(0.1)
		case "X":
			m.scene.Camera.TiltBy(-0.1)
		case "z":
			m.scene.Camera.SpinBy(0.1)
		case "Z":
			m.scene.Camera.SpinBy(-0.1)
		case "t":
			m.scene.Theme = NextTheme(m.scene.Theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.t += m.dt * m.speed
	for i, b := range m.bodies {
		s, err := b.Propagate(m.t)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		trail := append(m.trails[i], s.Position)
		if len(trail) > trailCapacity {
			trail = trail[len(trail)-trailCapacity:]
		}
		m.trails[i] = trail
		if i == m.selected {
			m.radius = append(m.radius, s.Position.Norm())
			if len(m.radius) > historyCapacity {
				m.radius = m.radius[len(m.radius)-historyCapacity:]
			}
		}
	}
}

func (m *Model) reset() {
	if err := m.sys.InitializeAll(); err != nil {
		m.err = err
		return
	}
	m.t = 0
	m.speed = m.baseSpeed
	m.err = nil
	m.running = true
	m.seedTrails()
}

// Time is the shared clock in seconds since periapsis.
func (m Model) Time() float64 { return m.t }

// Selected is the body shown in the side panel.
func (m Model) Selected() *orbit.Body { return m.bodies[m.selected] }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

// View renders the TUI interface.
func (m Model) View() string {
	m.scene.Layers = m.scene.Layers[:0]
	for i, b := range m.bodies {
		m.scene.Add(b.Name(), m.trails[i])
	}
	m.scene.Origin = true
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.scene.Draw().Render(m.scene.palette()))

	var s strings.Builder
	title := "ORBSIM LIVE"
	if m.focus != "" {
		title += " · " + m.focus
	}
	s.WriteString(HeaderStyle.Render(title) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n" + Subtle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render(fmt.Sprintf("RUNNING ×%g", m.speed)) + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	b := m.Selected()
	d := b.Derived()
	last := b.Len() - 1
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.1f d", m.t/secondsPerDay)) + "\n")
	s.WriteString(MetricLabel.Render("Body") + lipgloss.NewStyle().Foreground(m.scene.Theme.Color(m.selected)).Render(b.Path()) + "\n")
	s.WriteString(MetricLabel.Render("Distance") + MetricValue.Render(fmt.Sprintf("%.4g km", b.Positions[last].Norm())) + "\n")
	s.WriteString(MetricLabel.Render("Speed") + MetricValue.Render(fmt.Sprintf("%.4g", b.Velocities[last].Norm())) + "\n")
	s.WriteString(MetricLabel.Render("True anom.") + MetricValue.Render(fmt.Sprintf("%.1f°", orbit.Rad2Deg(d.TrueAnomaly))) + "\n")
	s.WriteString(MetricLabel.Render("Period") + MetricValue.Render(fmt.Sprintf("%.1f d", d.Period/secondsPerDay)) + "\n")
	s.WriteString(MetricLabel.Render("Orbit") + ProgressBar(math.Mod(m.t, d.Period)/d.Period, 20) + "\n")

	if len(m.radius) > 1 {
		chart := asciigraph.Plot(m.radius, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("|r| (km)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	names := make([]string, len(m.bodies))
	for i, body := range m.bodies {
		names[i] = body.Name()
	}
	s.WriteString("\n" + Legend(names, m.scene.Theme))
	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset Q:Quit TAB:Body\nF/S:Speed +/-:Zoom X/Z:Rotate ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from periapsis   ║
║  Q        - Quit                     ║
║  Tab      - Select next body         ║
║  F / S    - Faster / slower clock    ║
║  + / -    - Zoom in / out            ║
║  x / X    - Tilt view                ║
║  z / Z    - Spin view                ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
