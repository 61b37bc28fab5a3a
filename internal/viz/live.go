package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/physics"
)

const (
	canvasWidth     = 60
	canvasHeight    = 22
	historyCapacity = 300
	defaultFPS      = 60
	gifPath         = "partsim.gif"
)

type TickMsg time.Time

type LiveConfig struct {
	Title string
	// MaxDelta clamps clock spikes, such as the first wall tick after a stall.
	MaxDelta  float32
	FrameRate int
}

// Model is the Bubble Tea program behind `partsim live`. Each tick pulls one
// delta from the clock, steps the system and redraws the published frame.
type Model struct {
	sys      *physics.ParticleSystem
	clock    dynamo.Clock
	cfg      LiveConfig
	canvas   *Canvas
	camera   *OrbitCamera
	recorder *Recorder

	energy  *metrics.EnergyLoss
	bounces *metrics.Bounces
	height  *metrics.MeanHeight

	energyHistory []float64
	heightHistory []float64

	t        float64
	running  bool
	showHelp bool
	status   string
}

func NewModel(sys *physics.ParticleSystem, clock dynamo.Clock, cfg LiveConfig) Model {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = defaultFPS
	}
	if cfg.Title == "" {
		cfg.Title = "particles"
	}

	m := Model{
		sys:           sys,
		clock:         clock,
		cfg:           cfg,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        CameraFor(sys.Bounds(), cfg.FrameRate),
		energy:        metrics.NewEnergyLoss(),
		bounces:       metrics.NewBounces(),
		height:        metrics.NewMeanHeight(),
		energyHistory: make([]float64, 0, historyCapacity),
		heightHistory: make([]float64, 0, historyCapacity),
		running:       true,
	}
	m.observe()
	m.camera.Settle()
	m.draw()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FrameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
				m.draw()
			}
		case "r":
			m.reset()
		case "left", "h":
			m.camera.Orbit(-0.15, 0)
		case "right", "l":
			m.camera.Orbit(0.15, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.1)
		case "down", "j":
			m.camera.Orbit(0, -0.1)
		case "+", "=":
			m.camera.Zoom(0.85)
		case "-", "_":
			m.camera.Zoom(1 / 0.85)
		case "t":
			NextTheme()
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder()
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.camera.Update()
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	dt := m.clock.Next()
	if dt < 0 {
		dt = 0
	}
	if m.cfg.MaxDelta > 0 && dt > m.cfg.MaxDelta {
		dt = m.cfg.MaxDelta
	}
	m.sys.Step(dt)
	m.t += float64(dt)
	m.observe()
}

func (m *Model) observe() {
	m.energy.Observe(m.sys, m.t)
	m.bounces.Observe(m.sys, m.t)
	m.height.Observe(m.sys, m.t)

	m.energyHistory = pushBounded(m.energyHistory, m.energy.Current())
	m.heightHistory = pushBounded(m.heightHistory, m.height.Value())
}

func pushBounded(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

// reset scatters the particles again and restarts the clock and metrics.
func (m *Model) reset() {
	m.sys.Reset()
	m.t = 0
	m.energy.Reset()
	m.bounces.Reset()
	m.height.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.heightHistory = m.heightHistory[:0]
	m.observe()
	m.draw()
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = "saved " + gifPath
	}
	m.recorder = nil
}

// draw renders the box and the published positions, then acknowledges the
// frame.
func (m *Model) draw() {
	RenderFrame(m.canvas, m.camera, m.sys.Bounds(), m.sys.Positions())
	m.sys.MarkUploaded()
}

// RenderFrame clears c and draws the box wireframe and every position seen
// from cam.
func RenderFrame(c *Canvas, cam *OrbitCamera, box dynamo.Box, positions []float32) {
	c.Clear()
	proj := cam.Projector(c.Dots())

	for _, e := range BoxEdges(box) {
		if x0, y0, x1, y1, ok := proj.Line(e[0], e[1]); ok {
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	for i := 0; i+2 < len(positions); i += 3 {
		if x, y, ok := proj.Project(vec3(positions[i:])); ok {
			c.Set(x, y)
		}
	}
}

func (m Model) View() string {
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Particles).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(theme.Accent).Render(strings.ToUpper(m.cfg.Title)) + "\n")

	switch {
	case m.recorder != nil:
		s.WriteString(statusRec.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5), asciigraph.Width(24), asciigraph.Caption("Total energy"))
		s.WriteString(graphStyle.Foreground(theme.Accent).Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Frame", fmt.Sprintf("%d", m.sys.Version()))
	row("Particles", fmt.Sprintf("%d", m.sys.Count()))
	row("Energy", fmt.Sprintf("%.2f", m.energy.Current()))
	row("Loss", ProgressBar(m.energy.Value(), 12)+fmt.Sprintf(" %3.0f%%", m.energy.Value()*100))
	row("Bounces", fmt.Sprintf("%.0f", m.bounces.Value()))
	row("Mean y", fmt.Sprintf("%.2f", m.height.Value()))
	s.WriteString(labelStyle.Render("") + lipgloss.NewStyle().Foreground(theme.Frame).Render(SparklineChart(m.heightHistory, 24)) + "\n")

	yaw, pitch, dist := m.camera.Angles()
	row("Camera", fmt.Sprintf("%.2f %.2f %.1f", yaw, pitch, dist))

	if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause S:Step R:Reset Q:Quit\n←→↑↓:Orbit +/-:Zoom T:Theme G:GIF ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space      pause / resume
  S          single step while paused
  R          scatter particles again
  Arrows     orbit the camera
  + / -      zoom
  T          cycle themes
  G          toggle GIF recording
  Q          quit
`

// Run starts the live viewer on the alternate screen and blocks until quit.
func Run(sys *physics.ParticleSystem, clock dynamo.Clock, cfg LiveConfig) error {
	_, err := tea.NewProgram(NewModel(sys, clock, cfg), tea.WithAltScreen()).Run()
	return err
}
