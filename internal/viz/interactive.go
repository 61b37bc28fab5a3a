package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/physics"
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"default": "100 particles, 0.8 damping",
	"bouncy":  "lossless walls",
	"dead":    "walls soak up 90%",
	"moon":    "lunar gravity",
	"swarm":   "50k particles, 8 workers",
	"single":  "one seeded particle",
}

var tunable = []string{"count", "square_size", "gravity", "collision_damping", "dt"}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type launcher struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	registry      *experiment.Registry
	live          Model
}

func NewLauncher() *launcher {
	return &launcher{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: experiment.NewRegistry(),
	}
}

func (m launcher) Init() tea.Cmd { return nil }

func (m launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.state == stateMenu {
			return m.menuKey(key)
		}
		return m.configKey(key)
	}
	return m, nil
}

func (m launcher) menuKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m launcher) configKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	name := tunable[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.cfg.Set(name, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
				m.editBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunable)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, paramValue(m.cfg, name)
	case "left", "h":
		m.nudge(name, 1/1.1)
	case "right", "l":
		m.nudge(name, 1.1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *launcher) nudge(name string, factor float64) {
	v, _ := strconv.ParseFloat(paramValue(m.cfg, name), 64)
	if name == "count" {
		v = float64(int(v*factor + 0.5))
	} else {
		v *= factor
	}
	m.cfg.Set(name, v)
}

func paramValue(cfg *config.Config, name string) string {
	switch name {
	case "count":
		return strconv.Itoa(cfg.Count)
	case "square_size":
		return fmt.Sprintf("%.3f", cfg.SquareSize)
	case "gravity":
		return fmt.Sprintf("%.3f", cfg.Gravity)
	case "collision_damping":
		return fmt.Sprintf("%.3f", cfg.CollisionDamping)
	case "dt":
		return fmt.Sprintf("%.4f", cfg.Dt)
	}
	return ""
}

func (m launcher) start() (launcher, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	sys, err := physics.NewFromParams(m.cfg.Params(), m.cfg.Options()...)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	clock, err := m.registry.GetClock(m.cfg.Clock, m.cfg)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.live = NewModel(sys, clock, LiveConfig{Title: m.presets[m.cursor], MaxDelta: m.cfg.MaxDelta})
	m.state = stateSim
	return m, m.live.Init()
}

func (m launcher) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return m.viewMenu()
}

func (m launcher) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("PARTSIM") + "\n    " + menuSub.Render("particles in a box") + "\n    " + menuSub.Render("──────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(presetInfo[name])))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m launcher) viewConfig() string {
	var b strings.Builder
	name := m.presets[m.cursor]
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(name)) + "\n    " + menuSub.Render(presetInfo[name]) + "\n    " + menuSub.Render("──────────────────") + "\n\n")
	for i, p := range tunable {
		val := fmt.Sprintf("%10s", paramValue(m.cfg, p))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-18s", p)), menuDesc.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-18s", p)), menuIdle.Render(val)))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

// RunInteractive opens the preset launcher.
func RunInteractive() error {
	_, err := tea.NewProgram(NewLauncher(), tea.WithAltScreen()).Run()
	return err
}
