package viz

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

func newTestModel() (Model, *physics.ParticleSystem) {
	sys := physics.New(50, 5, 9.81, 0.8, physics.WithSeed(4))
	return NewModel(sys, sim.Fixed(1.0/60), LiveConfig{Title: "test", MaxDelta: 0.1}), sys
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m, sys := newTestModel()

	for i := 0; i < 5; i++ {
		m = update(m, TickMsg(time.Now()))
	}

	if sys.Version() != 5 {
		t.Errorf("expected 5 steps, got %d", sys.Version())
	}
	if sys.NeedsUpdate() {
		t.Error("draw should acknowledge the published frame")
	}
	if len(m.energyHistory) != 6 {
		t.Errorf("expected 6 energy samples, got %d", len(m.energyHistory))
	}
}

func TestModelPause(t *testing.T) {
	m, sys := newTestModel()

	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	if sys.Version() != 0 {
		t.Errorf("paused model must not step, version %d", sys.Version())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}

	m = update(m, key("s"))
	if sys.Version() != 1 {
		t.Errorf("single step should advance once, version %d", sys.Version())
	}
}

func TestModelReset(t *testing.T) {
	m, sys := newTestModel()
	for i := 0; i < 10; i++ {
		m = update(m, TickMsg(time.Now()))
	}

	m = update(m, key("r"))
	if m.t != 0 {
		t.Errorf("expected time reset, got %f", m.t)
	}
	if len(m.energyHistory) != 1 {
		t.Errorf("expected history restarted, got %d samples", len(m.energyHistory))
	}
	if sys.Version() != 11 {
		t.Errorf("reset publishes once, expected version 11, got %d", sys.Version())
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelOrbit(t *testing.T) {
	m, _ := newTestModel()
	yaw0, _, _ := m.camera.Angles()

	m = update(m, key("left"))
	for i := 0; i < 300; i++ {
		m = update(m, TickMsg(time.Now()))
	}

	yaw, _, _ := m.camera.Angles()
	if yaw >= yaw0 {
		t.Errorf("expected camera to orbit left, yaw %f -> %f", yaw0, yaw)
	}
}

func TestModelViewShowsStats(t *testing.T) {
	m, _ := newTestModel()
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"TEST", "RUNNING", "Particles", "Bounces"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRecorder(t *testing.T) {
	m, _ := newTestModel()
	r := NewRecorder()
	r.Capture(m.canvas)
	r.Capture(m.canvas)
	if r.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Len())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := NewRecorder().Save(filepath.Join(t.TempDir(), "none.gif")); err != nil {
		t.Errorf("empty recorder should not fail: %v", err)
	}
}

func TestLauncherStartsPreset(t *testing.T) {
	var l tea.Model = NewLauncher()

	l, _ = l.Update(key("j"))
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(l.View(), "collision_damping") {
		t.Fatal("expected config view")
	}

	l, cmd := l.Update(key("s"))
	if cmd == nil {
		t.Fatal("expected live model to start ticking")
	}
	if !strings.Contains(l.View(), "DEAD") {
		t.Error("expected live view of the dead preset")
	}
}
