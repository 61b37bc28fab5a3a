package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
)

// pinned builds a seeded system whose particles are overwritten with the
// given states.
func pinned(g float32, pos, vel []mgl32.Vec3) *physics.ParticleSystem {
	s := physics.New(len(pos), 5, g, 0.8, physics.WithSeed(1))
	for i := range pos {
		s.SetParticle(i, pos[i], vel[i])
	}
	return s
}

func TestKineticEnergy(t *testing.T) {
	s := pinned(9.81,
		[]mgl32.Vec3{{0, 1, 0}, {0, 2, 0}},
		[]mgl32.Vec3{{3, 4, 0}, {0, 0, 2}},
	)

	m := NewKineticEnergy()
	m.Observe(s, 0)

	// 0.5*25 + 0.5*4
	if got := m.Value(); math.Abs(got-14.5) > 1e-6 {
		t.Errorf("expected kinetic energy 14.5, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero kinetic energy after reset")
	}
}

func TestTotalEnergy(t *testing.T) {
	s := pinned(10, []mgl32.Vec3{{0, 2, 0}}, []mgl32.Vec3{{0, 0, 0}})

	m := NewTotalEnergy()
	m.Observe(s, 0)

	if got := m.Value(); math.Abs(got-20) > 1e-5 {
		t.Errorf("expected total energy 20, got %f", got)
	}
	if m.Name() != "total_energy" {
		t.Errorf("unexpected name %q", m.Name())
	}
}

func TestTotalEnergyConservedInFlight(t *testing.T) {
	s := pinned(9.81, []mgl32.Vec3{{0, 4, 0}}, []mgl32.Vec3{{0, 0, 0}})

	m := NewEnergyLoss()
	m.Observe(s, 0)
	for i := 0; i < 20; i++ {
		s.Step(1.0 / 600)
		m.Observe(s, float64(i+1)/600)
	}

	// Semi-implicit Euler drifts by O(dt) while falling freely.
	if m.Value() > 0.01 {
		t.Errorf("expected near-zero loss before the first bounce, got %f", m.Value())
	}
}

func TestEnergyLossGrowsWithBounces(t *testing.T) {
	s := pinned(9.81, []mgl32.Vec3{{0, 5, 0}}, []mgl32.Vec3{{0, 0, 0}})

	m := NewEnergyLoss()
	m.Observe(s, 0)
	for i := 0; i < 600; i++ {
		s.Step(1.0 / 60)
		m.Observe(s, float64(i+1)/60)
	}

	if m.Value() < 0.3 {
		t.Errorf("expected damping to remove energy, loss = %f", m.Value())
	}
	if m.Value() > 1.0+1e-6 {
		t.Errorf("loss cannot exceed the initial energy, got %f", m.Value())
	}
	if m.Current() >= 5*9.81 {
		t.Errorf("expected current energy below initial, got %f", m.Current())
	}

	m.Reset()
	if m.Value() != 0 || m.Current() != 0 {
		t.Error("expected reset energy loss")
	}
}

func TestEnergyLossZeroInitial(t *testing.T) {
	s := physics.New(0, 5, 9.81, 0.8)

	m := NewEnergyLoss()
	m.Observe(s, 0)
	s.Step(0.1)
	m.Observe(s, 0.1)

	if m.Value() != 0 {
		t.Errorf("expected zero loss for an empty system, got %f", m.Value())
	}
}

func TestMetricsSatisfyInterface(t *testing.T) {
	var ms []dynamo.Metric = []dynamo.Metric{
		NewKineticEnergy(),
		NewTotalEnergy(),
		NewEnergyLoss(),
		NewBounces(),
		NewContainment(),
		NewMeanHeight(),
	}

	seen := make(map[string]bool)
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
}
