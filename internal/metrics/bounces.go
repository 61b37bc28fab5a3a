package metrics

import "github.com/san-kum/partsim/internal/dynamo"

// Bounces sums the wall clamps reported after each step.
type Bounces struct {
	name  string
	total int
}

func NewBounces() *Bounces { return &Bounces{name: "bounces"} }

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(v dynamo.View, t float64) { b.total += v.Collisions() }

func (b *Bounces) Value() float64 { return float64(b.total) }

func (b *Bounces) Reset() { b.total = 0 }

// MeanHeight is the average y of the set at the latest observation.
type MeanHeight struct {
	name  string
	value float64
}

func NewMeanHeight() *MeanHeight { return &MeanHeight{name: "mean_height"} }

func (m *MeanHeight) Name() string { return m.name }

func (m *MeanHeight) Observe(v dynamo.View, t float64) {
	n := v.Count()
	if n == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(v.Position(i).Y())
	}
	m.value = sum / float64(n)
}

func (m *MeanHeight) Value() float64 { return m.value }

func (m *MeanHeight) Reset() { m.value = 0 }
