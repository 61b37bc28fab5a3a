package metrics

import (
	"github.com/san-kum/partsim/internal/dynamo"
)

// Containment is the fraction of samples in which every particle was inside
// the boundary box. Anything below 1 means the collision pass missed one.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(v dynamo.View, t float64) {
	c.samples++
	box := v.Bounds()
	for i := 0; i < v.Count(); i++ {
		if !box.Contains(v.Position(i)) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
