package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

// energies returns the kinetic and gravitational potential energy of the
// whole set, taking every particle as unit mass and the floor as zero height.
func energies(v dynamo.View) (ke, pe float64) {
	g := float64(v.Gravity())
	for i := 0; i < v.Count(); i++ {
		vel := v.Velocity(i)
		ke += 0.5 * float64(vel.Dot(vel))
		pe += g * float64(v.Position(i).Y())
	}
	return ke, pe
}

// KineticEnergy averages the kinetic energy of the set over all samples.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(v dynamo.View, t float64) {
	ke, _ := energies(v)
	k.total += ke
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalEnergy averages kinetic plus potential energy over all samples.
type TotalEnergy struct {
	name    string
	samples int
	total   float64
}

func NewTotalEnergy() *TotalEnergy {
	return &TotalEnergy{name: "total_energy"}
}

func (e *TotalEnergy) Name() string { return e.name }

func (e *TotalEnergy) Observe(v dynamo.View, t float64) {
	ke, pe := energies(v)
	e.total += ke + pe
	e.samples++
}

func (e *TotalEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *TotalEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyLoss tracks the largest fraction of the initial mechanical energy
// lost so far. Damped bounces push it towards 1.
type EnergyLoss struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxLoss       float64
	samples       int
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(v dynamo.View, t float64) {
	ke, pe := energies(v)
	energy := ke + pe

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		loss := (e.initialEnergy - energy) / math.Abs(e.initialEnergy)
		e.maxLoss = math.Max(e.maxLoss, loss)
	}
}

func (e *EnergyLoss) Value() float64 {
	return e.maxLoss
}

// Current returns the energy seen by the latest observation.
func (e *EnergyLoss) Current() float64 { return e.currentEnergy }

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxLoss = 0
	e.samples = 0
}
