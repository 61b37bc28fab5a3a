package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParticleSystem", func() {
	var sys *ParticleSystem

	BeforeEach(func() {
		sys = New(1, 5, 9.81, 0.8, WithSeed(1))
	})

	Describe("a particle dropped from the lid", func() {
		BeforeEach(func() {
			sys.SetParticle(0, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{})
		})

		It("lands on the floor and bounces with damped speed after one second", func() {
			sys.Step(1.0)

			Expect(sys.Position(0).Y()).To(BeNumerically("~", 0, 1e-6))
			Expect(sys.Velocity(0).Y()).To(BeNumerically("~", 7.848, 1e-4))
		})

		It("keeps falling without collision for a short step", func() {
			sys.Step(0.1)

			Expect(sys.Collisions()).To(BeZero())
			Expect(sys.Velocity(0).Y()).To(BeNumerically("~", -0.981, 1e-5))
			Expect(sys.Position(0).Y()).To(BeNumerically("~", 5-0.0981, 1e-5))
		})

		It("loses height on every bounce", func() {
			var peaks []float32
			rising := false
			prev := sys.Position(0).Y()
			for i := 0; i < 2000; i++ {
				sys.Step(1.0 / 240)
				y := sys.Position(0).Y()
				if rising && y < prev {
					peaks = append(peaks, prev)
				}
				rising = y > prev
				prev = y
			}

			Expect(len(peaks)).To(BeNumerically(">=", 4))
			for i := 1; i < 4; i++ {
				Expect(peaks[i]).To(BeNumerically("<", peaks[i-1]))
			}
		})
	})

	Describe("publishing", func() {
		It("hands sinks the published buffer once per step", func() {
			var frames []dynamo.Frame
			sys.Subscribe(dynamo.SinkFunc(func(f dynamo.Frame) {
				frames = append(frames, f.Clone())
			}))

			sys.Step(0.01)
			sys.Step(0.01)

			Expect(frames).To(HaveLen(2))
			Expect(frames[0].Version).To(Equal(uint64(1)))
			Expect(frames[1].Version).To(Equal(uint64(2)))
			Expect(frames[1].Positions).To(Equal(sys.Positions()))
		})

		It("does nothing but publish for an empty system", func() {
			empty := New(0, 5, 9.81, 0.8, WithSeed(1))
			empty.Step(1)

			Expect(empty.Positions()).To(BeEmpty())
			Expect(empty.Version()).To(Equal(uint64(1)))
			Expect(empty.NeedsUpdate()).To(BeTrue())
		})
	})

	Describe("determinism", func() {
		run := func(workers int) []float32 {
			s := New(2000, 5, 9.81, 0.8, WithSeed(99), WithWorkers(workers))
			for _, dt := range []float32{0.016, 0.017, 0.2, 0.001, 0.5, 0.016} {
				s.Step(dt)
			}
			return s.CopyPositions(nil)
		}

		It("reproduces the same trajectory for the same seed and deltas", func() {
			Expect(run(1)).To(Equal(run(1)))
		})

		It("reproduces the serial trajectory when split across workers", func() {
			Expect(run(8)).To(Equal(run(1)))
		})
	})
})
