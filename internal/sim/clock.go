package sim

import (
	"math/rand"
	"time"
)

// Fixed hands out the same delta every frame.
type Fixed float32

func (f Fixed) Next() float32 { return float32(f) }

// JitterClock perturbs a nominal delta with seeded uniform noise, the way a
// real display loop rarely ticks exactly on time.
type JitterClock struct {
	dt, spread float32
	rng        *rand.Rand
}

func Jitter(dt, spread float32, seed int64) *JitterClock {
	return &JitterClock{dt: dt, spread: spread, rng: rand.New(rand.NewSource(seed))}
}

func (j *JitterClock) Next() float32 {
	d := j.dt + (j.rng.Float32()*2-1)*j.spread
	if d < 0 {
		return 0
	}
	return d
}

// WallClock reports elapsed wall time since the previous call.
type WallClock struct {
	last time.Time
	now  func() time.Time
}

func Wall() *WallClock {
	return &WallClock{last: time.Now(), now: time.Now}
}

func (w *WallClock) Next() float32 {
	t := w.now()
	d := t.Sub(w.last).Seconds()
	w.last = t
	if d < 0 {
		return 0
	}
	return float32(d)
}
