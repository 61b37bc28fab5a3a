package sim

import "sync"

// FramePool recycles position buffers of a fixed length.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(size int) *FramePool {
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float32, size)
			},
		},
	}
}

func (p *FramePool) Get() []float32 {
	return p.pool.Get().([]float32)
}

func (p *FramePool) Put(buf []float32) {
	if len(buf) == p.size {
		for i := range buf {
			buf[i] = 0
		}
		p.pool.Put(buf)
	}
}

func (p *FramePool) GetAndCopy(src []float32) []float32 {
	dst := p.Get()
	copy(dst, src)
	return dst
}
