package stepper

import "sync"

// VecPool recycles fixed-length float64 scratch vectors across collision
// chunks.
type VecPool struct {
	pool sync.Pool
	size int
}

func NewVecPool(size int) *VecPool {
	return &VecPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *VecPool) Get() []float64 {
	return p.pool.Get().([]float64)
}

func (p *VecPool) Put(v []float64) {
	if len(v) == p.size {
		for i := range v {
			v[i] = 0
		}
		p.pool.Put(v)
	}
}
