// Package stepper advances a distribution field by one MRT lattice Boltzmann
// time step: per-site moment transform, relaxation and inverse transform,
// then a pull streaming that shifts post-collision values along each
// velocity. Collision mutates the read buffer in place; streaming writes
// into a distinct buffer, so no site ever reads a value written during the
// same phase.
package stepper

import (
	"fmt"

	"github.com/lbmkit/lbmkit/internal/boundary"
	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/scheme"
)

// minChunk is the smallest per-goroutine site count worth parallelizing.
const minChunk = 256

// Stepper owns the fixed scheme invariants and the lattice geometry. It is
// safe for concurrent use on disjoint fields.
type Stepper struct {
	sc  *scheme.Scheme
	lat *lattice.Lattice

	fPool *VecPool
	mPool *VecPool
	cPool *VecPool
}

// New builds a stepper. The lattice ghost layer must cover the stencil
// radius; NewLatticeFor sizes one correctly.
func New(sc *scheme.Scheme, lat *lattice.Lattice) (*Stepper, error) {
	need := sc.Stencil().VMax()
	for a := 0; a < 3; a++ {
		if lat.Ghost[a] < need[a] {
			return nil, fmt.Errorf("stepper: ghost layer %v narrower than stencil radius %v", lat.Ghost, need)
		}
	}
	q := sc.QTotal()
	return &Stepper{
		sc:    sc,
		lat:   lat,
		fPool: NewVecPool(q),
		mPool: NewVecPool(q),
		cPool: NewVecPool(sc.NumConserved()),
	}, nil
}

// NewLatticeFor builds a lattice sized for the scheme: ghost width equal to
// the stencil radius on each active axis, dx and dt from the scheme.
func NewLatticeFor(sc *scheme.Scheme, shape []int) (*lattice.Lattice, error) {
	return lattice.New(sc.Dim, shape, sc.Stencil().VMax(), sc.Dx, sc.Dt)
}

// Scheme returns the scheme the stepper was built with.
func (st *Stepper) Scheme() *scheme.Scheme { return st.sc }

// Lattice returns the lattice geometry.
func (st *Stepper) Lattice() *lattice.Lattice { return st.lat }

// Step advances f by one time step into next. f is left in its
// post-collision state; next must be a distinct field on the same lattice.
// The boundary fills the ghost layer between collision and streaming; nil
// means no boundary, which fails whenever the stencil reaches off-grid.
func (st *Stepper) Step(f, next *lattice.Field, bc boundary.Boundary) error {
	st.Collide(f)
	if bc == nil {
		bc = boundary.None{}
	}
	if err := bc.Apply(f); err != nil {
		return fmt.Errorf("stepper: %w", err)
	}
	st.Stream(f, next)
	return nil
}

// Collide applies the MRT collision to every interior site of f, in place:
// m = M f, m_k <- m_k - s_k (m_k - m_k^eq), f <- M^-1 m. Sites are
// independent, so the loop is chunked across goroutines.
func (st *Stepper) Collide(f *lattice.Field) {
	n := st.lat.Sites()
	parallelFor(n, minChunk, func(start, end int) {
		fv := st.fPool.Get()
		mv := st.mPool.Get()
		cv := st.cPool.Get()
		defer st.fPool.Put(fv)
		defer st.mPool.Put(mv)
		defer st.cPool.Put(cv)

		for site := start; site < end; site++ {
			x, y, z := st.lat.Coord(site)
			f.Gather(fv, x, y, z)
			st.sc.F2M(mv, fv)
			st.sc.Relax(mv, cv)
			st.sc.M2F(fv, mv)
			f.Scatter(fv, x, y, z)
		}
	})
}

// Stream pulls post-collision values into next:
// next_j(x) = f_j(x - c_j) for every interior site x and slot j. The ghost
// layer of f must already hold boundary values.
func (st *Stepper) Stream(f, next *lattice.Field) {
	n := st.lat.Sites()
	multi := st.sc.Stencil()
	q := st.sc.QTotal()
	parallelFor(n, minChunk, func(start, end int) {
		for site := start; site < end; site++ {
			x, y, z := st.lat.Coord(site)
			for j := 0; j < q; j++ {
				v := multi.Velocity(j)
				next.Set(j, x, y, z, f.At(j, x-v.Cx, y-v.Cy, z-v.Cz))
			}
		}
	})
}

// InitEquilibrium initializes f at equilibrium from per-site conserved
// moment values: cons[i][site] holds conserved moment i at interior site
// ordinal site.
func (st *Stepper) InitEquilibrium(f *lattice.Field, cons [][]float64) {
	n := st.lat.Sites()
	nc := st.sc.NumConserved()
	slots := st.sc.ConservedSlots()
	parallelFor(n, minChunk, func(start, end int) {
		fv := st.fPool.Get()
		mv := st.mPool.Get()
		cv := st.cPool.Get()
		defer st.fPool.Put(fv)
		defer st.mPool.Put(mv)
		defer st.cPool.Put(cv)

		for site := start; site < end; site++ {
			for j := range mv {
				mv[j] = 0
			}
			for i := 0; i < nc; i++ {
				mv[slots[i]] = cons[i][site]
			}
			st.sc.Equilibrate(mv, cv)
			st.sc.M2F(fv, mv)
			x, y, z := st.lat.Coord(site)
			f.Scatter(fv, x, y, z)
		}
	})
}

// ConservedField computes the conserved moments of every interior site:
// result[i][site] is conserved moment i.
func (st *Stepper) ConservedField(f *lattice.Field) [][]float64 {
	n := st.lat.Sites()
	nc := st.sc.NumConserved()
	out := make([][]float64, nc)
	for i := range out {
		out[i] = make([]float64, n)
	}
	parallelFor(n, minChunk, func(start, end int) {
		fv := st.fPool.Get()
		mv := st.mPool.Get()
		cv := st.cPool.Get()
		defer st.fPool.Put(fv)
		defer st.mPool.Put(mv)
		defer st.cPool.Put(cv)

		for site := start; site < end; site++ {
			x, y, z := st.lat.Coord(site)
			f.Gather(fv, x, y, z)
			st.sc.F2M(mv, fv)
			st.sc.Conserved(cv, mv)
			for i := 0; i < nc; i++ {
				out[i][site] = cv[i]
			}
		}
	})
	return out
}
