// Package boundary fills the ghost layer of a distribution field before each
// streaming phase. The stepper itself never invents edge values: sites whose
// upstream neighbor falls outside the interior read whatever the boundary
// wrote into the ghost cells, and a missing boundary is a fatal step error.
package boundary

import (
	"errors"

	"github.com/lbmkit/lbmkit/internal/lattice"
	"github.com/lbmkit/lbmkit/internal/scheme"
)

// ErrMissingGhost indicates that streaming needs ghost values but no
// boundary supplies them.
var ErrMissingGhost = errors.New("boundary: ghost values required but no boundary set")

// Boundary supplies ghost-site values for the transport phase.
type Boundary interface {
	Name() string
	Apply(f *lattice.Field) error
}

// forEachGhost visits every point of the padded grid outside the interior.
func forEachGhost(lat *lattice.Lattice, fn func(x, y, z int)) {
	for z := -lat.Ghost[2]; z < lat.Shape[2]+lat.Ghost[2]; z++ {
		for y := -lat.Ghost[1]; y < lat.Shape[1]+lat.Ghost[1]; y++ {
			for x := -lat.Ghost[0]; x < lat.Shape[0]+lat.Ghost[0]; x++ {
				if x >= 0 && x < lat.Shape[0] &&
					y >= 0 && y < lat.Shape[1] &&
					z >= 0 && z < lat.Shape[2] {
					continue
				}
				fn(x, y, z)
			}
		}
	}
}

// Periodic wraps the domain: each ghost cell mirrors the interior cell one
// period away.
type Periodic struct{}

func (Periodic) Name() string { return "periodic" }

func (Periodic) Apply(f *lattice.Field) error {
	lat := f.Lat
	buf := make([]float64, f.Q)
	forEachGhost(lat, func(x, y, z int) {
		f.Gather(buf, wrap(x, lat.Shape[0]), wrap(y, lat.Shape[1]), wrap(z, lat.Shape[2]))
		f.Scatter(buf, x, y, z)
	})
	return nil
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Copy extends the nearest interior value outward (zero-gradient outflow).
type Copy struct{}

func (Copy) Name() string { return "copy" }

func (Copy) Apply(f *lattice.Field) error {
	lat := f.Lat
	buf := make([]float64, f.Q)
	forEachGhost(lat, func(x, y, z int) {
		f.Gather(buf, clamp(x, lat.Shape[0]), clamp(y, lat.Shape[1]), clamp(z, lat.Shape[2]))
		f.Scatter(buf, x, y, z)
	})
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Fixed writes the same distribution vector into every ghost cell.
type Fixed struct {
	F []float64
}

func (Fixed) Name() string { return "fixed" }

func (b Fixed) Apply(f *lattice.Field) error {
	forEachGhost(f.Lat, func(x, y, z int) {
		f.Scatter(b.F, x, y, z)
	})
	return nil
}

// Equilibrium builds a Fixed boundary holding the equilibrium distribution
// for the given conserved-moment values. The distribution is computed once,
// at construction.
func Equilibrium(sc *scheme.Scheme, cons []float64) Fixed {
	q := sc.QTotal()
	m := make([]float64, q)
	for i, slot := range sc.ConservedSlots() {
		m[slot] = cons[i]
	}
	scratch := make([]float64, sc.NumConserved())
	sc.Equilibrate(m, scratch)
	f := make([]float64, q)
	sc.M2F(f, m)
	return Fixed{F: f}
}

// None refuses to supply ghost values. Stepping a lattice with a nonzero
// ghost layer under this boundary fails.
type None struct{}

func (None) Name() string { return "none" }

func (None) Apply(f *lattice.Field) error {
	g := f.Lat.Ghost
	if g[0] > 0 || g[1] > 0 || g[2] > 0 {
		return ErrMissingGhost
	}
	return nil
}
