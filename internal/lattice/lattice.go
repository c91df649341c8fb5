package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrShape indicates a lattice shape with a non-positive extent.
	ErrShape = errors.New("lattice: shape extents must be positive")

	// ErrDimension indicates an unsupported spatial dimension.
	ErrDimension = errors.New("lattice: dimension must be 1, 2 or 3")
)

// Lattice is the regular grid the distribution field lives on: interior
// extents per axis, a ghost layer wide enough for the stencil radius, and
// the fixed mesh scales dx, dt.
type Lattice struct {
	Dim   int
	Shape [3]int
	Ghost [3]int
	Dx    float64
	Dt    float64

	ext [3]int
}

// New validates a lattice geometry. shape lists the interior extents for the
// active axes; ghost is the per-axis ghost layer width (the stencil radius).
func New(dim int, shape []int, ghost [3]int, dx, dt float64) (*Lattice, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, dim)
	}
	if len(shape) != dim {
		return nil, fmt.Errorf("%w: %d extents for dimension %d", ErrShape, len(shape), dim)
	}
	l := &Lattice{Dim: dim, Dx: dx, Dt: dt}
	for a := 0; a < 3; a++ {
		l.Shape[a] = 1
		l.ext[a] = 1
	}
	for a, n := range shape {
		if n <= 0 {
			return nil, fmt.Errorf("%w: axis %d has extent %d", ErrShape, a, n)
		}
		l.Shape[a] = n
		l.Ghost[a] = ghost[a]
		l.ext[a] = n + 2*ghost[a]
	}
	return l, nil
}

// Sites returns the number of interior lattice points.
func (l *Lattice) Sites() int {
	return l.Shape[0] * l.Shape[1] * l.Shape[2]
}

// padded returns the number of points including ghost layers.
func (l *Lattice) padded() int {
	return l.ext[0] * l.ext[1] * l.ext[2]
}

// index maps coordinates (interior origin, ghosts at negative offsets) to a
// storage offset. Valid for x in [-Ghost[0], Shape[0]+Ghost[0]), same per axis.
func (l *Lattice) index(x, y, z int) int {
	ix := x + l.Ghost[0]
	iy := y + l.Ghost[1]
	iz := z + l.Ghost[2]
	return (iz*l.ext[1]+iy)*l.ext[0] + ix
}

// Coord maps an interior site ordinal in [0, Sites()) back to coordinates.
// Sites are ordered x fastest.
func (l *Lattice) Coord(site int) (x, y, z int) {
	x = site % l.Shape[0]
	site /= l.Shape[0]
	y = site % l.Shape[1]
	z = site / l.Shape[1]
	return
}

// X returns the physical coordinate of interior index i along axis 0,
// at cell centers.
func (l *Lattice) X(i int) float64 {
	return (float64(i) + 0.5) * l.Dx
}
