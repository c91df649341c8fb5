package stencil

import (
	"errors"
	"fmt"
)

// Domain errors for stencil construction.
var (
	// ErrDimension indicates an unsupported spatial dimension.
	ErrDimension = errors.New("stencil: dimension must be 1, 2 or 3")

	// ErrUnknownVelocity indicates a velocity number outside the numbering table.
	ErrUnknownVelocity = errors.New("stencil: unknown velocity number")

	// ErrEmpty indicates a stencil with no velocities.
	ErrEmpty = errors.New("stencil: velocity list is empty")

	// ErrDuplicate indicates a velocity number listed twice in one stencil.
	ErrDuplicate = errors.New("stencil: duplicate velocity number")
)

// Velocity is one discrete lattice velocity, identified by its canonical
// number and carrying integer components in lattice units. The physical
// velocity is the component vector scaled by the scheme velocity la = dx/dt,
// so one time step moves a particle by exactly (Cx, Cy, Cz) lattice cells.
type Velocity struct {
	Num int
	Cx  int
	Cy  int
	Cz  int
}

// C returns the component along axis (0=x, 1=y, 2=z).
func (v Velocity) C(axis int) int {
	switch axis {
	case 0:
		return v.Cx
	case 1:
		return v.Cy
	default:
		return v.Cz
	}
}

func (v Velocity) String() string {
	return fmt.Sprintf("(%d: %d,%d,%d)", v.Num, v.Cx, v.Cy, v.Cz)
}

// table2D numbers the 2D velocities shell by shell: rest, axis and diagonal
// neighbors at distance 1, then distance 2, then the (2,1) family.
var table2D = [][2]int{
	{0, 0},
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
	{2, 0}, {0, 2}, {-2, 0}, {0, -2},
	{2, 2}, {-2, 2}, {-2, -2}, {2, -2},
	{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
	{-2, -1}, {-1, -2}, {1, -2}, {2, -1},
}

// table3D numbers the 3D velocities: rest, the 6 faces, the 8 corners, then
// the 12 edges. This covers the D3Q15, D3Q19 and D3Q27 families.
var table3D = [][3]int{
	{0, 0, 0},
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
	{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1}, {1, -1, 1},
	{1, 1, -1}, {-1, 1, -1}, {-1, -1, -1}, {1, -1, -1},
	{1, 1, 0}, {-1, 1, 0}, {-1, -1, 0}, {1, -1, 0},
	{1, 0, 1}, {0, 1, 1}, {-1, 0, 1}, {0, -1, 1},
	{1, 0, -1}, {0, 1, -1}, {-1, 0, -1}, {0, -1, -1},
}

// FromNumber resolves a canonical velocity number in the given dimension.
// In 1D the numbering alternates sign: 0, +1, -1, +2, -2, ...
func FromNumber(dim, num int) (Velocity, error) {
	if num < 0 {
		return Velocity{}, fmt.Errorf("%w: %d", ErrUnknownVelocity, num)
	}
	switch dim {
	case 1:
		c := (num + 1) / 2
		if num%2 == 0 {
			c = -c
		}
		return Velocity{Num: num, Cx: c}, nil
	case 2:
		if num >= len(table2D) {
			return Velocity{}, fmt.Errorf("%w: %d (2D table ends at %d)", ErrUnknownVelocity, num, len(table2D)-1)
		}
		return Velocity{Num: num, Cx: table2D[num][0], Cy: table2D[num][1]}, nil
	case 3:
		if num >= len(table3D) {
			return Velocity{}, fmt.Errorf("%w: %d (3D table ends at %d)", ErrUnknownVelocity, num, len(table3D)-1)
		}
		return Velocity{Num: num, Cx: table3D[num][0], Cy: table3D[num][1], Cz: table3D[num][2]}, nil
	default:
		return Velocity{}, fmt.Errorf("%w: got %d", ErrDimension, dim)
	}
}

// Stencil is the ordered velocity set of one elementary scheme. Every
// velocity moves by an integer number of cells per step, so streaming always
// lands on a lattice point.
type Stencil struct {
	Dim        int
	Velocities []Velocity
}

// New builds a stencil from canonical velocity numbers.
func New(dim int, nums []int) (*Stencil, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, dim)
	}
	if len(nums) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[int]bool, len(nums))
	vs := make([]Velocity, len(nums))
	for i, n := range nums {
		if seen[n] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicate, n)
		}
		seen[n] = true
		v, err := FromNumber(dim, n)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return &Stencil{Dim: dim, Velocities: vs}, nil
}

// Q returns the number of velocities.
func (s *Stencil) Q() int { return len(s.Velocities) }

// VMax returns the stencil radius along each axis, i.e. the ghost layer
// width streaming needs on that axis.
func (s *Stencil) VMax() [3]int {
	var r [3]int
	for _, v := range s.Velocities {
		for a := 0; a < 3; a++ {
			c := v.C(a)
			if c < 0 {
				c = -c
			}
			if c > r[a] {
				r[a] = c
			}
		}
	}
	return r
}

// Numbers returns the canonical numbers in slot order.
func (s *Stencil) Numbers() []int {
	nums := make([]int, len(s.Velocities))
	for i, v := range s.Velocities {
		nums[i] = v.Num
	}
	return nums
}
