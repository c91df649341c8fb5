package stencil

// Multi concatenates the stencils of several elementary schemes into one
// global slot space. Offsets[k] is the first global slot of scheme k, and
// Offsets[len] is the total slot count.
type Multi struct {
	Dim      int
	Stencils []*Stencil
	Offsets  []int
}

// NewMulti groups elementary stencils. All must share the same dimension.
func NewMulti(stencils []*Stencil) (*Multi, error) {
	if len(stencils) == 0 {
		return nil, ErrEmpty
	}
	dim := stencils[0].Dim
	offsets := make([]int, len(stencils)+1)
	for k, s := range stencils {
		if s.Dim != dim {
			return nil, ErrDimension
		}
		offsets[k+1] = offsets[k] + s.Q()
	}
	return &Multi{Dim: dim, Stencils: stencils, Offsets: offsets}, nil
}

// QTotal returns the global number of velocity slots.
func (m *Multi) QTotal() int { return m.Offsets[len(m.Stencils)] }

// Velocity returns the velocity for a global slot.
func (m *Multi) Velocity(slot int) Velocity {
	for k := len(m.Stencils) - 1; k >= 0; k-- {
		if slot >= m.Offsets[k] {
			return m.Stencils[k].Velocities[slot-m.Offsets[k]]
		}
	}
	return m.Stencils[0].Velocities[slot]
}

// VMax returns the ghost layer width needed by any elementary stencil.
func (m *Multi) VMax() [3]int {
	var r [3]int
	for _, s := range m.Stencils {
		sr := s.VMax()
		for a := 0; a < 3; a++ {
			if sr[a] > r[a] {
				r[a] = sr[a]
			}
		}
	}
	return r
}
