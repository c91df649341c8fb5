package scheme

import (
	"fmt"
	"strings"

	"github.com/lbmkit/lbmkit/internal/stencil"
)

// Elementary describes one elementary scheme before validation: a velocity
// set, the moment polynomials (or an explicit moment matrix), the conserved
// moment indices, the equilibria of the relaxed moments, and the relaxation
// parameters. A zero relaxation parameter marks a conserved moment.
type Elementary struct {
	Velocities  []int
	Polynomials []Polynomial
	Matrix      [][]float64
	Conserved   []int
	Equilibria  []Equilibrium
	Relaxation  []float64
}

type block struct {
	st        *stencil.Stencil
	m         [][]float64
	invM      [][]float64
	s         []float64
	eq        []Equilibrium
	conserved []int
	poly      []Polynomial
}

// Scheme is a validated, immutable MRT scheme: stencils, moment matrices and
// their inverses, relaxation parameters and compiled equilibria. Everything
// here is computed once at construction and shared by every step.
type Scheme struct {
	Dim int
	Dx  float64
	Dt  float64
	La  float64

	multi  *stencil.Multi
	blocks []block

	// consSlots maps global conserved order to global moment slots.
	consSlots []int
}

// New validates an MRT scheme description and builds the moment matrices.
// dx and dt fix the scheme velocity la = dx/dt for the whole run.
func New(dim int, dx, dt float64, elems ...Elementary) (*Scheme, error) {
	if dx <= 0 || dt <= 0 {
		return nil, fmt.Errorf("%w: dx=%g dt=%g", ErrScaling, dx, dt)
	}
	if len(elems) == 0 {
		return nil, stencil.ErrEmpty
	}

	sc := &Scheme{Dim: dim, Dx: dx, Dt: dt, La: dx / dt}
	stencils := make([]*stencil.Stencil, len(elems))
	sc.blocks = make([]block, len(elems))

	for k, e := range elems {
		st, err := stencil.New(dim, e.Velocities)
		if err != nil {
			return nil, fmt.Errorf("scheme %d: %w", k, err)
		}
		b, err := buildBlock(st, e, k)
		if err != nil {
			return nil, err
		}
		stencils[k] = st
		sc.blocks[k] = b
	}

	multi, err := stencil.NewMulti(stencils)
	if err != nil {
		return nil, err
	}
	sc.multi = multi

	for k, b := range sc.blocks {
		for _, ic := range b.conserved {
			sc.consSlots = append(sc.consSlots, multi.Offsets[k]+ic)
		}
	}
	return sc, nil
}

func buildBlock(st *stencil.Stencil, e Elementary, k int) (block, error) {
	q := st.Q()

	if len(e.Relaxation) != q {
		return block{}, fmt.Errorf("scheme %d relaxation_parameters: %w (%d vs q=%d)", k, ErrSize, len(e.Relaxation), q)
	}
	if e.Matrix == nil && len(e.Polynomials) != q {
		return block{}, fmt.Errorf("scheme %d polynomials: %w (%d vs q=%d)", k, ErrSize, len(e.Polynomials), q)
	}
	if e.Matrix != nil && len(e.Matrix) != q {
		return block{}, fmt.Errorf("scheme %d matrix: %w (%d vs q=%d)", k, ErrSize, len(e.Matrix), q)
	}
	if e.Equilibria != nil && len(e.Equilibria) != q {
		return block{}, fmt.Errorf("scheme %d equilibrium: %w (%d vs q=%d)", k, ErrSize, len(e.Equilibria), q)
	}

	conserved := make(map[int]bool, len(e.Conserved))
	for _, ic := range e.Conserved {
		if ic < 0 || ic >= q || conserved[ic] {
			return block{}, fmt.Errorf("scheme %d: %w: %d", k, ErrConservedIndex, ic)
		}
		conserved[ic] = true
	}

	// The declared conserved moments and the zero relaxation parameters must
	// agree: s marks what collision leaves untouched.
	for i, s := range e.Relaxation {
		if (s == 0) != conserved[i] {
			return block{}, fmt.Errorf("scheme %d moment %d (s=%g): %w", k, i, s, ErrConservedRelaxed)
		}
	}

	eq := make([]Equilibrium, q)
	for i := 0; i < q; i++ {
		var f Equilibrium
		if e.Equilibria != nil {
			f = e.Equilibria[i]
		}
		if conserved[i] {
			if f != nil {
				return block{}, fmt.Errorf("scheme %d moment %d: %w", k, i, ErrConservedEquilibrium)
			}
			continue
		}
		if f == nil {
			return block{}, fmt.Errorf("scheme %d moment %d: %w", k, i, ErrMissingEquilibrium)
		}
		eq[i] = f
	}

	var m [][]float64
	if e.Matrix != nil {
		m = cloneMatrix(e.Matrix)
		for i := range m {
			if len(m[i]) != q {
				return block{}, fmt.Errorf("scheme %d matrix row %d: %w", k, i, ErrSize)
			}
		}
	} else {
		m = newMatrix(q)
		for i, p := range e.Polynomials {
			for j, v := range st.Velocities {
				m[i][j] = p.Eval(float64(v.Cx), float64(v.Cy), float64(v.Cz))
			}
		}
	}

	invM, err := invert(m)
	if err != nil {
		return block{}, fmt.Errorf("scheme %d: %w", k, err)
	}

	b := block{
		st:        st,
		m:         m,
		invM:      invM,
		s:         append([]float64(nil), e.Relaxation...),
		eq:        eq,
		conserved: append([]int(nil), e.Conserved...),
		poly:      e.Polynomials,
	}
	return b, nil
}

// Stencil returns the concatenated velocity slots of all elementary schemes.
func (sc *Scheme) Stencil() *stencil.Multi { return sc.multi }

// QTotal returns the global number of velocity slots.
func (sc *Scheme) QTotal() int { return sc.multi.QTotal() }

// NumConserved returns the number of conserved moments across all schemes.
func (sc *Scheme) NumConserved() int { return len(sc.consSlots) }

// ConservedSlots returns the global moment slots of the conserved moments,
// in declaration order.
func (sc *Scheme) ConservedSlots() []int {
	return append([]int(nil), sc.consSlots...)
}

// F2M computes the moments m = M f, block by block. m and f are global
// vectors of length QTotal and must not alias.
func (sc *Scheme) F2M(m, f []float64) {
	for k, b := range sc.blocks {
		off := sc.multi.Offsets[k]
		q := b.st.Q()
		matVec(m[off:off+q], b.m, f[off:off+q])
	}
}

// M2F computes the distribution functions f = M^-1 m, block by block.
func (sc *Scheme) M2F(f, m []float64) {
	for k, b := range sc.blocks {
		off := sc.multi.Offsets[k]
		q := b.st.Q()
		matVec(f[off:off+q], b.invM, m[off:off+q])
	}
}

// Conserved extracts the conserved moments of m into dst (length
// NumConserved).
func (sc *Scheme) Conserved(dst, m []float64) {
	for i, slot := range sc.consSlots {
		dst[i] = m[slot]
	}
}

// Relax applies the MRT collision in moment space, in place:
// m_k <- m_k - s_k (m_k - m_k^eq). Conserved moments (s_k = 0) pass through
// untouched. cons is scratch of length NumConserved.
func (sc *Scheme) Relax(m, cons []float64) {
	sc.Conserved(cons, m)
	for k, b := range sc.blocks {
		off := sc.multi.Offsets[k]
		for i, s := range b.s {
			if s == 0 {
				continue
			}
			g := off + i
			m[g] -= s * (m[g] - b.eq[i](cons))
		}
	}
}

// Equilibrate overwrites the relaxed moments of m with their equilibrium
// values, leaving the conserved moments alone. Used to initialize f at
// equilibrium from a conserved-moment field.
func (sc *Scheme) Equilibrate(m, cons []float64) {
	sc.Conserved(cons, m)
	for k, b := range sc.blocks {
		off := sc.multi.Offsets[k]
		for i, s := range b.s {
			if s == 0 {
				continue
			}
			m[off+i] = b.eq[i](cons)
		}
	}
}

// GlobalM assembles the block-diagonal moment matrix over all slots.
func (sc *Scheme) GlobalM() [][]float64 { return sc.assemble(func(b block) [][]float64 { return b.m }) }

// GlobalInvM assembles the block-diagonal inverse moment matrix.
func (sc *Scheme) GlobalInvM() [][]float64 {
	return sc.assemble(func(b block) [][]float64 { return b.invM })
}

func (sc *Scheme) assemble(pick func(block) [][]float64) [][]float64 {
	n := sc.QTotal()
	out := newMatrix(n)
	for k, b := range sc.blocks {
		off := sc.multi.Offsets[k]
		src := pick(b)
		for i := range src {
			copy(out[off+i][off:off+len(src)], src[i])
		}
	}
	return out
}

// Relaxation returns the global relaxation parameter vector.
func (sc *Scheme) Relaxation() []float64 {
	out := make([]float64, 0, sc.QTotal())
	for _, b := range sc.blocks {
		out = append(out, b.s...)
	}
	return out
}

// EquilibriumAt returns the equilibrium of a global moment slot, or nil for
// a conserved moment.
func (sc *Scheme) EquilibriumAt(slot int) Equilibrium {
	for k := len(sc.blocks) - 1; k >= 0; k-- {
		if slot >= sc.multi.Offsets[k] {
			return sc.blocks[k].eq[slot-sc.multi.Offsets[k]]
		}
	}
	return nil
}

// Describe returns a human-readable report of the scheme invariants.
func (sc *Scheme) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scheme informations\n")
	fmt.Fprintf(&b, "  spatial dimension: %d\n", sc.Dim)
	fmt.Fprintf(&b, "  scheme velocity: la = %g (dx=%g, dt=%g)\n", sc.La, sc.Dx, sc.Dt)
	fmt.Fprintf(&b, "  elementary schemes: %d\n", len(sc.blocks))
	for k, bl := range sc.blocks {
		fmt.Fprintf(&b, "  scheme %d (D%dQ%d):\n", k, sc.Dim, bl.st.Q())
		fmt.Fprintf(&b, "    velocities:")
		for _, v := range bl.st.Velocities {
			fmt.Fprintf(&b, " %s", v)
		}
		fmt.Fprintf(&b, "\n")
		if bl.poly != nil {
			fmt.Fprintf(&b, "    polynomials:\n")
			for _, p := range bl.poly {
				fmt.Fprintf(&b, "      %s\n", p.Normalize())
			}
		}
		fmt.Fprintf(&b, "    conserved moments: %v\n", bl.conserved)
		fmt.Fprintf(&b, "    relaxation parameters: %v\n", bl.s)
		fmt.Fprintf(&b, "    M:\n")
		for _, row := range bl.m {
			fmt.Fprintf(&b, "      %v\n", row)
		}
		fmt.Fprintf(&b, "    M^-1:\n")
		for _, row := range bl.invM {
			fmt.Fprintf(&b, "      %v\n", row)
		}
	}
	return b.String()
}
