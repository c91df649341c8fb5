package scheme

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Term is one monomial coef * X^PX * Y^PY * Z^PZ of a moment polynomial.
type Term struct {
	Coef float64
	PX   int
	PY   int
	PZ   int
}

// Polynomial is a sum of monomials in the velocity components X, Y, Z.
// The moment matrix row for polynomial P is P evaluated at each velocity.
type Polynomial []Term

// Eval evaluates the polynomial at a velocity (components in lattice units).
func (p Polynomial) Eval(x, y, z float64) float64 {
	sum := 0.0
	for _, t := range p {
		sum += t.Coef * ipow(x, t.PX) * ipow(y, t.PY) * ipow(z, t.PZ)
	}
	return sum
}

func ipow(x float64, n int) float64 {
	switch n {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, float64(n))
}

func (p Polynomial) String() string {
	if len(p) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range p {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(fmt.Sprintf("%g", t.Coef))
		for _, m := range []struct {
			name string
			pow  int
		}{{"X", t.PX}, {"Y", t.PY}, {"Z", t.PZ}} {
			if m.pow == 1 {
				b.WriteString("*" + m.name)
			} else if m.pow > 1 {
				b.WriteString(fmt.Sprintf("*%s^%d", m.name, m.pow))
			}
		}
	}
	return b.String()
}

// Mono is a shorthand constructor for a single-term polynomial.
func Mono(coef float64, px, py, pz int) Polynomial {
	return Polynomial{{Coef: coef, PX: px, PY: py, PZ: pz}}
}

// One is the constant polynomial 1, the density row of every scheme.
func One() Polynomial { return Mono(1, 0, 0, 0) }

// Normalize merges terms with equal exponents and drops zero coefficients,
// sorting by total degree. Used for the Describe report only; evaluation
// does not require it.
func (p Polynomial) Normalize() Polynomial {
	merged := make(map[[3]int]float64)
	for _, t := range p {
		merged[[3]int{t.PX, t.PY, t.PZ}] += t.Coef
	}
	keys := make([][3]int, 0, len(merged))
	for k, c := range merged {
		if c != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		di := keys[i][0] + keys[i][1] + keys[i][2]
		dj := keys[j][0] + keys[j][1] + keys[j][2]
		if di != dj {
			return di < dj
		}
		return keys[i][0] > keys[j][0]
	})
	out := make(Polynomial, 0, len(keys))
	for _, k := range keys {
		out = append(out, Term{Coef: merged[k], PX: k[0], PY: k[1], PZ: k[2]})
	}
	return out
}
