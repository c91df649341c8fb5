package scheme

// Equilibrium computes the equilibrium value of one non-conserved moment
// from the conserved moments, ordered globally (elementary scheme by
// elementary scheme, then by declared order). Equilibria are resolved once
// at construction into plain closures; nothing is interpreted per site.
type Equilibrium func(cons []float64) float64

// Constant returns an equilibrium fixed at c, independent of the state.
func Constant(c float64) Equilibrium {
	return func([]float64) float64 { return c }
}

// Linear returns an equilibrium that is a linear combination of the
// conserved moments: offset + sum coefs[i] * cons[i].
func Linear(offset float64, coefs ...float64) Equilibrium {
	return func(cons []float64) float64 {
		v := offset
		for i, c := range coefs {
			v += c * cons[i]
		}
		return v
	}
}

// EqTerm is one monomial of a polynomial equilibrium: Coef times the product
// of the conserved moments raised to Powers. Powers may be shorter than the
// conserved vector, missing entries mean power zero.
type EqTerm struct {
	Coef   float64
	Powers []int
}

// Poly compiles a polynomial in the conserved moments into an Equilibrium.
// The Burgers flux U^2/2 is Poly(EqTerm{Coef: 0.5, Powers: []int{2}}).
func Poly(terms ...EqTerm) Equilibrium {
	return func(cons []float64) float64 {
		sum := 0.0
		for _, t := range terms {
			v := t.Coef
			for i, p := range t.Powers {
				for n := 0; n < p; n++ {
					v *= cons[i]
				}
			}
			sum += v
		}
		return sum
	}
}
