package scheme

import (
	"math"
	"testing"
)

// burgersD1Q2 is the two-velocity scheme for the Burgers equation: conserved
// moment U, flux equilibrium U^2/2, relaxation 1.5 on the flux moment.
func burgersD1Q2(t *testing.T) *Scheme {
	t.Helper()
	sc, err := New(1, 1.0, 1.0, Elementary{
		Velocities:  []int{1, 2},
		Polynomials: []Polynomial{One(), Mono(1, 1, 0, 0)},
		Conserved:   []int{0},
		Equilibria:  []Equilibrium{1: Poly(EqTerm{Coef: 0.5, Powers: []int{2}})},
		Relaxation:  []float64{0, 1.5},
	})
	if err != nil {
		t.Fatalf("building burgers scheme: %v", err)
	}
	return sc
}

func TestBurgersMatrices(t *testing.T) {
	sc := burgersD1Q2(t)

	// Velocities 1, 2 are +1, -1, so M = [[1,1],[1,-1]].
	m := sc.GlobalM()
	want := [][]float64{{1, 1}, {1, -1}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(m[i][j]-want[i][j]) > 1e-14 {
				t.Errorf("M[%d][%d]: expected %g, got %g", i, j, want[i][j], m[i][j])
			}
		}
	}

	inv := sc.GlobalInvM()
	wantInv := [][]float64{{0.5, 0.5}, {0.5, -0.5}}
	for i := range wantInv {
		for j := range wantInv[i] {
			if math.Abs(inv[i][j]-wantInv[i][j]) > 1e-14 {
				t.Errorf("invM[%d][%d]: expected %g, got %g", i, j, wantInv[i][j], inv[i][j])
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sc := burgersD1Q2(t)

	fs := [][]float64{
		{1.0, 0.0},
		{0.3, -0.7},
		{2.5, 2.5},
		{1e-9, 42.0},
	}
	m := make([]float64, 2)
	back := make([]float64, 2)
	for _, f := range fs {
		sc.F2M(m, f)
		sc.M2F(back, m)
		for j := range f {
			if math.Abs(back[j]-f[j]) > 1e-12 {
				t.Errorf("round trip f=%v: slot %d expected %g, got %g", f, j, f[j], back[j])
			}
		}
	}
}

func TestRelaxConservesAndRelaxes(t *testing.T) {
	sc := burgersD1Q2(t)

	m := []float64{0.8, 0.5}
	cons := make([]float64, 1)
	u := m[0]
	before := m[1]

	sc.Relax(m, cons)

	if m[0] != u {
		t.Errorf("conserved moment changed by collision: %g -> %g", u, m[0])
	}
	eq := 0.5 * u * u
	want := before - 1.5*(before-eq)
	if math.Abs(m[1]-want) > 1e-14 {
		t.Errorf("relaxed moment: expected %g, got %g", want, m[1])
	}
}

func TestRelaxAffine(t *testing.T) {
	sc := burgersD1Q2(t)
	cons := make([]float64, 1)

	// With U fixed, collision is affine in the relaxed moment: sample several
	// flux values and check m* = m - s (m - m^eq) exactly.
	u := 1.3
	eq := 0.5 * u * u
	for _, flux := range []float64{-2, -0.5, 0, 0.1, 3.7} {
		m := []float64{u, flux}
		sc.Relax(m, cons)
		want := flux - 1.5*(flux-eq)
		if m[1] != want {
			t.Errorf("flux %g: expected %g, got %g", flux, want, m[1])
		}
	}
}

func TestEquilibrate(t *testing.T) {
	sc := burgersD1Q2(t)
	cons := make([]float64, 1)

	m := []float64{0.6, 99.0}
	sc.Equilibrate(m, cons)
	if m[0] != 0.6 {
		t.Errorf("conserved moment changed: got %g", m[0])
	}
	if want := 0.5 * 0.6 * 0.6; math.Abs(m[1]-want) > 1e-14 {
		t.Errorf("equilibrium: expected %g, got %g", want, m[1])
	}
}

func TestMultiSchemeConserved(t *testing.T) {
	// Two coupled D1Q2 schemes: each conserves its own moment 0 and relaxes
	// its flux toward the other scheme's conserved moment (the p-system).
	sc, err := New(1, 1.0, 1.0,
		Elementary{
			Velocities:  []int{1, 2},
			Polynomials: []Polynomial{One(), Mono(1, 1, 0, 0)},
			Conserved:   []int{0},
			Equilibria:  []Equilibrium{1: Linear(0, 0, 1)},
			Relaxation:  []float64{0, 1.5},
		},
		Elementary{
			Velocities:  []int{1, 2},
			Polynomials: []Polynomial{One(), Mono(1, 1, 0, 0)},
			Conserved:   []int{0},
			Equilibria:  []Equilibrium{1: Linear(0, 1, 0)},
			Relaxation:  []float64{0, 1.2},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	if sc.QTotal() != 4 {
		t.Fatalf("expected 4 slots, got %d", sc.QTotal())
	}
	if sc.NumConserved() != 2 {
		t.Fatalf("expected 2 conserved moments, got %d", sc.NumConserved())
	}
	slots := sc.ConservedSlots()
	if slots[0] != 0 || slots[1] != 2 {
		t.Errorf("expected conserved slots [0 2], got %v", slots)
	}

	m := []float64{1.0, 0.0, 2.0, 0.0}
	cons := make([]float64, 2)
	sc.Relax(m, cons)
	if m[0] != 1.0 || m[2] != 2.0 {
		t.Errorf("conserved moments changed: %v", m)
	}
	// Scheme 0 flux relaxes toward cons[1] = 2, scheme 1 toward cons[0] = 1.
	if want := 0 - 1.5*(0-2.0); math.Abs(m[1]-want) > 1e-14 {
		t.Errorf("scheme 0 flux: expected %g, got %g", want, m[1])
	}
	if want := 0 - 1.2*(0-1.0); math.Abs(m[3]-want) > 1e-14 {
		t.Errorf("scheme 1 flux: expected %g, got %g", want, m[3])
	}
}

func TestExplicitMatrix(t *testing.T) {
	sc, err := New(1, 1.0, 1.0, Elementary{
		Velocities: []int{1, 2},
		Matrix:     [][]float64{{1, 1}, {1, -1}},
		Conserved:  []int{0},
		Equilibria: []Equilibrium{1: Constant(0)},
		Relaxation: []float64{0, 1.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	f := []float64{0.25, 0.75}
	m := make([]float64, 2)
	sc.F2M(m, f)
	if math.Abs(m[0]-1.0) > 1e-14 || math.Abs(m[1]-(-0.5)) > 1e-14 {
		t.Errorf("expected moments [1 -0.5], got %v", m)
	}
}

func TestPolynomialEval(t *testing.T) {
	// 3 (X^2 + Y^2) - 4, a D2Q9 energy row.
	p := Polynomial{{Coef: 3, PX: 2}, {Coef: 3, PY: 2}, {Coef: -4}}
	if got := p.Eval(1, 1, 0); got != 2 {
		t.Errorf("expected 2, got %g", got)
	}
	if got := p.Eval(0, 0, 0); got != -4 {
		t.Errorf("expected -4, got %g", got)
	}
}

func TestInvertSingular(t *testing.T) {
	_, err := invert([][]float64{{1, 2}, {2, 4}})
	if err == nil {
		t.Fatal("expected singular matrix error")
	}
}

func TestInvertIdentityProduct(t *testing.T) {
	a := [][]float64{{2, 1, 0}, {0, 1, -1}, {1, 0, 3}}
	inv, err := invert(a)
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{1.5, -2, 0.25}
	ax := make([]float64, 3)
	back := make([]float64, 3)
	matVec(ax, a, x)
	matVec(back, inv, ax)
	for i := range x {
		if math.Abs(back[i]-x[i]) > 1e-12 {
			t.Errorf("component %d: expected %g, got %g", i, x[i], back[i])
		}
	}
}
